// SPDX-License-Identifier: MIT
// Package: sparsecg/builder
//
// config.go — internal configuration and deterministic defaults.
//
// Deterministic defaults:
//   • rng     = nil                  (stochastic generators then fail with ErrNeedRandSource)
//   • valueFn = UniformValueFn(-1, 0) (off-diagonals of RandomSPD, RandomVector entries)
//   • shift   = 0                    (added to every diagonal entry)

package builder

import "math/rand"

// builderConfig aggregates every generator knob. Passed by value.
type builderConfig struct {
	rng     *rand.Rand
	valueFn ValueFn
	shift   float64
}

const (
	defaultValueMin = -1.0
	defaultValueMax = 0.0
	defaultShift    = 0.0
)

// newBuilderConfig applies options over the defaults, last one wins.
func newBuilderConfig(opts ...Option) builderConfig {
	cfg := builderConfig{
		rng:     nil,
		valueFn: UniformValueFn(defaultValueMin, defaultValueMax),
		shift:   defaultShift,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
