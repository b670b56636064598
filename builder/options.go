// SPDX-License-Identifier: MIT
// Package: sparsecg/builder
//
// options.go — functional options for the builder package.
//
// Contract:
//   • Option constructors validate and panic on meaningless input.
//   • Seeding is explicit via WithSeed or WithRand.

package builder

import (
	"fmt"
	"math"
	"math/rand"
)

// Option customises a generator before it runs.
type Option func(*builderConfig)

// WithRand provides an explicit RNG. Panics on nil.
func WithRand(r *rand.Rand) Option {
	if r == nil {
		panic("builder: WithRand(nil)")
	}
	return func(c *builderConfig) {
		c.rng = r
	}
}

// WithSeed creates a seeded RNG; equal seeds give equal matrices.
func WithSeed(seed int64) Option {
	return func(c *builderConfig) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithShift adds s to every diagonal entry. A larger shift lowers the
// condition number. Panics if s is negative or not finite.
func WithShift(s float64) Option {
	if s < 0 || math.IsNaN(s) || math.IsInf(s, 0) {
		panic(fmt.Sprintf("builder: WithShift(%g): shift must be finite and >= 0", s))
	}
	return func(c *builderConfig) {
		c.shift = s
	}
}

// WithValueFn overrides the generator of random values. Panics on nil.
func WithValueFn(fn ValueFn) Option {
	if fn == nil {
		panic("builder: WithValueFn(nil)")
	}
	return func(c *builderConfig) {
		c.valueFn = fn
	}
}
