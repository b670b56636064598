// SPDX-License-Identifier: MIT
// Package: sparsecg/builder
//
// value_fn.go — value distributions for stochastic generators.

package builder

import (
	"fmt"
	"math/rand"
)

// ValueFn draws one value from rng. It must be deterministic for a given
// RNG state. A nil rng yields the distribution's deterministic fallback.
type ValueFn func(rng *rand.Rand) float64

// ConstantValueFn always yields v.
func ConstantValueFn(v float64) ValueFn {
	return func(_ *rand.Rand) float64 {
		return v
	}
}

// UniformValueFn samples uniformly in [min, max). Panics if max < min.
// With a nil rng it yields min.
func UniformValueFn(min, max float64) ValueFn {
	if max < min {
		panic(fmt.Sprintf("UniformValueFn: require min <= max, got min=%g, max=%g", min, max))
	}
	return func(rng *rand.Rand) float64 {
		if rng == nil || max == min {
			return min
		}
		return min + rng.Float64()*(max-min)
	}
}

// NormalValueFn samples from N(mean, stddev). Panics if stddev < 0.
// With a nil rng it yields mean.
func NormalValueFn(mean, stddev float64) ValueFn {
	if stddev < 0 {
		panic(fmt.Sprintf("NormalValueFn: stddev must be >= 0, got %g", stddev))
	}
	return func(rng *rand.Rand) float64 {
		if rng == nil {
			return mean
		}
		return rng.NormFloat64()*stddev + mean
	}
}

// WithUniformValues sets values ~ U[min,max).
func WithUniformValues(min, max float64) Option {
	return WithValueFn(UniformValueFn(min, max))
}

// WithNormalValues sets values ~ N(mean,stddev).
func WithNormalValues(mean, stddev float64) Option {
	return WithValueFn(NormalValueFn(mean, stddev))
}
