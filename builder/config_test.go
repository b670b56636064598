// SPDX-License-Identifier: MIT

// Package builder contains unit tests for builderConfig and Option resolution.
package builder

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDefaults pins the deterministic defaults.
func TestDefaults(t *testing.T) {
	t.Parallel()
	cfg := newBuilderConfig()
	require.Nil(t, cfg.rng)
	require.Equal(t, 0.0, cfg.shift)
	require.Equal(t, defaultValueMin, cfg.valueFn(nil))
}

// TestOptionsLastWins applies overlapping options in order.
func TestOptionsLastWins(t *testing.T) {
	t.Parallel()
	cfg := newBuilderConfig(WithShift(1), WithShift(3), WithValueFn(ConstantValueFn(7)))
	require.Equal(t, 3.0, cfg.shift)
	require.Equal(t, 7.0, cfg.valueFn(nil))

	r := rand.New(rand.NewSource(1))
	cfg = newBuilderConfig(WithSeed(9), WithRand(r))
	require.Same(t, r, cfg.rng)
}

// TestSeedReproducible draws the same sequence for equal seeds.
func TestSeedReproducible(t *testing.T) {
	t.Parallel()
	a := newBuilderConfig(WithSeed(42))
	b := newBuilderConfig(WithSeed(42))
	for i := 0; i < 5; i++ {
		require.Equal(t, a.rng.Int63(), b.rng.Int63())
	}
}

// TestOptionPanics surfaces programmer errors at option construction.
func TestOptionPanics(t *testing.T) {
	t.Parallel()
	require.Panics(t, func() { WithRand(nil) })
	require.Panics(t, func() { WithShift(-1) })
	require.Panics(t, func() { WithValueFn(nil) })
	require.Panics(t, func() { UniformValueFn(1, 0) })
	require.Panics(t, func() { NormalValueFn(0, -1) })
}
