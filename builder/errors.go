// SPDX-License-Identifier: MIT
// Package: sparsecg/builder
//
// errors.go — sentinel errors for the builder package.
//
// Error policy:
//   • Only sentinel variables are exposed; branch with errors.Is.
//   • Context is attached at the detection site with %w, e.g.
//     "Poisson2D: nx=0 < min=1: builder: parameter too small".
//   • Generators never panic at runtime; option constructors do.

package builder

import "errors"

// ErrTooSmall indicates a size parameter below the generator's minimum.
var ErrTooSmall = errors.New("builder: parameter too small")

// ErrBadDiagonal indicates a diagonal entry that is not strictly positive,
// which would make the matrix indefinite or singular.
var ErrBadDiagonal = errors.New("builder: diagonal must be positive")

// ErrBadDegree indicates an off-diagonal count per row outside [0, n-1].
var ErrBadDegree = errors.New("builder: off-diagonals per row out of range")

// ErrNeedRandSource indicates a stochastic generator used without WithSeed or WithRand.
var ErrNeedRandSource = errors.New("builder: rng is required")

// ErrDimensionMismatch indicates a vector whose length differs from the matrix.
var ErrDimensionMismatch = errors.New("builder: dimension mismatch")
