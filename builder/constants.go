// SPDX-License-Identifier: MIT
// Package: sparsecg/builder

package builder

// Method tags prefix every error with the generator that produced it.
const (
	MethodDiagonal     = "Diagonal"
	MethodLaplacian1D  = "Laplacian1D"
	MethodPoisson2D    = "Poisson2D"
	MethodRandomSPD    = "RandomSPD"
	MethodRHS          = "RHS"
	MethodRandomVector = "RandomVector"
)

// Minimum sizes.
const (
	MinDim = 1 // every generator needs at least one row
)

// Stencil coefficients.
const (
	laplaceDiag1D = 2.0
	laplaceDiag2D = 4.0
	laplaceOff    = -1.0
)

// dominanceMargin is added to the absolute row sum of RandomSPD diagonals so
// the result is strictly diagonally dominant.
const dominanceMargin = 1.0
