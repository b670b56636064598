// SPDX-License-Identifier: MIT
// Package: sparsecg/builder
//
// api.go — public entry points.
//
// Design contract:
//   - One orchestrator: build(method, cons, opts). Resolves the config, runs
//     the constructor and compresses the triplets into a full CSR matrix.
//   - Every generator is a constructor closure implemented in impl_*.go.
//   - Determinism: equal inputs, options and seed give identical matrices.

package builder

import (
	"fmt"

	"github.com/katalvlaran/sparsecg/csr"
)

// constructor emits the entries of one matrix into t using the resolved config.
type constructor func(cfg builderConfig) (*csr.Triplets, error)

// build resolves options, runs con and compresses the result.
func build(method string, con constructor, opts []Option) (*csr.Matrix, error) {
	cfg := newBuilderConfig(opts...)
	t, err := con(cfg)
	if err != nil {
		return nil, err
	}
	m := t.Compress()
	if err = m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	return m, nil
}

// Diagonal builds diag(vals) + shift*I. Every value must be > 0.
// Complexity: O(n).
func Diagonal(vals []float64, opts ...Option) (*csr.Matrix, error) {
	return build(MethodDiagonal, diagonal(vals), opts)
}

// Laplacian1D builds the n×n tridiagonal matrix (-1, 2, -1) + shift*I.
// Complexity: O(n).
func Laplacian1D(n int, opts ...Option) (*csr.Matrix, error) {
	return build(MethodLaplacian1D, laplacian1D(n), opts)
}

// Poisson2D builds the 5-point Laplacian of an nx×ny grid (N = nx*ny),
// rows numbered row-major, plus shift*I.
// Complexity: O(nx*ny).
func Poisson2D(nx, ny int, opts ...Option) (*csr.Matrix, error) {
	return build(MethodPoisson2D, poisson2D(nx, ny), opts)
}

// RandomSPD builds an n×n symmetric matrix with about perRow random
// off-diagonal entries per row, made strictly diagonally dominant. Requires
// WithSeed or WithRand.
// Complexity: O(n*perRow*log(n*perRow)).
func RandomSPD(n, perRow int, opts ...Option) (*csr.Matrix, error) {
	return build(MethodRandomSPD, randomSPD(n, perRow), opts)
}
