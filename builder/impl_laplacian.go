// SPDX-License-Identifier: MIT
// Package: sparsecg/builder
//
// impl_laplacian.go — Laplacian1D(n) constructor.
//
// Canonical model: the path graph Laplacian with Dirichlet ends,
//
//	row i: -1 at i-1, 2 at i, -1 at i+1 (where they exist)
//
// Contract:
//   • n >= 1 (else ErrTooSmall).
//   • Rows emitted in ascending order; columns ascending within a row.

package builder

import "github.com/katalvlaran/sparsecg/csr"

func laplacian1D(n int) constructor {
	return func(cfg builderConfig) (*csr.Triplets, error) {
		if err := validateMin(MethodLaplacian1D, "n", n, MinDim); err != nil {
			return nil, err
		}
		t := csr.NewTriplets(n)
		for i := 0; i < n; i++ {
			if i > 0 {
				t.Append(i, i-1, laplaceOff)
			}
			t.Append(i, i, laplaceDiag1D+cfg.shift)
			if i+1 < n {
				t.Append(i, i+1, laplaceOff)
			}
		}
		return t, nil
	}
}
