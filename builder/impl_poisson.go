// SPDX-License-Identifier: MIT
// Package: sparsecg/builder
//
// impl_poisson.go — Poisson2D(nx, ny) constructor.
//
// Canonical model: 2D orthogonal grid with 4-neighbourhood, cell (r, c)
// mapped to row r*nx + c (row-major). Each row holds 4 on the diagonal and
// -1 for every existing neighbour.
//
// Contract:
//   • nx >= 1 and ny >= 1 (else ErrTooSmall).
//   • Entries emitted per cell in the order up, left, centre, right, down,
//     which is ascending column order.

package builder

import "github.com/katalvlaran/sparsecg/csr"

func poisson2D(nx, ny int) constructor {
	return func(cfg builderConfig) (*csr.Triplets, error) {
		if err := validateMin(MethodPoisson2D, "nx", nx, MinDim); err != nil {
			return nil, err
		}
		if err := validateMin(MethodPoisson2D, "ny", ny, MinDim); err != nil {
			return nil, err
		}
		t := csr.NewTriplets(nx * ny)
		for r := 0; r < ny; r++ {
			for c := 0; c < nx; c++ {
				i := r*nx + c
				if r > 0 {
					t.Append(i, i-nx, laplaceOff)
				}
				if c > 0 {
					t.Append(i, i-1, laplaceOff)
				}
				t.Append(i, i, laplaceDiag2D+cfg.shift)
				if c+1 < nx {
					t.Append(i, i+1, laplaceOff)
				}
				if r+1 < ny {
					t.Append(i, i+nx, laplaceOff)
				}
			}
		}
		return t, nil
	}
}
