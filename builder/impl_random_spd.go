// SPDX-License-Identifier: MIT
// Package: sparsecg/builder
//
// impl_random_spd.go — RandomSPD(n, perRow) constructor.
//
// Canonical model:
//   - For each row i ascending, draw perRow columns j != i uniformly and
//     emit v = valueFn(rng) at (i, j) and (j, i).
//   - Duplicate draws are summed by compression.
//   - Diagonal d_i = Σ_j |emitted v at row i| + dominanceMargin + shift.
//     Since |a+b| <= |a|+|b|, the compressed matrix stays strictly
//     diagonally dominant with a positive diagonal, hence SPD.
//
// Contract:
//   - n >= 1 (else ErrTooSmall); 0 <= perRow <= n-1 (else ErrBadDegree).
//   - cfg.rng must be set (else ErrNeedRandSource).
//
// Determinism:
//   - Stable trial order (row asc, draw index asc) for a fixed seed.

package builder

import (
	"fmt"
	"math"

	"github.com/katalvlaran/sparsecg/csr"
)

func randomSPD(n, perRow int) constructor {
	return func(cfg builderConfig) (*csr.Triplets, error) {
		if err := validateMin(MethodRandomSPD, "n", n, MinDim); err != nil {
			return nil, err
		}
		if perRow < 0 || perRow > n-1 {
			return nil, fmt.Errorf("%s: perRow=%d not in [0,%d]: %w", MethodRandomSPD, perRow, n-1, ErrBadDegree)
		}
		if err := validateRNG(MethodRandomSPD, cfg); err != nil {
			return nil, err
		}

		rng := cfg.rng
		t := csr.NewTriplets(n)
		rowAbs := make([]float64, n)
		for i := 0; i < n; i++ {
			for k := 0; k < perRow; k++ {
				j := rng.Intn(n - 1)
				if j >= i {
					j++ // skip the diagonal
				}
				v := cfg.valueFn(rng)
				t.AppendSym(i, j, v)
				rowAbs[i] += math.Abs(v)
				rowAbs[j] += math.Abs(v)
			}
		}
		for i := 0; i < n; i++ {
			t.Append(i, i, rowAbs[i]+dominanceMargin+cfg.shift)
		}
		return t, nil
	}
}
