// SPDX-License-Identifier: MIT
// Package: sparsecg/builder
//
// impl_diagonal.go — Diagonal(vals) constructor.
//
// Contract:
//   • len(vals) >= 1 (else ErrTooSmall).
//   • vals[i] + shift > 0 for every i (else ErrBadDiagonal).

package builder

import (
	"fmt"

	"github.com/katalvlaran/sparsecg/csr"
)

func diagonal(vals []float64) constructor {
	return func(cfg builderConfig) (*csr.Triplets, error) {
		if err := validateMin(MethodDiagonal, "n", len(vals), MinDim); err != nil {
			return nil, err
		}
		t := csr.NewTriplets(len(vals))
		for i, v := range vals {
			d := v + cfg.shift
			if !(d > 0) {
				return nil, fmt.Errorf("%s: vals[%d]=%g: %w", MethodDiagonal, i, v, ErrBadDiagonal)
			}
			t.Append(i, i, d)
		}
		return t, nil
	}
}
