// SPDX-License-Identifier: MIT
// Package: sparsecg/builder
//
// rhs.go — right-hand sides for generated systems.

package builder

import (
	"fmt"

	"github.com/katalvlaran/sparsecg/csr"
)

// RHS returns b = A*x for a full matrix a, so that x is the exact solution
// of the generated system.
func RHS(a *csr.Matrix, x []float64) ([]float64, error) {
	if a == nil {
		return nil, fmt.Errorf("%s: %w", MethodRHS, csr.ErrNilMatrix)
	}
	if a.LocalN() != a.GlobalN || len(x) != a.GlobalN {
		return nil, fmt.Errorf("%s: matrix %d/%d rows, len(x)=%d: %w",
			MethodRHS, a.LocalN(), a.GlobalN, len(x), ErrDimensionMismatch)
	}
	b := make([]float64, a.GlobalN)
	a.MatVec(b, x)
	return b, nil
}

// RandomVector returns n values drawn from the configured ValueFn. Without
// an RNG every entry is the distribution's fallback value.
func RandomVector(n int, opts ...Option) ([]float64, error) {
	if err := validateMin(MethodRandomVector, "n", n, MinDim); err != nil {
		return nil, err
	}
	cfg := newBuilderConfig(opts...)
	v := make([]float64, n)
	for i := range v {
		v[i] = cfg.valueFn(cfg.rng)
	}
	return v, nil
}
