// SPDX-License-Identifier: MIT
// Package: sparsecg/csr
//
// validators.go — structural checks for loaders and generators.
//
// The solver never calls these: a malformed matrix is undefined behaviour at
// the solver layer, and validation belongs to whoever produced the arrays.

package csr

import (
	"fmt"
	"math"
)

const (
	opValidate  = "Validate"
	opSymmetric = "Symmetric"
)

// Validate checks the CSR invariants of the block:
//   - Ptr has LocalN+1 entries, Ptr[0] == 0, Ptr is non-decreasing, Ptr[LocalN] == len(Cols);
//   - len(Cols) == len(Vals);
//   - every column lies in [0, GlobalN);
//   - every value is finite;
//   - the row range lies inside [0, GlobalN).
func (m *Matrix) Validate() error {
	if m == nil {
		return fmt.Errorf("%s: %w", opValidate, ErrNilMatrix)
	}
	if len(m.Ptr) == 0 || m.Ptr[0] != 0 {
		return fmt.Errorf("%s: Ptr must start with 0: %w", opValidate, ErrBadPtr)
	}
	if len(m.Cols) != len(m.Vals) {
		return fmt.Errorf("%s: len(Cols)=%d len(Vals)=%d: %w",
			opValidate, len(m.Cols), len(m.Vals), ErrDimensionMismatch)
	}
	if m.RowStart < 0 || m.RowStart+m.LocalN() > m.GlobalN {
		return fmt.Errorf("%s: rows %s outside [0,%d): %w",
			opValidate, m.Range(), m.GlobalN, ErrDimensionMismatch)
	}
	n := m.LocalN()
	for i := 0; i < n; i++ {
		if m.Ptr[i+1] < m.Ptr[i] {
			return fmt.Errorf("%s: Ptr[%d]=%d < Ptr[%d]=%d: %w",
				opValidate, i+1, m.Ptr[i+1], i, m.Ptr[i], ErrBadPtr)
		}
	}
	if m.Ptr[n] != len(m.Cols) {
		return fmt.Errorf("%s: Ptr[%d]=%d, len(Cols)=%d: %w",
			opValidate, n, m.Ptr[n], len(m.Cols), ErrBadPtr)
	}
	for k, c := range m.Cols {
		if c < 0 || c >= m.GlobalN {
			return fmt.Errorf("%s: Cols[%d]=%d: %w", opValidate, k, c, ErrColumnOutOfRange)
		}
	}
	for k, v := range m.Vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s: Vals[%d]: %w", opValidate, k, ErrNaNInf)
		}
	}

	return nil
}

// Symmetric reports whether a full matrix satisfies |a_ij - a_ji| <= tol for
// every stored entry. It requires the whole matrix (RowStart 0, LocalN == GlobalN).
func (m *Matrix) Symmetric(tol float64) (bool, error) {
	if m == nil {
		return false, fmt.Errorf("%s: %w", opSymmetric, ErrNilMatrix)
	}
	if m.RowStart != 0 || m.LocalN() != m.GlobalN {
		return false, fmt.Errorf("%s: need the full matrix, have rows %s of %d: %w",
			opSymmetric, m.Range(), m.GlobalN, ErrDimensionMismatch)
	}
	for i := 0; i < m.LocalN(); i++ {
		cols, vals := m.Row(i)
		for k, j := range cols {
			if math.Abs(vals[k]-m.at(j, i)) > tol {
				return false, nil
			}
		}
	}

	return true, nil
}

// at returns the sum of stored entries at (i, j) of a full matrix.
func (m *Matrix) at(i, j int) float64 {
	var v float64
	cols, vals := m.Row(i)
	for k, c := range cols {
		if c == j {
			v += vals[k]
		}
	}
	return v
}
