// SPDX-License-Identifier: MIT
// Package: sparsecg/csr
//
// triplet.go — coordinate (COO) accumulation and compression into CSR.
// Duplicate (i, j) entries are summed; columns within a row end up sorted.

package csr

import (
	"fmt"
	"slices"
)

type triplet struct {
	i, j int
	v    float64
}

// Triplets accumulates entries of an n×n matrix in coordinate form.
type Triplets struct {
	n    int
	data []triplet
}

// NewTriplets returns an empty accumulator for an n×n matrix.
func NewTriplets(n int) *Triplets {
	return &Triplets{n: n}
}

// Dim returns the matrix dimension.
func (t *Triplets) Dim() int { return t.n }

// Append records a(i, j) += v. Indices outside [0, n) panic.
func (t *Triplets) Append(i, j int, v float64) {
	if i < 0 || t.n <= i {
		panic(fmt.Sprintf("csr: Triplets.Append: row %d out of range [0,%d)", i, t.n))
	}
	if j < 0 || t.n <= j {
		panic(fmt.Sprintf("csr: Triplets.Append: column %d out of range [0,%d)", j, t.n))
	}
	t.data = append(t.data, triplet{i, j, v})
}

// AppendSym records v at (i, j) and, when i != j, at (j, i).
func (t *Triplets) AppendSym(i, j int, v float64) {
	t.Append(i, j, v)
	if i != j {
		t.Append(j, i, v)
	}
}

// Compress builds a full CSR matrix, summing duplicates. Explicit zeros that
// result from summation are kept so the sparsity pattern stays predictable.
func (t *Triplets) Compress() *Matrix {
	data := slices.Clone(t.data)
	slices.SortStableFunc(data, func(a, b triplet) int {
		if a.i != b.i {
			return a.i - b.i
		}
		return a.j - b.j
	})

	m := &Matrix{
		GlobalN: t.n,
		Ptr:     make([]int, t.n+1),
		Cols:    make([]int, 0, len(data)),
		Vals:    make([]float64, 0, len(data)),
	}
	for k := 0; k < len(data); {
		e := data[k]
		sum := e.v
		k++
		for k < len(data) && data[k].i == e.i && data[k].j == e.j {
			sum += data[k].v
			k++
		}
		m.Cols = append(m.Cols, e.j)
		m.Vals = append(m.Vals, sum)
		m.Ptr[e.i+1]++
	}
	for i := 0; i < t.n; i++ {
		m.Ptr[i+1] += m.Ptr[i]
	}

	return m
}

// FromDense compresses a dense row-major square matrix, dropping exact zeros.
func FromDense(rows [][]float64) (*Matrix, error) {
	n := len(rows)
	t := NewTriplets(n)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("FromDense: row %d has %d entries, want %d: %w",
				i, len(row), n, ErrDimensionMismatch)
		}
		for j, v := range row {
			if v != 0 {
				t.Append(i, j, v)
			}
		}
	}

	return t.Compress(), nil
}

// ToDense expands the block into LocalN dense rows of length GlobalN.
func (m *Matrix) ToDense() [][]float64 {
	out := make([][]float64, m.LocalN())
	for i := range out {
		out[i] = make([]float64, m.GlobalN)
		cols, vals := m.Row(i)
		for k, c := range cols {
			out[i][c] += vals[k]
		}
	}
	return out
}
