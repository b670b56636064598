// SPDX-License-Identifier: MIT
// Package: sparsecg/csr
//
// matrix.go — the Matrix type, slicing and the local MatVec kernel.

package csr

import (
	"fmt"

	"github.com/katalvlaran/sparsecg/partition"
)

const (
	opSlice  = "Slice"
	opMatVec = "csr: MatVec"
)

// Matrix is a CSR block of rows of a square GlobalN×GlobalN matrix.
// It is immutable for the lifetime of a solve.
type Matrix struct {
	GlobalN  int       // global dimension N
	RowStart int       // first global row stored here
	Ptr      []int     // row offsets, len LocalN+1, Ptr[0] == 0
	Cols     []int     // global column indices
	Vals     []float64 // nonzero values, len == len(Cols)
}

// LocalN returns the number of rows stored in this block.
func (m *Matrix) LocalN() int {
	if len(m.Ptr) == 0 {
		return 0
	}
	return len(m.Ptr) - 1
}

// NNZ returns the number of stored nonzeros.
func (m *Matrix) NNZ() int { return len(m.Vals) }

// Range returns the global rows covered by this block.
func (m *Matrix) Range() partition.Range {
	return partition.Range{Start: m.RowStart, Count: m.LocalN()}
}

// Row returns the column indices and values of local row i.
// The returned slices alias the matrix storage.
func (m *Matrix) Row(i int) ([]int, []float64) {
	lo, hi := m.Ptr[i], m.Ptr[i+1]
	return m.Cols[lo:hi], m.Vals[lo:hi]
}

// MatVec computes dst = A_local * xGlobal:
//
//	dst[i] = Σ_{j ∈ [Ptr[i], Ptr[i+1])} Vals[j] * xGlobal[Cols[j]]
//
// xGlobal must be fully populated (length GlobalN) and dst must have length
// LocalN. Mismatched lengths are programmer errors and panic; a column index
// outside [0, GlobalN) is corrupted input and panics through bounds checking.
func (m *Matrix) MatVec(dst, xGlobal []float64) {
	if len(xGlobal) != m.GlobalN {
		panic(fmt.Sprintf("%s: len(x)=%d, want GlobalN=%d", opMatVec, len(xGlobal), m.GlobalN))
	}
	n := m.LocalN()
	if len(dst) != n {
		panic(fmt.Sprintf("%s: len(dst)=%d, want LocalN=%d", opMatVec, len(dst), n))
	}

	var (
		sum  float64
		j    int
		ptr  = m.Ptr
		cols = m.Cols
		vals = m.Vals
	)
	for i := 0; i < n; i++ {
		sum = 0
		for j = ptr[i]; j < ptr[i+1]; j++ {
			sum += vals[j] * xGlobal[cols[j]]
		}
		dst[i] = sum
	}
}

// Slice extracts the rows of r from a matrix that stores them, rebasing Ptr
// to start at zero. Cols and Vals are copied so the slice owns its storage.
func (m *Matrix) Slice(r partition.Range) (*Matrix, error) {
	if m == nil {
		return nil, fmt.Errorf("%s: %w", opSlice, ErrNilMatrix)
	}
	if len(m.Ptr) == 0 {
		return nil, fmt.Errorf("%s: empty Ptr: %w", opSlice, ErrBadPtr)
	}
	own := m.Range()
	if r.Count < 0 || r.Start < own.Start || r.End() > own.End() {
		return nil, fmt.Errorf("%s: %s not inside %s: %w", opSlice, r, own, ErrDimensionMismatch)
	}

	lo := r.Start - m.RowStart
	base := m.Ptr[lo]
	top := m.Ptr[lo+r.Count]

	out := &Matrix{
		GlobalN:  m.GlobalN,
		RowStart: r.Start,
		Ptr:      make([]int, r.Count+1),
		Cols:     make([]int, top-base),
		Vals:     make([]float64, top-base),
	}
	for i := 0; i <= r.Count; i++ {
		out.Ptr[i] = m.Ptr[lo+i] - base
	}
	copy(out.Cols, m.Cols[base:top])
	copy(out.Vals, m.Vals[base:top])

	return out, nil
}

// Partition splits a full matrix into p rank slices following the block policy.
func (m *Matrix) Partition(p int) ([]*Matrix, error) {
	tbl, err := partition.NewTable(m.GlobalN, p)
	if err != nil {
		return nil, fmt.Errorf("Partition: %w", err)
	}
	out := make([]*Matrix, p)
	for rank, r := range tbl {
		if out[rank], err = m.Slice(r); err != nil {
			return nil, fmt.Errorf("Partition(rank=%d): %w", rank, err)
		}
	}

	return out, nil
}
