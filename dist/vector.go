// SPDX-License-Identifier: MIT
// Package: sparsecg/dist
//
// vector.go — local and global inner products and BLAS-1 updates on local slices.
//
// Contract:
//   - Local helpers never communicate and accept zero-length slices.
//   - GlobalSum and GlobalDot are collectives: every rank must call them, in
//     the same order, even with an empty local slice.
//   - Mismatched lengths are programmer errors in the local helpers (panic),
//     and returned errors in the collectives, after aborting the group.

package dist

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/sparsecg/comm"
	"github.com/katalvlaran/sparsecg/partition"
)

const (
	opGlobalSum = "GlobalSum"
	opGlobalDot = "GlobalDot"
)

// LocalDot returns Σ u[i]*v[i] over the local slices. Zero length yields 0.
func LocalDot(u, v []float64) float64 {
	if len(u) != len(v) {
		panic(fmt.Sprintf("dist: LocalDot length mismatch %d != %d", len(u), len(v)))
	}
	if len(u) == 0 {
		return 0
	}
	return floats.Dot(u, v)
}

// GlobalSum returns the sum of x over all ranks; every rank gets the same bits.
func GlobalSum(ctx context.Context, c comm.Communicator, x float64) (float64, error) {
	s, err := c.AllReduceSum(ctx, x)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", opGlobalSum, err)
	}
	return s, nil
}

// GlobalDot is GlobalSum(LocalDot(u, v)).
func GlobalDot(ctx context.Context, c comm.Communicator, u, v []float64) (float64, error) {
	if len(u) != len(v) {
		err := fmt.Errorf("%s: %d != %d: %w", opGlobalDot, len(u), len(v), ErrLengthMismatch)
		c.Abort(err)
		return 0, err
	}
	s, err := c.AllReduceSum(ctx, LocalDot(u, v))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", opGlobalDot, err)
	}
	return s, nil
}

// Axpy computes y += alpha*x.
func Axpy(alpha float64, x, y []float64) {
	if len(x) != len(y) {
		panic(fmt.Sprintf("dist: Axpy length mismatch %d != %d", len(x), len(y)))
	}
	floats.AddScaled(y, alpha, x)
}

// Xpby computes y = x + beta*y, the CG direction update d = r + beta*d.
func Xpby(x []float64, beta float64, y []float64) {
	if len(x) != len(y) {
		panic(fmt.Sprintf("dist: Xpby length mismatch %d != %d", len(x), len(y)))
	}
	floats.Scale(beta, y)
	floats.Add(y, x)
}

// Sub computes dst = x - y.
func Sub(dst, x, y []float64) {
	if len(dst) != len(x) || len(x) != len(y) {
		panic(fmt.Sprintf("dist: Sub length mismatch %d, %d, %d", len(dst), len(x), len(y)))
	}
	floats.SubTo(dst, x, y)
}

// Ones returns a slice of n ones.
func Ones(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1
	}
	return v
}

// Zeros returns a slice of n zeros.
func Zeros(n int) []float64 {
	return make([]float64, n)
}

// Local returns the slice of a full-length vector that rank owns. The result
// aliases global.
func Local(global []float64, table partition.Table, rank int) ([]float64, error) {
	if len(global) != table.Len() {
		return nil, fmt.Errorf("Local: len=%d, table covers %d: %w", len(global), table.Len(), ErrLengthMismatch)
	}
	if rank < 0 || rank >= table.Size() {
		return nil, fmt.Errorf("Local: rank %d: %w", rank, partition.ErrRankOutOfRange)
	}
	rg := table[rank]
	return global[rg.Start:rg.End():rg.End()], nil
}

// Scatter splits a full-length vector into per-rank copies.
func Scatter(global []float64, table partition.Table) ([][]float64, error) {
	if len(global) != table.Len() {
		return nil, fmt.Errorf("Scatter: len=%d, table covers %d: %w", len(global), table.Len(), ErrLengthMismatch)
	}
	out := make([][]float64, table.Size())
	for rank, rg := range table {
		out[rank] = append([]float64(nil), global[rg.Start:rg.End()]...)
	}
	return out, nil
}
