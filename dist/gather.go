// SPDX-License-Identifier: MIT
// Package: sparsecg/dist
//
// gather.go — reconstruct a full-length vector on every rank.
//
// Contract:
//   - Gather is a collective; every rank must call it, including ranks that
//     own an empty range.
//   - The returned slice is the Gatherer's scratch buffer: it is overwritten
//     by the next Gather and must not be retained across calls.
//   - For every i, out[i] equals the value held by the rank owning row i.
//
// Complexity:
//   - O(N) data moved to and from every rank per call; no allocation after NewGatherer.

package dist

import (
	"context"
	"fmt"

	"github.com/katalvlaran/sparsecg/comm"
	"github.com/katalvlaran/sparsecg/partition"
)

// Gatherer owns the counts/offsets table and the length-N scratch buffer,
// both computed once per solve.
type Gatherer struct {
	c     comm.Communicator
	table partition.Table
	buf   []float64
}

// NewGatherer builds a Gatherer for c's group over table.
func NewGatherer(c comm.Communicator, table partition.Table) (*Gatherer, error) {
	if table.Size() != c.Size() {
		return nil, fmt.Errorf("NewGatherer: table has %d ranks, group %d: %w", table.Size(), c.Size(), ErrTableMismatch)
	}
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("NewGatherer: %w", err)
	}
	return &Gatherer{c: c, table: table, buf: make([]float64, table.Len())}, nil
}

// Table returns the partition the Gatherer was built for.
func (g *Gatherer) Table() partition.Table { return g.table }

// Gather returns the full vector assembled from every rank's local slice.
func (g *Gatherer) Gather(ctx context.Context, local []float64) ([]float64, error) {
	if err := g.c.AllGatherv(ctx, local, g.buf, g.table); err != nil {
		return nil, fmt.Errorf("Gather: %w", err)
	}
	return g.buf, nil
}
