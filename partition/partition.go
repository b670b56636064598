// SPDX-License-Identifier: MIT
// Package: sparsecg/partition
//
// partition.go — the contiguous block partitioner and its per-rank table.
//
// Contract:
//   - Block is pure and deterministic: equal (n, p, rank) ⇒ equal Range on every process.
//   - A Table is computed once per solve and reused by every gather.
//   - Ranges in a Table are contiguous, non-overlapping and exhaustive over [0, N).
//
// Complexity:
//   - Block: O(1). NewTable: O(P). Owner: O(1).

package partition

import "fmt"

const (
	opBlock    = "Block"
	opNewTable = "NewTable"
	opOwner    = "Owner"
	opValidate = "Validate"
)

// Range is the half-open row interval [Start, Start+Count) owned by one rank.
type Range struct {
	Start int // first global row owned
	Count int // number of rows owned (may be zero)
}

// End returns the exclusive upper bound Start+Count.
func (r Range) End() int { return r.Start + r.Count }

// Empty reports whether the range owns no rows.
func (r Range) Empty() bool { return r.Count == 0 }

// Contains reports whether the global row lies inside the range.
func (r Range) Contains(row int) bool { return row >= r.Start && row < r.End() }

// String implements fmt.Stringer as "[start,end)".
func (r Range) String() string { return fmt.Sprintf("[%d,%d)", r.Start, r.End()) }

// BlockSize returns ceil(n/p), the nominal number of rows per rank.
// It assumes n >= 0 and p > 0.
func BlockSize(n, p int) int {
	return (n + p - 1) / p
}

// Block returns the contiguous row range owned by rank in an n-row system
// split across p processes.
//
// The last non-empty rank absorbs the remainder; ranks whose nominal start
// lies past n own an empty range anchored at n.
//
// Errors:
//   - ErrNegativeSize if n < 0.
//   - ErrNoProcesses if p <= 0.
//   - ErrRankOutOfRange if rank ∉ [0, p).
func Block(n, p, rank int) (Range, error) {
	switch {
	case n < 0:
		return Range{}, fmt.Errorf("%s(n=%d): %w", opBlock, n, ErrNegativeSize)
	case p <= 0:
		return Range{}, fmt.Errorf("%s(p=%d): %w", opBlock, p, ErrNoProcesses)
	case rank < 0 || rank >= p:
		return Range{}, fmt.Errorf("%s(rank=%d, p=%d): %w", opBlock, rank, p, ErrRankOutOfRange)
	}

	block := BlockSize(n, p)
	start := min(rank*block, n)
	count := max(0, min(block, n-start))

	return Range{Start: start, Count: count}, nil
}

// Table holds the Range of every rank, indexed by rank.
type Table []Range

// NewTable computes the ranges of all p ranks for an n-row system.
func NewTable(n, p int) (Table, error) {
	if p <= 0 {
		return nil, fmt.Errorf("%s(p=%d): %w", opNewTable, p, ErrNoProcesses)
	}
	t := make(Table, p)
	var err error
	for rank := 0; rank < p; rank++ {
		if t[rank], err = Block(n, p, rank); err != nil {
			return nil, fmt.Errorf("%s: %w", opNewTable, err)
		}
	}

	return t, nil
}

// Size returns the number of ranks P.
func (t Table) Size() int { return len(t) }

// Len returns the global row count N covered by the table.
func (t Table) Len() int {
	if len(t) == 0 {
		return 0
	}
	return t[len(t)-1].End()
}

// Counts returns the per-rank row counts (MPI recvcounts).
func (t Table) Counts() []int {
	out := make([]int, len(t))
	for i, r := range t {
		out[i] = r.Count
	}
	return out
}

// Offsets returns the per-rank starting rows (MPI displs).
func (t Table) Offsets() []int {
	out := make([]int, len(t))
	for i, r := range t {
		out[i] = r.Start
	}
	return out
}

// Owner returns the rank that owns the given global row.
func (t Table) Owner(row int) (int, error) {
	n := t.Len()
	if row < 0 || row >= n {
		return -1, fmt.Errorf("%s(row=%d, n=%d): %w", opOwner, row, n, ErrRowOutOfRange)
	}
	// Ranks before the remainder all own exactly `block` rows.
	block := BlockSize(n, len(t))
	rank := row / block
	if rank < len(t) && t[rank].Contains(row) {
		return rank, nil
	}
	// Fallback for hand-built tables that do not follow the block policy.
	for i, r := range t {
		if r.Contains(row) {
			return i, nil
		}
	}

	return -1, fmt.Errorf("%s(row=%d): %w", opOwner, row, ErrInconsistentTable)
}

// Validate checks that the ranges are contiguous, non-overlapping and start at 0.
func (t Table) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%s: %w", opValidate, ErrNoProcesses)
	}
	next := 0
	for rank, r := range t {
		if r.Count < 0 || r.Start != next {
			return fmt.Errorf("%s: rank %d has %s, expected start %d: %w",
				opValidate, rank, r, next, ErrInconsistentTable)
		}
		next = r.End()
	}

	return nil
}
