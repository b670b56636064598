// SPDX-License-Identifier: MIT

package partition_test

import (
	"testing"

	"github.com/katalvlaran/sparsecg/partition"
	"github.com/stretchr/testify/require"
)

// TestBlockExamples pins the ceil-block policy on small, hand-checked cases.
func TestBlockExamples(t *testing.T) {
	cases := []struct {
		name    string
		n, p    int
		rank    int
		want    partition.Range
		wantEnd int
	}{
		{"even split first", 8, 4, 0, partition.Range{Start: 0, Count: 2}, 2},
		{"even split last", 8, 4, 3, partition.Range{Start: 6, Count: 2}, 8},
		{"remainder on last", 10, 4, 3, partition.Range{Start: 9, Count: 1}, 10},
		{"single process", 5, 1, 0, partition.Range{Start: 0, Count: 5}, 5},
		{"more ranks than rows", 3, 8, 2, partition.Range{Start: 2, Count: 1}, 3},
		{"rank past the end", 3, 8, 5, partition.Range{Start: 3, Count: 0}, 3},
		{"start clamped", 5, 4, 3, partition.Range{Start: 5, Count: 0}, 5},
		{"empty system", 0, 3, 1, partition.Range{Start: 0, Count: 0}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := partition.Block(tc.n, tc.p, tc.rank)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
			require.Equal(t, tc.wantEnd, got.End())
		})
	}
}

// TestBlockErrors checks every sentinel surfaced by Block.
func TestBlockErrors(t *testing.T) {
	_, err := partition.Block(-1, 2, 0)
	require.ErrorIs(t, err, partition.ErrNegativeSize)

	_, err = partition.Block(4, 0, 0)
	require.ErrorIs(t, err, partition.ErrNoProcesses)

	_, err = partition.Block(4, 2, 2)
	require.ErrorIs(t, err, partition.ErrRankOutOfRange)

	_, err = partition.Block(4, 2, -1)
	require.ErrorIs(t, err, partition.ErrRankOutOfRange)
}

// TestTableCoversExactly sweeps N and P: ranges are contiguous, disjoint and
// their union is exactly [0, N).
func TestTableCoversExactly(t *testing.T) {
	for n := 0; n <= 40; n++ {
		for p := 1; p <= 12; p++ {
			tbl, err := partition.NewTable(n, p)
			require.NoError(t, err)
			require.Equal(t, p, tbl.Size())
			require.Equal(t, n, tbl.Len(), "n=%d p=%d", n, p)
			require.NoError(t, tbl.Validate(), "n=%d p=%d", n, p)

			owned := make([]int, n)
			total := 0
			for rank, r := range tbl {
				require.GreaterOrEqual(t, r.Count, 0)
				require.LessOrEqual(t, r.Count, partition.BlockSize(n, p))
				for row := r.Start; row < r.End(); row++ {
					owned[row]++
					owner, err := tbl.Owner(row)
					require.NoError(t, err)
					require.Equal(t, rank, owner)
				}
				total += r.Count
			}
			require.Equal(t, n, total)
			for row, c := range owned {
				require.Equal(t, 1, c, "row %d owned %d times (n=%d p=%d)", row, c, n, p)
			}
		}
	}
}

// TestTableCountsOffsets mirrors MPI recvcounts/displs.
func TestTableCountsOffsets(t *testing.T) {
	tbl, err := partition.NewTable(10, 4)
	require.NoError(t, err)
	require.Equal(t, []int{3, 3, 3, 1}, tbl.Counts())
	require.Equal(t, []int{0, 3, 6, 9}, tbl.Offsets())
	require.Equal(t, "[6,9)", tbl[2].String())
}

// TestOwnerOutOfRange rejects rows outside [0, N).
func TestOwnerOutOfRange(t *testing.T) {
	tbl, err := partition.NewTable(6, 2)
	require.NoError(t, err)

	_, err = tbl.Owner(6)
	require.ErrorIs(t, err, partition.ErrRowOutOfRange)
	_, err = tbl.Owner(-1)
	require.ErrorIs(t, err, partition.ErrRowOutOfRange)
}

// TestValidateRejectsGaps detects hand-built inconsistent tables.
func TestValidateRejectsGaps(t *testing.T) {
	bad := partition.Table{{Start: 0, Count: 2}, {Start: 3, Count: 2}}
	require.ErrorIs(t, bad.Validate(), partition.ErrInconsistentTable)

	overlap := partition.Table{{Start: 0, Count: 3}, {Start: 2, Count: 2}}
	require.ErrorIs(t, overlap.Validate(), partition.ErrInconsistentTable)

	require.ErrorIs(t, partition.Table{}.Validate(), partition.ErrNoProcesses)
}
