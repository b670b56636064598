// SPDX-License-Identifier: MIT

package csr_test

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/sparsecg/csr"
	"github.com/stretchr/testify/require"
)

func tridiag(n int) *csr.Matrix {
	tr := csr.NewTriplets(n)
	for i := 0; i < n; i++ {
		tr.Append(i, i, 2+float64(i)/10)
		if i+1 < n {
			tr.AppendSym(i, i+1, -1)
		}
	}
	return tr.Compress()
}

// TestWriteReadRoundTrip encodes a matrix and decodes it whole.
func TestWriteReadRoundTrip(t *testing.T) {
	m := tridiag(9)
	var buf bytes.Buffer
	n, err := m.WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)
	require.Equal(t, int64(8+4*10+4*m.NNZ()+8*m.NNZ()), n)

	got, err := csr.ReadPartition(bytes.NewReader(buf.Bytes()), 1, 0)
	require.NoError(t, err)
	require.Equal(t, m, got)
}

// TestReadPartitionMatchesSlice checks the parallel loader against Slice for
// every rank and several group sizes, including ranks with no rows.
func TestReadPartitionMatchesSlice(t *testing.T) {
	m := tridiag(7)
	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	r := bytes.NewReader(buf.Bytes())

	for p := 1; p <= 9; p++ {
		want, err := m.Partition(p)
		require.NoError(t, err)
		for rank := 0; rank < p; rank++ {
			got, err := csr.ReadPartition(r, p, rank)
			require.NoError(t, err, "p=%d rank=%d", p, rank)
			require.Equal(t, want[rank], got, "p=%d rank=%d", p, rank)
		}
	}
}

// TestWriteFileReadFile goes through the filesystem helpers.
func TestWriteFileReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.csr")
	m := tridiag(4)
	require.NoError(t, m.WriteFile(path))

	got, err := csr.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, m, got)

	part, err := csr.LoadPartition(path, 2, 1)
	require.NoError(t, err)
	require.Equal(t, 2, part.RowStart)

	_, err = csr.ReadFile(filepath.Join(t.TempDir(), "missing.csr"))
	require.Error(t, err)
}

// TestReadHeaderRejects covers non-positive dimensions.
func TestReadHeaderRejects(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, [2]int32{0, 5}))
	_, err := csr.ReadPartition(bytes.NewReader(buf.Bytes()), 1, 0)
	require.ErrorIs(t, err, csr.ErrBadHeader)

	_, err = csr.ReadHeader(bytes.NewReader([]byte{1, 0}))
	require.Error(t, err)
}

// TestReadPartitionRejectsSizeMismatch: a header that disagrees with the
// file length fails before any buffer is sized from it.
func TestReadPartitionRejectsSizeMismatch(t *testing.T) {
	var huge bytes.Buffer
	require.NoError(t, binary.Write(&huge, binary.LittleEndian, [2]int32{1 << 30, 1 << 30}))
	_, err := csr.ReadPartition(bytes.NewReader(huge.Bytes()), 1, 0)
	require.ErrorIs(t, err, csr.ErrBadHeader)

	var buf bytes.Buffer
	_, err = tridiag(5).WriteTo(&buf)
	require.NoError(t, err)
	full := buf.Bytes()

	_, err = csr.ReadPartition(bytes.NewReader(full[:len(full)-3]), 2, 1)
	require.ErrorIs(t, err, csr.ErrBadHeader)
	_, err = csr.ReadPartition(bytes.NewReader(append(append([]byte{}, full...), 0)), 2, 0)
	require.ErrorIs(t, err, csr.ErrBadHeader)

	path := filepath.Join(t.TempDir(), "cut.csr")
	require.NoError(t, os.WriteFile(path, full[:len(full)-8], 0o644))
	_, err = csr.LoadPartition(path, 1, 0)
	require.ErrorIs(t, err, csr.ErrBadHeader)

	h, err := csr.ReadHeader(bytes.NewReader(full))
	require.NoError(t, err)
	require.Equal(t, int64(len(full)), h.FileSize())
}

// TestWriteToRejectsSlices refuses to write a partial matrix.
func TestWriteToRejectsSlices(t *testing.T) {
	parts, err := tridiag(4).Partition(2)
	require.NoError(t, err)
	_, err = parts[1].WriteTo(&bytes.Buffer{})
	require.ErrorIs(t, err, csr.ErrDimensionMismatch)
}
