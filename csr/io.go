// SPDX-License-Identifier: MIT
// Package: sparsecg/csr
//
// io.go — binary CSR files and the partitioned loader.
//
// Layout (little-endian, no padding):
//
//	offset 0            int32 n
//	offset 4            int32 nnz
//	offset 8            int32 ptr[n+1]
//	offset 8+4(n+1)     int32 cols[nnz]
//	offset ...+4nnz     float64 vals[nnz]
//
// ReadPartition touches only the bytes of one rank's rows, so P processes can
// load disjoint slices of a shared file concurrently.

package csr

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/katalvlaran/sparsecg/partition"
)

const (
	opRead      = "ReadPartition"
	opWrite     = "WriteTo"
	headerBytes = 8
	intBytes    = 4
	valBytes    = 8
)

var byteOrder = binary.LittleEndian

// Header is the leading (n, nnz) pair of a CSR file.
type Header struct {
	N   int
	NNZ int
}

func (h Header) colsOffset() int64 { return headerBytes + int64(h.N+1)*intBytes }
func (h Header) valsOffset() int64 { return h.colsOffset() + int64(h.NNZ)*intBytes }

// FileSize is the exact byte length of a file with this header.
func (h Header) FileSize() int64 { return h.valsOffset() + int64(h.NNZ)*valBytes }

// sizeOf reports the length of r when r can tell it.
func sizeOf(r io.ReaderAt) (int64, bool) {
	switch v := r.(type) {
	case interface{ Size() int64 }:
		return v.Size(), true
	case interface{ Stat() (os.FileInfo, error) }:
		fi, err := v.Stat()
		if err != nil {
			return 0, false
		}
		return fi.Size(), true
	}
	return 0, false
}

// ReadHeader reads and validates the file header.
func ReadHeader(r io.ReaderAt) (Header, error) {
	var raw [2]int32
	if err := binary.Read(io.NewSectionReader(r, 0, headerBytes), byteOrder, &raw); err != nil {
		return Header{}, fmt.Errorf("ReadHeader: %w", err)
	}
	h := Header{N: int(raw[0]), NNZ: int(raw[1])}
	if h.N <= 0 || h.NNZ <= 0 {
		return Header{}, fmt.Errorf("ReadHeader: n=%d nnz=%d: %w", h.N, h.NNZ, ErrBadHeader)
	}
	return h, nil
}

// ReadPartition loads the rows owned by rank when the matrix is split across p
// processes. Ptr is rebased to zero; Cols keep global indices.
func ReadPartition(r io.ReaderAt, p, rank int) (*Matrix, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opRead, err)
	}
	// Reject a corrupt header before sizing any buffer from it.
	if size, ok := sizeOf(r); ok && size != h.FileSize() {
		return nil, fmt.Errorf("%s: n=%d nnz=%d needs %d bytes, have %d: %w",
			opRead, h.N, h.NNZ, h.FileSize(), size, ErrBadHeader)
	}
	rows, err := partition.Block(h.N, p, rank)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opRead, err)
	}

	// ptr[start .. start+count] inclusive.
	rawPtr := make([]int32, rows.Count+1)
	off := int64(headerBytes) + int64(rows.Start)*intBytes
	if err = readAt(r, off, rawPtr); err != nil {
		return nil, fmt.Errorf("%s: ptr: %w", opRead, err)
	}
	base, top := int(rawPtr[0]), int(rawPtr[rows.Count])
	if base < 0 || top < base || top > h.NNZ {
		return nil, fmt.Errorf("%s: ptr window [%d,%d) outside nnz=%d: %w",
			opRead, base, top, h.NNZ, ErrBadPtr)
	}

	m := &Matrix{
		GlobalN:  h.N,
		RowStart: rows.Start,
		Ptr:      make([]int, rows.Count+1),
		Cols:     make([]int, top-base),
		Vals:     make([]float64, top-base),
	}
	for i, v := range rawPtr {
		m.Ptr[i] = int(v) - base
	}

	rawCols := make([]int32, top-base)
	if err = readAt(r, h.colsOffset()+int64(base)*intBytes, rawCols); err != nil {
		return nil, fmt.Errorf("%s: cols: %w", opRead, err)
	}
	for i, c := range rawCols {
		m.Cols[i] = int(c)
	}
	if err = readAt(r, h.valsOffset()+int64(base)*valBytes, m.Vals); err != nil {
		return nil, fmt.Errorf("%s: vals: %w", opRead, err)
	}

	if err = m.Validate(); err != nil {
		return nil, fmt.Errorf("%s(rank=%d): %w", opRead, rank, err)
	}
	return m, nil
}

// readAt decodes len(data) fixed-size values starting at off.
func readAt(r io.ReaderAt, off int64, data any) error {
	size := binary.Size(data)
	if size == 0 {
		return nil
	}
	return binary.Read(io.NewSectionReader(r, off, int64(size)), byteOrder, data)
}

// LoadPartition opens path and reads the slice owned by rank out of p.
func LoadPartition(path string, p, rank int) (*Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("LoadPartition: %w", err)
	}
	defer f.Close()

	return ReadPartition(f, p, rank)
}

// ReadFile loads a whole matrix.
func ReadFile(path string) (*Matrix, error) {
	return LoadPartition(path, 1, 0)
}

// WriteTo encodes a full matrix in the binary CSR layout.
func (m *Matrix) WriteTo(w io.Writer) (int64, error) {
	if m == nil {
		return 0, fmt.Errorf("%s: %w", opWrite, ErrNilMatrix)
	}
	if m.RowStart != 0 || m.LocalN() != m.GlobalN {
		return 0, fmt.Errorf("%s: need the full matrix, have rows %s of %d: %w",
			opWrite, m.Range(), m.GlobalN, ErrDimensionMismatch)
	}
	if m.GlobalN <= 0 || m.NNZ() <= 0 {
		return 0, fmt.Errorf("%s: n=%d nnz=%d: %w", opWrite, m.GlobalN, m.NNZ(), ErrBadHeader)
	}
	if m.GlobalN >= math.MaxInt32 || m.NNZ() > math.MaxInt32 {
		return 0, fmt.Errorf("%s: n=%d nnz=%d: %w", opWrite, m.GlobalN, m.NNZ(), ErrTooLarge)
	}
	if err := m.Validate(); err != nil {
		return 0, fmt.Errorf("%s: %w", opWrite, err)
	}

	bw := bufio.NewWriter(w)
	parts := []any{
		[2]int32{int32(m.GlobalN), int32(m.NNZ())},
		toInt32(m.Ptr),
		toInt32(m.Cols),
		m.Vals,
	}
	var n int64
	for _, part := range parts {
		if err := binary.Write(bw, byteOrder, part); err != nil {
			return n, fmt.Errorf("%s: %w", opWrite, err)
		}
		n += int64(binary.Size(part))
	}
	if err := bw.Flush(); err != nil {
		return n, fmt.Errorf("%s: %w", opWrite, err)
	}

	return n, nil
}

// WriteFile writes a full matrix to path, truncating any existing file.
func (m *Matrix) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("WriteFile: %w", err)
	}
	if _, err = m.WriteTo(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func toInt32(in []int) []int32 {
	out := make([]int32, len(in))
	for i, v := range in {
		out[i] = int32(v)
	}
	return out
}
