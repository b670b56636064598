// SPDX-License-Identifier: MIT
// Package: sparsecg/vecio
//
// vecio.go — text vector format and rank-0 distributed load/store.
//
// Format:
//   - whitespace-separated decimal floats, written one per line with %.12g;
//   - Read consumes exactly n values and ignores anything after them;
//   - NaN and Inf are rejected on read.

package vecio

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/katalvlaran/sparsecg/comm"
	"github.com/katalvlaran/sparsecg/partition"
)

const (
	opRead  = "Read"
	opWrite = "Write"
	opLoad  = "LoadDistributed"
	opStore = "StoreDistributed"

	// rootRank performs all file I/O.
	rootRank = 0
)

// Format is the printf verb used by Write.
const Format = "%.12g\n"

// Read parses the first n values from r.
func Read(r io.Reader, n int) ([]float64, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	out := make([]float64, 0, n)
	for len(out) < n && sc.Scan() {
		v, err := strconv.ParseFloat(sc.Text(), 64)
		if err != nil {
			return nil, fmt.Errorf("%s: value %d %q: %w", opRead, len(out), sc.Text(), ErrParse)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%s: value %d %q: %w", opRead, len(out), sc.Text(), ErrNaNInf)
		}
		out = append(out, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", opRead, err)
	}
	if len(out) < n {
		return nil, fmt.Errorf("%s: got %d of %d values: %w", opRead, len(out), n, ErrShortVector)
	}
	return out, nil
}

// Write prints x, one value per line.
func Write(w io.Writer, x []float64) error {
	bw := bufio.NewWriter(w)
	for _, v := range x {
		if _, err := fmt.Fprintf(bw, Format, v); err != nil {
			return fmt.Errorf("%s: %w", opWrite, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%s: %w", opWrite, err)
	}
	return nil
}

// ReadFile reads the first n values of the file at path.
func ReadFile(path string, n int) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opRead, err)
	}
	defer f.Close()
	return Read(f, n)
}

// WriteFile writes x to path, replacing any existing file.
func WriteFile(path string, x []float64) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%s: %w", opWrite, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("%s: %w", opWrite, cerr)
		}
	}()
	return Write(f, x)
}

// LoadDistributed returns this rank's slice of the vector stored at path.
// Rank 0 reads the file and broadcasts it. An empty path yields a slice
// filled with fallback on every rank without communication; all ranks must
// agree on whether path is empty.
func LoadDistributed(ctx context.Context, c comm.Communicator, path string, table partition.Table, fallback float64) ([]float64, error) {
	rg := table[c.Rank()]
	if path == "" {
		local := make([]float64, rg.Count)
		for i := range local {
			local[i] = fallback
		}
		return local, nil
	}

	var full []float64
	if c.Rank() == rootRank {
		v, err := ReadFile(path, table.Len())
		if err != nil {
			err = fmt.Errorf("%s: %w", opLoad, err)
			c.Abort(err)
			return nil, err
		}
		full = v
	} else {
		full = make([]float64, table.Len())
	}
	if err := c.Broadcast(ctx, full, rootRank); err != nil {
		return nil, fmt.Errorf("%s: %w", opLoad, err)
	}
	return append([]float64(nil), full[rg.Start:rg.End()]...), nil
}

// StoreDistributed gathers every rank's slice to rank 0, which writes the
// full vector to path.
func StoreDistributed(ctx context.Context, c comm.Communicator, path string, table partition.Table, local []float64) error {
	var full []float64
	if c.Rank() == rootRank {
		full = make([]float64, table.Len())
	}
	if err := c.Gatherv(ctx, local, full, table, rootRank); err != nil {
		return fmt.Errorf("%s: %w", opStore, err)
	}
	if c.Rank() != rootRank {
		return nil
	}
	if err := WriteFile(path, full); err != nil {
		return fmt.Errorf("%s: %w", opStore, err)
	}
	return nil
}
