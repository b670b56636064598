// SPDX-License-Identifier: MIT
// Package: sparsecg/comm
//
// group.go — in-process process group: P ranks as goroutines sharing one
// rendezvous per collective.
//
// Contract:
//   - A round opens when the first rank arrives and completes when the last
//     rank arrives; contributions are copied so callers may reuse their buffers.
//   - A rank arriving with a different Op than the open round aborts the group.
//   - Context cancellation in any rank aborts the group.
//
// Complexity:
//   - Exchange: O(len(data)) copy per rank; one mutex acquisition.

package comm

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
)

const transportLocal = "local"

// Group is an in-process process group.
type Group struct {
	id   string
	size int

	mu  sync.Mutex
	cur *round
	seq uint64

	abortOnce sync.Once
	aborted   chan struct{}
	cause     error
}

// round is one collective in flight.
type round struct {
	seq     uint64
	op      Op
	parts   [][]float64
	joined  []bool
	arrived int
	done    chan struct{}
}

// NewGroup creates a group of size ranks.
func NewGroup(size int) (*Group, error) {
	if size <= 0 {
		return nil, fmt.Errorf("NewGroup: size=%d: %w", size, ErrBadSize)
	}
	return &Group{
		id:      uuid.NewString(),
		size:    size,
		aborted: make(chan struct{}),
	}, nil
}

// ID returns the group's unique id, used as run id in logs.
func (g *Group) ID() string { return g.id }

// Size returns the number of ranks.
func (g *Group) Size() int { return g.size }

// Comm returns the communicator of the given rank. It panics on an invalid
// rank, which is a programmer error.
func (g *Group) Comm(rank int) *Comm {
	if rank < 0 || rank >= g.size {
		panic(fmt.Sprintf("comm: Group.Comm rank %d out of [0,%d)", rank, g.size))
	}
	return New(&member{g: g, rank: rank})
}

// Abort terminates the group. The first cause wins; later calls are no-ops.
func (g *Group) Abort(err error) {
	if err == nil {
		err = errors.New("abort requested")
	}
	g.abortOnce.Do(func() {
		g.cause = err
		close(g.aborted)
	})
}

// Err returns nil while the group is healthy and an error wrapping
// ErrAborted once it was aborted.
func (g *Group) Err() error {
	select {
	case <-g.aborted:
		return fmt.Errorf("%w: %w", ErrAborted, g.cause)
	default:
		return nil
	}
}

func (g *Group) exchange(ctx context.Context, rank int, op Op, data []float64) ([][]float64, error) {
	if err := g.Err(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		err = fmt.Errorf("rank %d: %w", rank, err)
		g.Abort(err)
		return nil, err
	}

	g.mu.Lock()
	r := g.cur
	if r == nil {
		g.seq++
		r = &round{
			seq:    g.seq,
			op:     op,
			parts:  make([][]float64, g.size),
			joined: make([]bool, g.size),
			done:   make(chan struct{}),
		}
		g.cur = r
	}
	if r.op != op || r.joined[rank] {
		seq, open := r.seq, r.op
		g.mu.Unlock()
		err := fmt.Errorf("rank %d issued %s during round %d (%s): %w", rank, op, seq, open, ErrCollectiveMismatch)
		g.Abort(err)
		return nil, err
	}
	r.parts[rank] = slices.Clone(data)
	r.joined[rank] = true
	r.arrived++
	if r.arrived == g.size {
		g.cur = nil
		close(r.done)
	}
	g.mu.Unlock()

	select {
	case <-r.done:
		return r.parts, nil
	case <-g.aborted:
		return nil, g.Err()
	case <-ctx.Done():
		if err := g.Err(); err != nil {
			return nil, err
		}
		err := fmt.Errorf("rank %d: %w", rank, ctx.Err())
		g.Abort(err)
		return nil, err
	}
}

// member is one rank's view of a Group.
type member struct {
	g    *Group
	rank int
}

func (m *member) Rank() int         { return m.rank }
func (m *member) Size() int         { return m.g.size }
func (m *member) Abort(err error)   { m.g.Abort(err) }
func (m *member) Transport() string { return transportLocal }

func (m *member) Exchange(ctx context.Context, op Op, data []float64) ([][]float64, error) {
	return m.g.exchange(ctx, m.rank, op, data)
}
