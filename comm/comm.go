// SPDX-License-Identifier: MIT
// Package: sparsecg/comm
//
// comm.go — the Communicator surface and its implementation on top of an Exchanger.

package comm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/katalvlaran/sparsecg/partition"
)

// Op identifies a collective in a round so ranks can detect lost lockstep.
type Op uint8

// Collective operations.
const (
	OpAllReduceSum Op = iota + 1
	OpAllGather
	OpBroadcast
	OpGather
	OpBarrier
)

// String returns the lower-case name used in logs and metric labels.
func (o Op) String() string {
	switch o {
	case OpAllReduceSum:
		return "allreduce_sum"
	case OpAllGather:
		return "allgather"
	case OpBroadcast:
		return "broadcast"
	case OpGather:
		return "gather"
	case OpBarrier:
		return "barrier"
	default:
		return fmt.Sprintf("op(%d)", uint8(o))
	}
}

// Exchanger is the single transport primitive collectives are built on.
//
// Exchange contributes data for the current round and blocks until every rank
// contributed. It returns the contributions of all ranks indexed by rank. The
// returned slices are shared and must be treated as read-only.
type Exchanger interface {
	Rank() int
	Size() int
	Exchange(ctx context.Context, op Op, data []float64) ([][]float64, error)
	Abort(err error)
	Transport() string
}

// Communicator is what the solver and loaders need from a process group.
// All methods except Rank, Size and Abort are blocking collectives.
type Communicator interface {
	Rank() int
	Size() int

	// AllReduceSum returns the sum of x over all ranks, identical everywhere.
	AllReduceSum(ctx context.Context, x float64) (float64, error)

	// AllGatherv writes every rank's send slice into recv at the offsets of
	// table. len(recv) must be table.Len() on every rank.
	AllGatherv(ctx context.Context, send, recv []float64, table partition.Table) error

	// Broadcast copies root's buf into buf on every rank.
	Broadcast(ctx context.Context, buf []float64, root int) error

	// Gatherv assembles the send slices into recv on root only; recv is
	// ignored on other ranks.
	Gatherv(ctx context.Context, send, recv []float64, table partition.Table, root int) error

	// Barrier returns once every rank reached it.
	Barrier(ctx context.Context) error

	// Abort terminates the whole group. It never blocks.
	Abort(err error)
}

// Comm implements Communicator over any Exchanger.
type Comm struct {
	x Exchanger
}

var _ Communicator = (*Comm)(nil)

// New wraps an Exchanger.
func New(x Exchanger) *Comm {
	return &Comm{x: x}
}

// Rank returns this rank's index in [0, Size).
func (c *Comm) Rank() int { return c.x.Rank() }

// Size returns the number of ranks in the group.
func (c *Comm) Size() int { return c.x.Size() }

// Abort terminates the group with cause err.
func (c *Comm) Abort(err error) {
	collectiveAborts.WithLabelValues(c.x.Transport()).Inc()
	c.x.Abort(err)
}

// fail aborts the group before returning a locally detected error, so that no
// peer is left waiting in a collective this rank will never join.
func (c *Comm) fail(op Op, err error) error {
	err = fmt.Errorf("%s: %w", op, err)
	if !errors.Is(err, ErrAborted) {
		c.Abort(err)
	}
	return err
}

func (c *Comm) exchange(ctx context.Context, op Op, data []float64) ([][]float64, error) {
	start := time.Now()
	parts, err := c.x.Exchange(ctx, op, data)
	collectiveDuration.WithLabelValues(op.String(), c.x.Transport()).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(parts) != c.x.Size() {
		return nil, c.fail(op, fmt.Errorf("got %d contributions for %d ranks: %w",
			len(parts), c.x.Size(), ErrCollectiveMismatch))
	}
	return parts, nil
}

// AllReduceSum sums x over all ranks in rank order.
func (c *Comm) AllReduceSum(ctx context.Context, x float64) (float64, error) {
	parts, err := c.exchange(ctx, OpAllReduceSum, []float64{x})
	if err != nil {
		return 0, err
	}
	var sum float64
	for rank, p := range parts {
		if len(p) != 1 {
			return 0, c.fail(OpAllReduceSum, fmt.Errorf("rank %d sent %d values: %w",
				rank, len(p), ErrCollectiveMismatch))
		}
		sum += p[0]
	}
	return sum, nil
}

// checkTable verifies the local view of a vector collective before joining it.
func (c *Comm) checkTable(send []float64, table partition.Table) error {
	if table.Size() != c.Size() {
		return fmt.Errorf("table for %d ranks in a group of %d: %w", table.Size(), c.Size(), ErrCountMismatch)
	}
	if want := table[c.Rank()].Count; len(send) != want {
		return fmt.Errorf("rank %d sends %d values, table says %d: %w", c.Rank(), len(send), want, ErrCountMismatch)
	}
	return nil
}

// place copies every contribution into recv at its table offset.
func place(parts [][]float64, recv []float64, table partition.Table) error {
	if len(recv) != table.Len() {
		return fmt.Errorf("len(recv)=%d, want %d: %w", len(recv), table.Len(), ErrCountMismatch)
	}
	for rank, p := range parts {
		if len(p) != table[rank].Count {
			return fmt.Errorf("rank %d contributed %d values, table says %d: %w",
				rank, len(p), table[rank].Count, ErrCountMismatch)
		}
		copy(recv[table[rank].Start:], p)
	}
	return nil
}

// AllGatherv assembles the distributed vector on every rank.
func (c *Comm) AllGatherv(ctx context.Context, send, recv []float64, table partition.Table) error {
	if err := c.checkTable(send, table); err != nil {
		return c.fail(OpAllGather, err)
	}
	if len(recv) != table.Len() {
		return c.fail(OpAllGather, fmt.Errorf("len(recv)=%d, want %d: %w", len(recv), table.Len(), ErrCountMismatch))
	}
	parts, err := c.exchange(ctx, OpAllGather, send)
	if err != nil {
		return err
	}
	if err = place(parts, recv, table); err != nil {
		return c.fail(OpAllGather, err)
	}
	return nil
}

// Broadcast copies root's buffer to every rank. All ranks must pass buffers
// of the same length.
func (c *Comm) Broadcast(ctx context.Context, buf []float64, root int) error {
	if root < 0 || root >= c.Size() {
		return c.fail(OpBroadcast, fmt.Errorf("root %d: %w", root, ErrBadRank))
	}
	var contrib []float64
	if c.Rank() == root {
		contrib = buf
	}
	parts, err := c.exchange(ctx, OpBroadcast, contrib)
	if err != nil {
		return err
	}
	if len(parts[root]) != len(buf) {
		return c.fail(OpBroadcast, fmt.Errorf("root sent %d values into a buffer of %d: %w",
			len(parts[root]), len(buf), ErrCountMismatch))
	}
	if c.Rank() != root {
		copy(buf, parts[root])
	}
	return nil
}

// Gatherv assembles the distributed vector on root only.
func (c *Comm) Gatherv(ctx context.Context, send, recv []float64, table partition.Table, root int) error {
	if root < 0 || root >= c.Size() {
		return c.fail(OpGather, fmt.Errorf("root %d: %w", root, ErrBadRank))
	}
	if err := c.checkTable(send, table); err != nil {
		return c.fail(OpGather, err)
	}
	if c.Rank() == root && len(recv) != table.Len() {
		return c.fail(OpGather, fmt.Errorf("len(recv)=%d, want %d: %w", len(recv), table.Len(), ErrCountMismatch))
	}
	parts, err := c.exchange(ctx, OpGather, send)
	if err != nil {
		return err
	}
	if c.Rank() != root {
		return nil
	}
	if err = place(parts, recv, table); err != nil {
		return c.fail(OpGather, err)
	}
	return nil
}

// Barrier synchronises all ranks.
func (c *Comm) Barrier(ctx context.Context) error {
	_, err := c.exchange(ctx, OpBarrier, nil)
	return err
}
