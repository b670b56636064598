// SPDX-License-Identifier: MIT

package comm_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/katalvlaran/sparsecg/comm"
	"github.com/katalvlaran/sparsecg/partition"
	"github.com/stretchr/testify/require"
)

// TestAllReduceSumIdentical checks that every rank sees the same total.
func TestAllReduceSumIdentical(t *testing.T) {
	for _, p := range []int{1, 2, 3, 5, 8} {
		sums := make([]float64, p)
		err := comm.Run(context.Background(), p, func(ctx context.Context, c comm.Communicator) error {
			s, err := c.AllReduceSum(ctx, 0.1*float64(c.Rank()+1))
			sums[c.Rank()] = s
			return err
		})
		require.NoError(t, err)
		for r := 1; r < p; r++ {
			require.Equal(t, sums[0], sums[r], "p=%d rank=%d", p, r)
		}
		want := 0.0
		for r := 0; r < p; r++ {
			want += 0.1 * float64(r+1)
		}
		require.Equal(t, want, sums[0])
	}
}

// TestAllGathervAssembles gathers rank-owned slices into the global vector.
func TestAllGathervAssembles(t *testing.T) {
	const n = 11
	for _, p := range []int{1, 2, 4, 7, 13} {
		table, err := partition.NewTable(n, p)
		require.NoError(t, err)
		got := make([][]float64, p)
		err = comm.Run(context.Background(), p, func(ctx context.Context, c comm.Communicator) error {
			rg := table[c.Rank()]
			send := make([]float64, rg.Count)
			for i := range send {
				send[i] = float64(rg.Start + i)
			}
			recv := make([]float64, n)
			if err := c.AllGatherv(ctx, send, recv, table); err != nil {
				return err
			}
			got[c.Rank()] = recv
			return nil
		})
		require.NoError(t, err)
		for r := 0; r < p; r++ {
			for i := 0; i < n; i++ {
				require.Equal(t, float64(i), got[r][i], "p=%d rank=%d i=%d", p, r, i)
			}
		}
	}
}

// TestBroadcastAndGatherv round-trips a vector through root.
func TestBroadcastAndGatherv(t *testing.T) {
	const n, p, root = 9, 4, 2
	table, err := partition.NewTable(n, p)
	require.NoError(t, err)
	var gathered []float64
	err = comm.Run(context.Background(), p, func(ctx context.Context, c comm.Communicator) error {
		buf := make([]float64, n)
		if c.Rank() == root {
			for i := range buf {
				buf[i] = float64(i * i)
			}
		}
		if err := c.Broadcast(ctx, buf, root); err != nil {
			return err
		}
		rg := table[c.Rank()]
		var recv []float64
		if c.Rank() == root {
			recv = make([]float64, n)
		}
		if err := c.Gatherv(ctx, buf[rg.Start:rg.End()], recv, table, root); err != nil {
			return err
		}
		if c.Rank() == root {
			gathered = recv
		}
		return c.Barrier(ctx)
	})
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		require.Equal(t, float64(i*i), gathered[i])
	}
}

// TestCollectiveMismatchAborts makes one rank issue a different collective.
func TestCollectiveMismatchAborts(t *testing.T) {
	err := comm.Run(context.Background(), 3, func(ctx context.Context, c comm.Communicator) error {
		if c.Rank() == 1 {
			return c.Barrier(ctx)
		}
		_, err := c.AllReduceSum(ctx, 1)
		return err
	})
	require.Error(t, err)
	require.ErrorIs(t, err, comm.ErrCollectiveMismatch)
}

// TestAbortUnblocksPeers fails one rank while the others wait in a collective.
func TestAbortUnblocksPeers(t *testing.T) {
	boom := errors.New("cannot read input")
	done := make(chan error, 1)
	go func() {
		done <- comm.Run(context.Background(), 4, func(ctx context.Context, c comm.Communicator) error {
			if c.Rank() == 3 {
				return boom
			}
			_, err := c.AllReduceSum(ctx, 1)
			return err
		})
	}()
	select {
	case err := <-done:
		require.ErrorIs(t, err, boom)
	case <-time.After(5 * time.Second):
		t.Fatal("group did not terminate after one rank failed")
	}
}

// TestAbortedGroupRejectsLaterCollectives checks the sticky abort state.
func TestAbortedGroupRejectsLaterCollectives(t *testing.T) {
	g, err := comm.NewGroup(2)
	require.NoError(t, err)
	require.NotEmpty(t, g.ID())
	require.NoError(t, g.Err())

	cause := errors.New("stop")
	g.Comm(0).Abort(cause)
	g.Comm(1).Abort(errors.New("second cause is ignored"))

	_, err = g.Comm(1).AllReduceSum(context.Background(), 1)
	require.ErrorIs(t, err, comm.ErrAborted)
	require.ErrorIs(t, err, cause)
	require.ErrorIs(t, g.Err(), cause)
}

// TestContextCancelAborts cancels while one rank waits for a peer that never comes.
func TestContextCancelAborts(t *testing.T) {
	g, err := comm.NewGroup(2)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err = g.Comm(0).Barrier(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.ErrorIs(t, g.Err(), comm.ErrAborted)
}

// TestLocalCountMismatchAborts passes a send buffer that disagrees with the table.
func TestLocalCountMismatchAborts(t *testing.T) {
	table, err := partition.NewTable(6, 2)
	require.NoError(t, err)
	err = comm.Run(context.Background(), 2, func(ctx context.Context, c comm.Communicator) error {
		send := make([]float64, table[c.Rank()].Count)
		if c.Rank() == 0 {
			send = send[:1]
		}
		return c.AllGatherv(ctx, send, make([]float64, 6), table)
	})
	require.ErrorIs(t, err, comm.ErrCountMismatch)
}

// TestSenderMayReuseBuffer mutates the send buffer right after the collective.
func TestSenderMayReuseBuffer(t *testing.T) {
	table, err := partition.NewTable(4, 2)
	require.NoError(t, err)
	var mu sync.Mutex
	seen := map[int][]float64{}
	err = comm.Run(context.Background(), 2, func(ctx context.Context, c comm.Communicator) error {
		send := []float64{float64(c.Rank()), float64(c.Rank())}
		recv := make([]float64, 4)
		if err := c.AllGatherv(ctx, send, recv, table); err != nil {
			return err
		}
		send[0], send[1] = -1, -1
		mu.Lock()
		seen[c.Rank()] = recv
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)
	for r := 0; r < 2; r++ {
		require.Equal(t, []float64{0, 0, 1, 1}, seen[r])
	}
}

func TestBadRoot(t *testing.T) {
	err := comm.Run(context.Background(), 2, func(ctx context.Context, c comm.Communicator) error {
		return c.Broadcast(ctx, make([]float64, 1), 5)
	})
	require.ErrorIs(t, err, comm.ErrBadRank)
}

func TestNewGroupErrors(t *testing.T) {
	_, err := comm.NewGroup(0)
	require.ErrorIs(t, err, comm.ErrBadSize)
	require.ErrorIs(t, comm.Run(context.Background(), -1, nil), comm.ErrBadSize)

	g, err := comm.NewGroup(2)
	require.NoError(t, err)
	require.Panics(t, func() { g.Comm(2) })
}

func TestOpString(t *testing.T) {
	require.Equal(t, "allreduce_sum", comm.OpAllReduceSum.String())
	require.Equal(t, "barrier", comm.OpBarrier.String())
	require.Equal(t, "op(99)", comm.Op(99).String())
}
