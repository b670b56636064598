// SPDX-License-Identifier: MIT

package wsnet_test

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/sparsecg/builder"
	"github.com/katalvlaran/sparsecg/cg"
	"github.com/katalvlaran/sparsecg/comm"
	"github.com/katalvlaran/sparsecg/comm/wsnet"
	"github.com/katalvlaran/sparsecg/partition"
)

// loopback starts a hub on an ephemeral port and dials size-1 clients.
func loopback(t *testing.T, size int) []comm.Communicator {
	t.Helper()
	hub, err := wsnet.Serve(wsnet.Config{Addr: "127.0.0.1:0", Size: size, Timeout: 5 * time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { _ = hub.Close() })

	comms := make([]comm.Communicator, size)
	comms[0] = hub.Comm()
	for r := 1; r < size; r++ {
		cl, err := wsnet.Dial(context.Background(), wsnet.Config{
			Addr: hub.Addr(), Size: size, Rank: r, Job: hub.Job(), Timeout: 5 * time.Second,
		})
		require.NoError(t, err)
		t.Cleanup(func() { _ = cl.Close() })
		comms[r] = cl.Comm()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, hub.Wait(ctx))
	return comms
}

// runAll executes fn on every communicator concurrently and returns per-rank errors.
func runAll(comms []comm.Communicator, fn func(ctx context.Context, c comm.Communicator) error) []error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	errs := make([]error, len(comms))
	var wg sync.WaitGroup
	for i, c := range comms {
		i, c := i, c
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = fn(ctx, c)
		}()
	}
	wg.Wait()
	return errs
}

func TestLoopbackCollectives(t *testing.T) {
	const n, size = 10, 3
	comms := loopback(t, size)
	table, err := partition.NewTable(n, size)
	require.NoError(t, err)

	sums := make([]float64, size)
	gathered := make([][]float64, size)
	errs := runAll(comms, func(ctx context.Context, c comm.Communicator) error {
		s, err := c.AllReduceSum(ctx, 0.1*float64(c.Rank()+1))
		if err != nil {
			return err
		}
		sums[c.Rank()] = s

		rg := table[c.Rank()]
		send := make([]float64, rg.Count)
		for i := range send {
			send[i] = float64(rg.Start+i) / 3
		}
		recv := make([]float64, n)
		if err = c.AllGatherv(ctx, send, recv, table); err != nil {
			return err
		}
		gathered[c.Rank()] = recv

		buf := make([]float64, 2)
		if c.Rank() == 1 {
			buf[0], buf[1] = 7, 8
		}
		if err = c.Broadcast(ctx, buf, 1); err != nil {
			return err
		}
		if buf[0] != 7 || buf[1] != 8 {
			return errors.New("broadcast not delivered")
		}
		return c.Barrier(ctx)
	})
	for r, err := range errs {
		require.NoError(t, err, "rank %d", r)
	}

	want := 0.1 + 0.2 + 0.30000000000000004
	for r := 0; r < size; r++ {
		require.Equal(t, sums[0], sums[r])
		for i := 0; i < n; i++ {
			require.Equal(t, float64(i)/3, gathered[r][i])
		}
	}
	require.InDelta(t, want, sums[0], 1e-15)
}

func TestLoopbackAbortPropagates(t *testing.T) {
	comms := loopback(t, 3)
	boom := errors.New("rank 2 failed to load")
	errs := runAll(comms, func(ctx context.Context, c comm.Communicator) error {
		if c.Rank() == 2 {
			c.Abort(boom)
			return boom
		}
		_, err := c.AllReduceSum(ctx, 1)
		return err
	})
	require.ErrorIs(t, errs[0], comm.ErrAborted)
	require.ErrorIs(t, errs[1], comm.ErrAborted)
	require.ErrorIs(t, errs[2], boom)
}

func TestLoopbackMismatch(t *testing.T) {
	comms := loopback(t, 2)
	errs := runAll(comms, func(ctx context.Context, c comm.Communicator) error {
		if c.Rank() == 1 {
			return c.Barrier(ctx)
		}
		_, err := c.AllReduceSum(ctx, 1)
		return err
	})
	require.ErrorIs(t, errs[0], comm.ErrCollectiveMismatch)
	require.Error(t, errs[1])
}

func TestDialRejectsWrongJob(t *testing.T) {
	hub, err := wsnet.Serve(wsnet.Config{Addr: "127.0.0.1:0", Size: 2, Timeout: 2 * time.Second})
	require.NoError(t, err)
	defer hub.Close()

	_, err = wsnet.Dial(context.Background(), wsnet.Config{
		Addr: hub.Addr(), Size: 2, Rank: 1, Job: "not-the-job", Timeout: 2 * time.Second,
	})
	require.ErrorIs(t, err, wsnet.ErrHandshake)
}

func TestDialRejectsDuplicateRank(t *testing.T) {
	hub, err := wsnet.Serve(wsnet.Config{Addr: "127.0.0.1:0", Size: 3, Timeout: 2 * time.Second})
	require.NoError(t, err)
	defer hub.Close()

	cfg := wsnet.Config{Addr: hub.Addr(), Size: 3, Rank: 1, Job: hub.Job(), Timeout: 2 * time.Second}
	first, err := wsnet.Dial(context.Background(), cfg)
	require.NoError(t, err)
	defer first.Close()

	_, err = wsnet.Dial(context.Background(), cfg)
	require.ErrorIs(t, err, wsnet.ErrHandshake)
}

func TestConfigErrors(t *testing.T) {
	_, err := wsnet.Serve(wsnet.Config{Addr: "127.0.0.1:0"})
	require.ErrorIs(t, err, wsnet.ErrConfig)

	_, err = wsnet.Dial(context.Background(), wsnet.Config{Addr: "127.0.0.1:1", Size: 2, Rank: 0})
	require.ErrorIs(t, err, wsnet.ErrConfig)
}

func TestSingleRankHub(t *testing.T) {
	hub, err := wsnet.Serve(wsnet.Config{Addr: "127.0.0.1:0", Size: 1})
	require.NoError(t, err)
	defer hub.Close()
	s, err := hub.Comm().AllReduceSum(context.Background(), 4.5)
	require.NoError(t, err)
	require.Equal(t, 4.5, s)
}

// TestLoopbackSolveMatchesLocal solves the same system over websockets and
// in-process; rank-order reductions make both runs bit-identical.
func TestLoopbackSolveMatchesLocal(t *testing.T) {
	const size = 3
	a, err := builder.Poisson2D(5, 4)
	require.NoError(t, err)
	n := a.GlobalN
	table, err := partition.NewTable(n, size)
	require.NoError(t, err)
	b := make([]float64, n)
	for i := range b {
		b[i] = float64(i%4) + 1
	}

	solve := func(ctx context.Context, c comm.Communicator, x []float64) (cg.Result, error) {
		rg := table[c.Rank()]
		local, err := a.Slice(rg)
		if err != nil {
			return cg.Result{}, err
		}
		return cg.Solve(ctx, local, c, b[rg.Start:rg.End()], x[rg.Start:rg.End()], cg.WithTolerance(1e-10))
	}

	xLocal := make([]float64, n)
	var mu sync.Mutex
	var localRes cg.Result
	require.NoError(t, comm.Run(context.Background(), size, func(ctx context.Context, c comm.Communicator) error {
		res, err := solve(ctx, c, xLocal)
		mu.Lock()
		localRes = res
		mu.Unlock()
		return err
	}))

	xNet := make([]float64, n)
	results := make([]cg.Result, size)
	errs := runAll(loopback(t, size), func(ctx context.Context, c comm.Communicator) error {
		var err error
		results[c.Rank()], err = solve(ctx, c, xNet)
		return err
	})
	for r, err := range errs {
		require.NoError(t, err, "rank %d", r)
		require.Equal(t, localRes.Iterations, results[r].Iterations)
		require.Equal(t, localRes.Delta, results[r].Delta)
	}
	require.Equal(t, cg.StatusConverged, results[0].Status)
	require.Equal(t, xLocal, xNet)
}

func TestVectorJSONKeepsEveryBitPattern(t *testing.T) {
	in := wsnet.Vector{math.NaN(), math.Inf(1), math.Inf(-1), math.Copysign(0, -1), 0.1, math.SmallestNonzeroFloat64}
	data, err := json.Marshal(wsnet.Frame{Kind: "contribute", Data: in, Parts: []wsnet.Vector{in, nil}})
	require.NoError(t, err)

	var out wsnet.Frame
	require.NoError(t, json.Unmarshal(data, &out))
	require.Len(t, out.Data, len(in))
	for i := range in {
		require.Equal(t, math.Float64bits(in[i]), math.Float64bits(out.Data[i]), "data[%d]", i)
		require.Equal(t, math.Float64bits(in[i]), math.Float64bits(out.Parts[0][i]), "parts[0][%d]", i)
	}
	require.Empty(t, out.Parts[1])

	var v wsnet.Vector
	require.Error(t, json.Unmarshal([]byte(`[1.5]`), &v))
}

func TestLoopbackNonFiniteCollectives(t *testing.T) {
	const n, size = 6, 3
	comms := loopback(t, size)
	table, err := partition.NewTable(n, size)
	require.NoError(t, err)
	contrib := []float64{1, math.Inf(1), 2}
	special := []float64{math.NaN(), math.Inf(1), math.Inf(-1), math.Copysign(0, -1), 4, 5}

	sums := make([]float64, size)
	nans := make([]float64, size)
	gathered := make([][]float64, size)
	errs := runAll(comms, func(ctx context.Context, c comm.Communicator) error {
		s, err := c.AllReduceSum(ctx, contrib[c.Rank()])
		if err != nil {
			return err
		}
		sums[c.Rank()] = s

		v := 1.0
		if c.Rank() == 2 {
			v = math.NaN()
		}
		if nans[c.Rank()], err = c.AllReduceSum(ctx, v); err != nil {
			return err
		}

		rg := table[c.Rank()]
		recv := make([]float64, n)
		if err = c.AllGatherv(ctx, special[rg.Start:rg.End()], recv, table); err != nil {
			return err
		}
		gathered[c.Rank()] = recv
		return nil
	})
	for r, err := range errs {
		require.NoError(t, err, "rank %d", r)
		require.True(t, math.IsInf(sums[r], 1), "rank %d sum %g", r, sums[r])
		require.True(t, math.IsNaN(nans[r]), "rank %d", r)
		for i := range special {
			require.Equal(t, math.Float64bits(special[i]), math.Float64bits(gathered[r][i]), "rank %d i=%d", r, i)
		}
	}
}

// TestLoopbackNonFiniteSolveMatchesLocal: an infinite right-hand side gives
// the same outcome on both transports.
func TestLoopbackNonFiniteSolveMatchesLocal(t *testing.T) {
	const size = 2
	a, err := builder.Laplacian1D(6)
	require.NoError(t, err)
	table, err := partition.NewTable(6, size)
	require.NoError(t, err)
	b := []float64{1, 1, math.Inf(1), 1, 1, 1}

	solve := func(ctx context.Context, c comm.Communicator, x []float64) (cg.Result, error) {
		rg := table[c.Rank()]
		local, err := a.Slice(rg)
		if err != nil {
			return cg.Result{}, err
		}
		return cg.Solve(ctx, local, c, b[rg.Start:rg.End()], x[rg.Start:rg.End()])
	}

	local := make([]cg.Result, size)
	require.NoError(t, comm.Run(context.Background(), size, func(ctx context.Context, c comm.Communicator) error {
		var err error
		local[c.Rank()], err = solve(ctx, c, make([]float64, 6))
		return err
	}))

	net := make([]cg.Result, size)
	errs := runAll(loopback(t, size), func(ctx context.Context, c comm.Communicator) error {
		var err error
		net[c.Rank()], err = solve(ctx, c, make([]float64, 6))
		return err
	})
	for r, err := range errs {
		require.NoError(t, err, "rank %d", r)
		require.Equal(t, cg.StatusMaxIterReached, net[r].Status)
		require.Equal(t, local[r].Status, net[r].Status)
		require.Equal(t, local[r].Iterations, net[r].Iterations)
		require.True(t, math.IsInf(net[r].Delta0, 1))
	}
}
