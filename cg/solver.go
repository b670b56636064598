// SPDX-License-Identifier: MIT
// Package: sparsecg/cg
//
// solver.go — the CG iteration engine.
//
// Contract:
//   - NewSolver validates the local slice against the row partition and
//     allocates r, d, q and the gather buffer once; Solve reuses them.
//   - x is in/out: read as the initial guess, overwritten with the final iterate.
//   - Any argument error aborts the group before it is returned.
//
// Complexity per iteration:
//   - one gather (O(N) data per rank), one local MatVec (O(local nnz)),
//     two global reductions, O(local n) vector updates.

package cg

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/katalvlaran/sparsecg/comm"
	"github.com/katalvlaran/sparsecg/csr"
	"github.com/katalvlaran/sparsecg/dist"
	"github.com/katalvlaran/sparsecg/partition"
)

const (
	opNewSolver = "NewSolver"
	opSolve     = "Solve"
)

// Solver runs CG for one matrix slice on one rank. It is not safe for
// concurrent use; independent solves need independent Solvers.
type Solver struct {
	a      *csr.Matrix
	c      comm.Communicator
	table  partition.Table
	gather *dist.Gatherer
	opts   Options
	log    *slog.Logger

	r, d, q []float64
}

// NewSolver prepares a solver for the local slice a of this rank.
func NewSolver(a *csr.Matrix, c comm.Communicator, opts ...Option) (*Solver, error) {
	if c == nil {
		return nil, fmt.Errorf("%s: %w", opNewSolver, ErrNilCommunicator)
	}
	fail := func(err error) (*Solver, error) {
		err = fmt.Errorf("%s: %w", opNewSolver, err)
		c.Abort(err)
		return nil, err
	}
	if a == nil {
		return fail(ErrNilMatrix)
	}

	table, err := partition.NewTable(a.GlobalN, c.Size())
	if err != nil {
		return fail(err)
	}
	if want := table[c.Rank()]; a.Range() != want {
		return fail(fmt.Errorf("rank %d holds rows %s, partition assigns %s: %w",
			c.Rank(), a.Range(), want, ErrPartitionMismatch))
	}
	g, err := dist.NewGatherer(c, table)
	if err != nil {
		return fail(err)
	}

	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	n := a.LocalN()
	return &Solver{
		a:      a,
		c:      c,
		table:  table,
		gather: g,
		opts:   o,
		log:    o.Logger.With(slog.Int("rank", c.Rank())),
		r:      make([]float64, n),
		d:      make([]float64, n),
		q:      make([]float64, n),
	}, nil
}

// Table returns the row partition the solver was built for.
func (s *Solver) Table() partition.Table { return s.table }

// Options returns the resolved options.
func (s *Solver) Options() Options { return s.opts }

// Solve runs CG from the initial guess in x and leaves the final iterate in x.
func (s *Solver) Solve(ctx context.Context, b, x []float64) (Result, error) {
	n := s.a.LocalN()
	if len(b) != n || len(x) != n {
		err := fmt.Errorf("%s: len(b)=%d, len(x)=%d, local rows %d: %w",
			opSolve, len(b), len(x), n, ErrLengthMismatch)
		s.c.Abort(err)
		return Result{}, err
	}

	ctx, span := startSolveSpan(ctx, s.c.Rank(), s.c.Size(), s.a.GlobalN, n)
	defer span.End()

	start := time.Now()
	res, err := s.run(ctx, b, x)
	res.Stats.Runtime = time.Since(start)
	if err != nil {
		solveErrors.Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return res, fmt.Errorf("%s: %w", opSolve, err)
	}

	span.SetAttributes(
		attribute.String("cg.status", res.Status.String()),
		attribute.Int("cg.iterations", res.Iterations),
		attribute.Float64("cg.relative_residual", res.RelativeResidual()),
	)
	recordSolve(res)

	level := slog.LevelDebug
	if s.c.Rank() == 0 {
		level = slog.LevelInfo
	}
	s.log.Log(ctx, level, "solve finished",
		slog.String("status", res.Status.String()),
		slog.Int("iterations", res.Iterations),
		slog.Float64("relative_residual", res.RelativeResidual()),
		slog.Duration("elapsed", res.Stats.Runtime),
	)
	return res, nil
}

// run is the state machine. Every branch below reads only State fields set
// from global reductions.
func (s *Solver) run(ctx context.Context, b, x []float64) (Result, error) {
	st := State{Status: StatusInit}
	var res Result

	// Init: r = b - A*gather(x), d = r, delta = delta0 = <r,r>.
	xg, err := s.gather.Gather(ctx, x)
	res.Stats.Collectives++
	if err != nil {
		return res, err
	}
	s.a.MatVec(s.q, xg)
	res.Stats.MatVecs++
	dist.Sub(s.r, b, s.q)
	copy(s.d, s.r)

	st.Delta, err = dist.GlobalDot(ctx, s.c, s.r, s.r)
	res.Stats.Collectives++
	if err != nil {
		return res, err
	}
	st.Delta0 = st.Delta
	if st.Delta0 == 0 {
		st.Status = StatusConverged
		return s.result(st, res), nil
	}
	if !finite(st.Delta0) {
		st.Status = StatusMaxIterReached
		s.log.Warn("initial residual is not finite", slog.Float64("delta0", st.Delta0))
		return s.result(st, res), nil
	}

	st.Status = StatusIterating
	threshold := s.opts.Tolerance * s.opts.Tolerance * st.Delta0
	if s.c.Rank() == 0 {
		s.log.Debug("starting iterations",
			slog.Int("global_n", s.a.GlobalN),
			slog.Float64("delta0", st.Delta0),
			slog.Int("max_iterations", s.opts.MaxIterations),
			slog.Float64("tolerance", s.opts.Tolerance),
		)
	}

	for st.Iter < s.opts.MaxIterations && st.Delta > threshold {
		dg, err := s.gather.Gather(ctx, s.d)
		res.Stats.Collectives++
		if err != nil {
			return s.result(st, res), err
		}
		s.a.MatVec(s.q, dg)
		res.Stats.MatVecs++

		alphaDen, err := dist.GlobalDot(ctx, s.c, s.d, s.q)
		res.Stats.Collectives++
		if err != nil {
			return s.result(st, res), err
		}
		if alphaDen == 0 {
			st.Status = StatusBreakdown
			s.log.Warn("breakdown: search direction is A-orthogonal to itself",
				slog.Int("iteration", st.Iter))
			return s.result(st, res), nil
		}

		st.Alpha = st.Delta / alphaDen
		dist.Axpy(st.Alpha, s.d, x)
		dist.Axpy(-st.Alpha, s.q, s.r)

		deltaNew, err := dist.GlobalDot(ctx, s.c, s.r, s.r)
		res.Stats.Collectives++
		if err != nil {
			return s.result(st, res), err
		}
		st.Beta = deltaNew / st.Delta
		dist.Xpby(s.r, st.Beta, s.d)
		st.Delta = deltaNew
		st.Iter++

		if s.opts.History {
			res.History = append(res.History, math.Sqrt(st.Delta/st.Delta0))
		}
		s.progress(ctx, st)
	}

	if finite(st.Delta) && st.Delta <= threshold {
		st.Status = StatusConverged
	} else {
		st.Status = StatusMaxIterReached
	}
	return s.result(st, res), nil
}

func (s *Solver) progress(ctx context.Context, st State) {
	every := s.opts.ProgressEvery
	if every <= 0 || st.Iter%every != 0 {
		return
	}
	p := Progress{
		Rank:      s.c.Rank(),
		Iteration: st.Iter,
		Delta:     st.Delta,
		Delta0:    st.Delta0,
		Residual:  math.Sqrt(st.Delta / st.Delta0),
	}
	if s.c.Rank() == 0 {
		s.log.InfoContext(ctx, "iteration",
			slog.Int("iteration", p.Iteration),
			slog.Float64("residual", p.Residual))
	}
	if s.opts.Progress != nil {
		s.opts.Progress(p)
	}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func (s *Solver) result(st State, res Result) Result {
	res.Status = st.Status
	res.Iterations = st.Iter
	res.Delta = st.Delta
	res.Delta0 = st.Delta0
	return res
}

// Solve runs one CG solve on this rank's slice: it builds a Solver and calls
// Solve. x is in/out.
func Solve(ctx context.Context, a *csr.Matrix, c comm.Communicator, b, x []float64, opts ...Option) (Result, error) {
	s, err := NewSolver(a, c, opts...)
	if err != nil {
		return Result{}, err
	}
	return s.Solve(ctx, b, x)
}
