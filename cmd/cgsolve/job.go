// SPDX-License-Identifier: MIT
// Package: sparsecg/cmd/cgsolve

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/katalvlaran/sparsecg/cg"
	"github.com/katalvlaran/sparsecg/comm"
	"github.com/katalvlaran/sparsecg/config"
	"github.com/katalvlaran/sparsecg/csr"
	"github.com/katalvlaran/sparsecg/partition"
	"github.com/katalvlaran/sparsecg/report"
	"github.com/katalvlaran/sparsecg/vecio"
)

// job is the per-rank pipeline of one solve: load the local rows and
// vectors, iterate, gather the solution and write artifacts on rank 0.
type job struct {
	cfg   config.Config
	runID string
	log   *slog.Logger

	// written by rank 0 only
	done    bool
	summary report.Summary
}

func (j *job) run(ctx context.Context, c comm.Communicator) error {
	log := j.log.With(slog.Int("rank", c.Rank()))

	a, err := csr.LoadPartition(j.cfg.Matrix, c.Size(), c.Rank())
	if err != nil {
		c.Abort(err)
		return err
	}
	table, err := partition.NewTable(a.GlobalN, c.Size())
	if err != nil {
		c.Abort(err)
		return err
	}
	log.Debug("partition loaded",
		slog.Int("n", a.GlobalN), slog.Int("rows", a.LocalN()), slog.Int("nnz", a.NNZ()))

	b, err := vecio.LoadDistributed(ctx, c, j.cfg.RHS, table, 1)
	if err != nil {
		return err
	}
	x, err := vecio.LoadDistributed(ctx, c, j.cfg.X0, table, 0)
	if err != nil {
		return err
	}

	opts := []cg.Option{
		cg.WithMaxIterations(j.cfg.Solver.MaxIterations),
		cg.WithTolerance(j.cfg.Solver.Tolerance),
		cg.WithProgressEvery(j.cfg.Solver.ProgressEvery),
		cg.WithLogger(j.log),
	}
	if j.cfg.Plot != "" || j.cfg.Report != "" {
		opts = append(opts, cg.WithHistory())
	}
	res, err := cg.Solve(ctx, a, c, b, x, opts...)
	if err != nil {
		return err
	}
	if err = vecio.StoreDistributed(ctx, c, j.cfg.Output, table, x); err != nil {
		return err
	}
	if c.Rank() != 0 {
		return nil
	}
	return j.finish(log, res, table)
}

// finish writes the optional plot and report. No collectives follow the
// solution store, so a failure here cannot strand other ranks.
func (j *job) finish(log *slog.Logger, res cg.Result, table partition.Table) error {
	size := table.Size()
	j.summary = report.Summary{
		RunID:         j.runID,
		Matrix:        j.cfg.Matrix,
		N:             table.Len(),
		Ranks:         size,
		Transport:     j.cfg.Transport.Kind,
		Tolerance:     j.cfg.Solver.Tolerance,
		MaxIterations: j.cfg.Solver.MaxIterations,
		Finished:      time.Now().UTC(),
	}
	j.summary.FromResult(res)
	j.done = true

	if j.cfg.Plot != "" {
		title := fmt.Sprintf("CG on %s (%d ranks)", j.cfg.Matrix, size)
		err := report.PlotHistory(res.History, title, j.cfg.Plot)
		switch {
		case errors.Is(err, report.ErrEmptyHistory):
			log.Warn("nothing to plot", slog.Int("iterations", res.Iterations))
		case err != nil:
			return err
		}
	}
	if j.cfg.Report != "" {
		if err := j.summary.WriteFile(j.cfg.Report); err != nil {
			return err
		}
	}
	return nil
}
