// SPDX-License-Identifier: MIT
// Package: sparsecg/cmd/cgsolve

package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/katalvlaran/sparsecg/comm"
	"github.com/katalvlaran/sparsecg/comm/wsnet"
	"github.com/katalvlaran/sparsecg/config"
	"github.com/katalvlaran/sparsecg/telemetry"
)

// solveFlags mirror the job file; only flags set on the command line
// override it.
type solveFlags struct {
	matrix, rhs, x0, output, plot, report string

	ranks, maxIter, progressEvery int
	tol                           float64

	transport, addr, job string
	rank                 int
	timeout              time.Duration

	metricsAddr string
	trace       bool
}

func (f *solveFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.matrix, "matrix", "m", "", "binary CSR matrix file")
	fs.StringVar(&f.rhs, "rhs", "", "right-hand side vector file (default all ones)")
	fs.StringVar(&f.x0, "x0", "", "initial guess vector file (default all zeros)")
	fs.StringVarP(&f.output, "output", "o", "", "solution vector file")
	fs.StringVar(&f.plot, "plot", "", "convergence plot file (png, svg or pdf)")
	fs.StringVar(&f.report, "report", "", "JSON run summary file")
	fs.IntVarP(&f.ranks, "ranks", "n", 1, "number of ranks")
	fs.IntVar(&f.maxIter, "max-iter", 1000, "iteration budget")
	fs.Float64Var(&f.tol, "tol", 1e-6, "relative residual tolerance")
	fs.IntVar(&f.progressEvery, "progress-every", 10, "log progress every k iterations, 0 disables")
	fs.StringVar(&f.transport, "transport", config.TransportLocal, "local or websocket")
	fs.StringVar(&f.addr, "addr", "", "hub address for the websocket transport")
	fs.IntVar(&f.rank, "rank", 0, "rank of this process (websocket)")
	fs.StringVar(&f.job, "job", "", "job token shared by the group (websocket)")
	fs.DurationVar(&f.timeout, "timeout", 0, "handshake and write timeout (websocket)")
	fs.StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	fs.BoolVar(&f.trace, "trace", false, "export trace spans to stderr")
}

// apply copies every flag that was set explicitly into cfg.
func (f *solveFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	fs := cmd.Flags()
	set := func(name string, fn func()) {
		if fs.Changed(name) {
			fn()
		}
	}
	set("matrix", func() { cfg.Matrix = f.matrix })
	set("rhs", func() { cfg.RHS = f.rhs })
	set("x0", func() { cfg.X0 = f.x0 })
	set("output", func() { cfg.Output = f.output })
	set("plot", func() { cfg.Plot = f.plot })
	set("report", func() { cfg.Report = f.report })
	set("ranks", func() { cfg.Ranks = f.ranks })
	set("max-iter", func() { cfg.Solver.MaxIterations = f.maxIter })
	set("tol", func() { cfg.Solver.Tolerance = f.tol })
	set("progress-every", func() { cfg.Solver.ProgressEvery = f.progressEvery })
	set("transport", func() { cfg.Transport.Kind = f.transport })
	set("addr", func() { cfg.Transport.Addr = f.addr })
	set("rank", func() { cfg.Transport.Rank = f.rank })
	set("job", func() { cfg.Transport.Job = f.job })
	set("timeout", func() { cfg.Transport.Timeout = f.timeout })
	set("metrics-addr", func() { cfg.Metrics.Addr = f.metricsAddr })
	set("trace", func() { cfg.Trace.Stdout = f.trace })
}

func (a *app) solveCmd() *cobra.Command {
	f := &solveFlags{}
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve A x = b with distributed conjugate gradient",
		Long: `Solve runs every rank in this process by default. With --transport websocket
it runs a single rank: rank 0 hosts the group, ranks 1..n-1 join it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f.apply(cmd, &a.cfg)
			return a.runSolve(cmd)
		},
	}
	f.register(cmd)
	return cmd
}

func (a *app) workerCmd() *cobra.Command {
	f := &solveFlags{}
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run one rank of a websocket group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f.apply(cmd, &a.cfg)
			a.cfg.Transport.Kind = config.TransportWebsocket
			return a.runSolve(cmd)
		},
	}
	f.register(cmd)
	return cmd
}

func (a *app) runSolve(cmd *cobra.Command) error {
	cfg := a.cfg
	if err := cfg.Validate(); err != nil {
		return err
	}
	ctx := cmd.Context()
	runID := uuid.NewString()
	log := a.log.With(slog.String("run_id", runID))

	if cfg.Trace.Stdout {
		shutdown, err := telemetry.SetupTracing(cmd.ErrOrStderr(), "cgsolve",
			attribute.String("run_id", runID))
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Warn("trace shutdown", slog.String("error", err.Error()))
			}
		}()
	}
	if cfg.Metrics.Addr != "" {
		m, err := telemetry.ServeMetrics(ctx, cfg.Metrics.Addr, log)
		if err != nil {
			return err
		}
		defer m.Close()
	}

	j := &job{cfg: cfg, runID: runID, log: log}
	var err error
	switch cfg.Transport.Kind {
	case config.TransportWebsocket:
		err = a.runWebsocket(ctx, cmd, j)
	default:
		err = comm.Run(ctx, cfg.Ranks, j.run)
	}
	if err != nil {
		return err
	}
	if j.done {
		s := j.summary
		fmt.Fprintf(cmd.OutOrStdout(), "%s after %d iterations in %s, relative residual %.3e, solution in %s\n",
			s.Status, s.Iterations, s.Runtime, s.RelativeResidual, cfg.Output)
	}
	return nil
}

func (a *app) runWebsocket(ctx context.Context, cmd *cobra.Command, j *job) error {
	t := j.cfg.Transport
	wcfg := wsnet.Config{
		Addr:    t.Addr,
		Size:    j.cfg.Ranks,
		Rank:    t.Rank,
		Job:     t.Job,
		Timeout: t.Timeout,
		Logger:  j.log,
	}
	if t.Rank == 0 {
		hub, err := wsnet.Serve(wcfg)
		if err != nil {
			return err
		}
		defer hub.Close()
		fmt.Fprintf(cmd.OutOrStdout(), "hosting job %s on %s\n", hub.Job(), hub.Addr())
		return j.run(ctx, hub.Comm())
	}
	client, err := wsnet.Dial(ctx, wcfg)
	if err != nil {
		return err
	}
	defer client.Close()
	return j.run(ctx, client.Comm())
}
