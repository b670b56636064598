// SPDX-License-Identifier: MIT
// Package: sparsecg/cg

package cg

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("sparsecg.cg")

var (
	solvesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sparsecg_solves_total",
		Help: "Completed solves by outcome",
	}, []string{"status"})

	solveErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sparsecg_solve_errors_total",
		Help: "Solves that failed with an error",
	})

	solveIterations = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sparsecg_solve_iterations",
		Help:    "Iterations per completed solve",
		Buckets: prometheus.ExponentialBuckets(1, 2, 14), // 1 to 8192
	})

	solveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sparsecg_solve_duration_seconds",
		Help:    "Wall time per completed solve",
		Buckets: prometheus.DefBuckets,
	})
)

func startSolveSpan(ctx context.Context, rank, size, globalN, localN int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "cg.Solve",
		trace.WithAttributes(
			attribute.Int("cg.rank", rank),
			attribute.Int("cg.size", size),
			attribute.Int("cg.global_n", globalN),
			attribute.Int("cg.local_n", localN),
		),
	)
}

func recordSolve(res Result) {
	solvesTotal.WithLabelValues(res.Status.String()).Inc()
	solveIterations.Observe(float64(res.Iterations))
	solveDuration.Observe(res.Stats.Runtime.Seconds())
}
