// SPDX-License-Identifier: MIT
// Package: sparsecg/cg
//
// options.go — functional options. Constructors panic on meaningless values;
// the solver itself never panics on user input.

package cg

import (
	"fmt"
	"log/slog"
	"math"
)

// Defaults.
const (
	DefaultMaxIterations = 1000
	DefaultTolerance     = 1e-6
	DefaultProgressEvery = 10
)

// Options configures a Solver.
type Options struct {
	MaxIterations int          // iteration budget, >= 0
	Tolerance     float64      // relative residual target, >= 0
	ProgressEvery int          // report progress every k iterations; 0 disables
	Progress      ProgressFunc // optional observer
	Logger        *slog.Logger
	History       bool // record the relative residual per iteration
}

// Option customises Options.
type Option func(*Options)

// DefaultOptions returns max 1000 iterations, tolerance 1e-6 and progress
// logging every 10 iterations.
func DefaultOptions() Options {
	return Options{
		MaxIterations: DefaultMaxIterations,
		Tolerance:     DefaultTolerance,
		ProgressEvery: DefaultProgressEvery,
		Logger:        slog.Default(),
	}
}

// WithMaxIterations sets the iteration budget. Panics if n < 0.
func WithMaxIterations(n int) Option {
	if n < 0 {
		panic(fmt.Sprintf("cg: WithMaxIterations(%d): must be >= 0", n))
	}
	return func(o *Options) {
		o.MaxIterations = n
	}
}

// WithTolerance sets the relative residual target. Panics on negative or
// non-finite values.
func WithTolerance(tol float64) Option {
	if tol < 0 || math.IsNaN(tol) || math.IsInf(tol, 0) {
		panic(fmt.Sprintf("cg: WithTolerance(%g): must be finite and >= 0", tol))
	}
	return func(o *Options) {
		o.Tolerance = tol
	}
}

// WithProgress calls fn every `every` iterations. Panics if every <= 0 or fn is nil.
func WithProgress(every int, fn ProgressFunc) Option {
	if every <= 0 {
		panic(fmt.Sprintf("cg: WithProgress(%d): interval must be > 0", every))
	}
	if fn == nil {
		panic("cg: WithProgress(nil)")
	}
	return func(o *Options) {
		o.ProgressEvery = every
		o.Progress = fn
	}
}

// WithProgressEvery sets the logging interval without a callback; 0 disables
// progress logging. Panics if every < 0.
func WithProgressEvery(every int) Option {
	if every < 0 {
		panic(fmt.Sprintf("cg: WithProgressEvery(%d): must be >= 0", every))
	}
	return func(o *Options) {
		o.ProgressEvery = every
	}
}

// WithLogger sets the logger. Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("cg: WithLogger(nil)")
	}
	return func(o *Options) {
		o.Logger = l
	}
}

// WithHistory records the relative residual after every iteration.
func WithHistory() Option {
	return func(o *Options) {
		o.History = true
	}
}
