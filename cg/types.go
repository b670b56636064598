// SPDX-License-Identifier: MIT
// Package: sparsecg/cg
//
// types.go — solver status, iteration state and results.

package cg

import (
	"fmt"
	"math"
	"time"
)

// Status is the state of the CG state machine.
type Status int

const (
	// StatusInit: residual and first direction are being set up.
	StatusInit Status = iota
	// StatusIterating: the recurrence is running.
	StatusIterating
	// StatusConverged: delta <= tol²*delta0.
	StatusConverged
	// StatusBreakdown: <d, A*d> == 0; the search direction is A-orthogonal to itself.
	StatusBreakdown
	// StatusMaxIterReached: the iteration budget ran out before convergence.
	StatusMaxIterReached
)

var statusNames = [...]string{
	StatusInit:           "init",
	StatusIterating:      "iterating",
	StatusConverged:      "converged",
	StatusBreakdown:      "breakdown",
	StatusMaxIterReached: "max_iter_reached",
}

// String returns the snake_case name used in logs, metrics and reports.
func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("status(%d)", int(s))
	}
	return statusNames[s]
}

// MarshalText renders the status name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Terminal reports whether s ends a solve.
func (s Status) Terminal() bool {
	return s == StatusConverged || s == StatusBreakdown || s == StatusMaxIterReached
}

// State is the iteration state threaded through every step. All fields are
// results of global reductions, hence identical on every rank.
type State struct {
	Delta  float64 // <r,r> at the current iterate
	Delta0 float64 // <r,r> at the initial guess
	Alpha  float64 // last step length
	Beta   float64 // last direction update factor
	Iter   int     // completed iterations
	Status Status
}

// Stats counts the work done by one solve on one rank.
type Stats struct {
	MatVecs     int           // local sparse matrix-vector products
	Collectives int           // gathers and global reductions
	Runtime     time.Duration // wall time of Solve
}

// Result is the outcome of one solve. Every rank returns the same Status,
// Iterations, Delta and Delta0.
type Result struct {
	Status     Status    `json:"status"`
	Iterations int       `json:"iterations"`
	Delta      float64   `json:"delta"`
	Delta0     float64   `json:"delta0"`
	History    []float64 `json:"history,omitempty"` // relative residual after each iteration
	Stats      Stats     `json:"stats"`
}

// RelativeResidual returns sqrt(delta/delta0), or 0 when delta0 == 0.
func (r Result) RelativeResidual() float64 {
	if r.Delta0 == 0 {
		return 0
	}
	return math.Sqrt(r.Delta / r.Delta0)
}

// Converged reports whether the solve reached the tolerance.
func (r Result) Converged() bool { return r.Status == StatusConverged }

// Progress is reported to a ProgressFunc every few iterations.
type Progress struct {
	Rank      int
	Iteration int
	Delta     float64
	Delta0    float64
	Residual  float64 // sqrt(Delta/Delta0)
}

// ProgressFunc observes the iteration. It runs on every rank, inside the
// solve loop, and must not call collectives.
type ProgressFunc func(p Progress)
