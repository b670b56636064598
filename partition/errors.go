// SPDX-License-Identifier: MIT
// Package: sparsecg/partition
//
// errors.go — sentinel errors for the partition package.
// Callers branch with errors.Is; context is attached with %w at the call site.

package partition

import "errors"

var (
	// ErrNegativeSize is returned when the global row count is negative.
	ErrNegativeSize = errors.New("partition: negative row count")

	// ErrNoProcesses is returned when the process count is not positive.
	ErrNoProcesses = errors.New("partition: process count must be > 0")

	// ErrRankOutOfRange is returned when rank is outside [0, P).
	ErrRankOutOfRange = errors.New("partition: rank out of range")

	// ErrRowOutOfRange is returned by Owner for rows outside [0, N).
	ErrRowOutOfRange = errors.New("partition: row out of range")

	// ErrInconsistentTable signals a table whose ranges overlap, leave gaps
	// or do not cover [0, N) exactly.
	ErrInconsistentTable = errors.New("partition: inconsistent table")
)
