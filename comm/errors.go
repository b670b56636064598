// SPDX-License-Identifier: MIT
// Package: sparsecg/comm
//
// errors.go — sentinel errors for process groups and collectives.

package comm

import "errors"

var (
	// ErrAborted is returned by every collective once the group was aborted.
	// The abort cause is joined to it and can be matched with errors.Is too.
	ErrAborted = errors.New("comm: group aborted")

	// ErrCollectiveMismatch indicates that ranks issued different collectives
	// in the same round: the group lost lockstep.
	ErrCollectiveMismatch = errors.New("comm: collective mismatch")

	// ErrBadSize indicates a non-positive group size.
	ErrBadSize = errors.New("comm: group size must be > 0")

	// ErrBadRank indicates a rank (or root) outside [0, size).
	ErrBadRank = errors.New("comm: rank out of range")

	// ErrCountMismatch indicates buffers that disagree with the partition table.
	ErrCountMismatch = errors.New("comm: buffer length does not match partition table")
)
