// SPDX-License-Identifier: MIT
// Package: sparsecg/dist

package dist

import "errors"

var (
	// ErrLengthMismatch indicates local vectors of different lengths, or a
	// local slice that disagrees with the rank's Range.
	ErrLengthMismatch = errors.New("dist: vector length mismatch")

	// ErrTableMismatch indicates a Table sized for a different group.
	ErrTableMismatch = errors.New("dist: partition table does not match communicator")
)
