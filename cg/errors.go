// SPDX-License-Identifier: MIT
// Package: sparsecg/cg
//
// errors.go — sentinel errors for the CG engine.

package cg

import "errors"

var (
	// ErrNilMatrix indicates a nil *csr.Matrix.
	ErrNilMatrix = errors.New("cg: matrix is nil")

	// ErrNilCommunicator indicates a nil comm.Communicator.
	ErrNilCommunicator = errors.New("cg: communicator is nil")

	// ErrPartitionMismatch indicates a local matrix slice whose rows differ
	// from the rank's block in the row partition.
	ErrPartitionMismatch = errors.New("cg: matrix rows do not match partition")

	// ErrLengthMismatch indicates b or x slices whose length differs from the
	// number of local rows.
	ErrLengthMismatch = errors.New("cg: vector length does not match local rows")
)
