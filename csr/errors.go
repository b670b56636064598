// SPDX-License-Identifier: MIT
// Package: sparsecg/csr
//
// errors.go — sentinel errors for CSR construction, validation and I/O.
// Messages are prefixed with "csr:"; wrap with fmt.Errorf("%s: %w", tag, err).

package csr

import "errors"

var (
	// ErrNilMatrix indicates that a nil *Matrix was used.
	ErrNilMatrix = errors.New("csr: nil matrix")

	// ErrBadPtr indicates a row pointer array that does not start at zero,
	// decreases, or does not end at len(Cols).
	ErrBadPtr = errors.New("csr: malformed row pointer")

	// ErrColumnOutOfRange indicates a column index outside [0, GlobalN).
	ErrColumnOutOfRange = errors.New("csr: column index out of range")

	// ErrDimensionMismatch indicates inconsistent array lengths or row ranges.
	ErrDimensionMismatch = errors.New("csr: dimension mismatch")

	// ErrNaNInf indicates a non-finite stored value.
	ErrNaNInf = errors.New("csr: NaN or Inf value")

	// ErrBadHeader indicates a file header with n <= 0 or nnz <= 0, or one
	// that does not match the file length.
	ErrBadHeader = errors.New("csr: invalid header")

	// ErrTooLarge indicates a dimension that does not fit the int32 file format.
	ErrTooLarge = errors.New("csr: dimension exceeds int32 file format")
)
