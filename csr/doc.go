// SPDX-License-Identifier: MIT

// Package csr stores row-partitioned sparse matrices in Compressed Sparse Row
// form and provides the local sparse matrix-vector kernel.
//
// A Matrix covers the global rows [RowStart, RowStart+LocalN) of a logical
// GlobalN×GlobalN operator:
//
//	Ptr  — length LocalN+1, 0-based offsets into this slice's Cols/Vals
//	Cols — global column indices in [0, GlobalN)
//	Vals — nonzero values
//
// The same type holds a whole matrix (RowStart 0, LocalN == GlobalN) or one
// rank's slice of it. Slice and ReadPartition produce rank slices consistent
// with package partition.
//
// The kernel trusts its input: validation lives in Validate and in the file
// readers, never in MatVec.
//
// File layout (little-endian):
//
//	int32 n, int32 nnz, int32 ptr[n+1], int32 cols[nnz], float64 vals[nnz]
package csr
