// SPDX-License-Identifier: MIT

// Package partition maps global rows of an N×N system onto P cooperating ranks.
//
// The policy is a fixed contiguous block split:
//
//	block = ceil(N/P)
//	start = min(rank*block, N)
//	count = max(0, min(block, N-start))
//
// Every caller (matrix loader, vector loader, solver gather step) must use the
// same function so that ownership agrees byte-for-byte across the group. The
// split is deliberately not load balanced by nonzeros.
//
// Trailing ranks may own an empty range when N is small relative to P; such
// ranks still take part in every collective with zero-length slices.
//
//	N=10, P=4  →  block=3
//	rank 0: [0,3)  rank 1: [3,6)  rank 2: [6,9)  rank 3: [9,10)
package partition
