// SPDX-License-Identifier: MIT

// Package dist holds the vector operations of the distributed solver: local
// and global inner products, the gather step that reconstructs a full vector
// from rank-owned slices, and the local BLAS-1 updates the CG loop needs.
//
// A distributed vector is never materialised as a type: each rank holds the
// contiguous slice its partition.Range owns, and the Table says where every
// slice sits. Only Gather produces a full-length copy.
package dist
