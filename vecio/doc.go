// SPDX-License-Identifier: MIT

// Package vecio reads and writes dense vectors as text, one value per line,
// and moves them between a single I/O rank and the distributed layout.
//
// Only rank 0 touches the file system. LoadDistributed reads on rank 0 and
// broadcasts; StoreDistributed gathers to rank 0 and writes. A rank 0 failure
// aborts the group so peers never wait on a broadcast that will not come.
package vecio
