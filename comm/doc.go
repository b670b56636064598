// SPDX-License-Identifier: MIT

// Package comm provides the process group that the distributed solver runs on:
// rank/size identity and the blocking collectives AllReduceSum, AllGatherv,
// Broadcast, Gatherv and Barrier.
//
// Every collective is built on one transport primitive, Exchanger.Exchange:
// each rank contributes one slice and receives the contributions of all ranks
// in rank order. Reductions are then evaluated locally in rank order, which
// makes their results bit-identical on every rank. The solver relies on that
// to take the same branch everywhere.
//
// Protocol rules:
//   - every rank calls every collective, in the same order, the same number of times;
//   - a rank that issues a different collective than its peers aborts the group
//     with ErrCollectiveMismatch instead of hanging;
//   - a local failure on any rank must call Abort; all blocked and later
//     collectives on all ranks then fail with ErrAborted.
//
// Transports: Group runs P ranks as goroutines in one process; package
// comm/wsnet connects P processes over websockets.
package comm
