// SPDX-License-Identifier: MIT

// Package wsnet is a multi-process comm.Exchanger over websockets.
//
// Topology is a star: rank 0 runs a Hub (Serve) and every other rank connects
// with Dial. A connection starts with a hello frame carrying the rank, the
// group size and the job token; the hub answers with welcome or rejects the
// peer. Per collective each client sends one contribute frame; the hub
// collects the contributions of all ranks and answers everyone with a result
// frame holding all of them in rank order. Frames are JSON; float payloads
// travel as IEEE-754 bit patterns, so every value, NaN and Inf included,
// arrives unchanged and reductions stay bit-identical across processes.
//
// An abort on any rank is relayed through the hub to all ranks. A lost
// connection aborts the group; a normal close after the last collective does not.
package wsnet
