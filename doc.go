// SPDX-License-Identifier: MIT

// Package sparsecg is a distributed conjugate gradient solver for sparse
// symmetric positive definite systems A x = b.
//
// The rows of A are split into contiguous blocks, one per rank of a process
// group. Every rank holds its rows in CSR form, multiplies them against the
// gathered global iterate and takes part in the global reductions that drive
// the iteration. All ranks see identical scalars and therefore take identical
// branches.
//
// Packages:
//
//	partition/  — block row partition of N rows over P ranks
//	csr/        — CSR matrix, local matvec kernel, binary file format
//	comm/       — collectives over a process group; in-process Group
//	comm/wsnet/ — websocket star transport for multi-process groups
//	dist/       — dot products, global sums and the vector gather
//	cg/         — the CG iteration engine
//	vecio/      — text vector files, root read + broadcast, gather + write
//	builder/    — SPD test system generators
//	config/     — YAML job files
//	telemetry/  — slog, OpenTelemetry and Prometheus wiring
//	report/     — JSON run summaries and convergence plots
//
// The cgsolve command under cmd/ ties them together.
package sparsecg
