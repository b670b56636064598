// SPDX-License-Identifier: MIT

// Package cg implements the preconditioner-free Conjugate Gradient method for
// symmetric positive definite systems Ax = b whose rows are partitioned over
// the ranks of a comm.Communicator.
//
// Each rank holds its csr.Matrix slice and the matching slices of b and x.
// One iteration performs, in this order on every rank:
//
//	gather d → q = A_local*d → alpha_den = <d,q> → x += alpha*d, r -= alpha*q
//	→ delta_new = <r,r> → d = r + beta*d
//
// Lockstep: every branch that decides whether another collective follows
// (continue, converge, breakdown) is taken on values returned by a global
// reduction, which are bit-identical on all ranks. No rank ever decides on a
// purely local quantity, so all ranks call the same collectives in the same
// order and finish with the same Status and iteration count.
//
// Outcomes:
//   - StatusConverged:      delta <= tol²*delta0 (also when delta0 == 0).
//   - StatusBreakdown:      <d, A*d> == 0 exactly; x is the best iterate so far.
//   - StatusMaxIterReached: the iteration budget ran out; x is the current iterate.
//
// Breakdown and MaxIterReached are outcomes, not errors. Errors are reserved
// for invalid arguments and communication failures; in both cases the group
// is aborted so no peer is left blocked.
//
// Example:
//
//	res, err := cg.Solve(ctx, aLocal, c, bLocal, xLocal,
//	    cg.WithTolerance(1e-8),
//	    cg.WithMaxIterations(500),
//	)
package cg
