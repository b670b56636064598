// SPDX-License-Identifier: MIT

// Package builder generates symmetric positive definite test systems in CSR
// form for the solver, its tests and the generate command.
//
// The package offers:
//
//   - Deterministic stencils:
//     – Diagonal(vals...):  diag(vals), SPD iff every value is > 0.
//     – Laplacian1D(n):     tridiag(-1, 2, -1), the 1D Poisson operator.
//     – Poisson2D(nx, ny):  the 5-point Laplacian on an nx×ny grid.
//   - Stochastic matrices:
//     – RandomSPD(n, perRow): symmetric random sparsity made strictly
//     diagonally dominant with a positive diagonal, hence SPD.
//   - Right-hand sides:
//     – RHS(a, x):          b = A*x for a manufactured solution x.
//     – RandomVector(n):    entries drawn from the configured ValueFn.
//
// Configuration is functional (Option). Option constructors panic on
// meaningless values; generators return sentinel errors and never panic.
// For a fixed seed and equal arguments every generator is deterministic.
package builder
