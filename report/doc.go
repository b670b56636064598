// SPDX-License-Identifier: MIT

// Package report turns a finished solve into artifacts: a JSON summary of
// the run and a convergence plot of the relative residual per iteration.
package report
