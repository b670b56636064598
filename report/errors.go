// SPDX-License-Identifier: MIT
// Package: sparsecg/report

package report

import "errors"

var (
	// ErrEmptyHistory indicates a history with no positive residual to plot.
	ErrEmptyHistory = errors.New("report: no positive residuals to plot")

	// ErrNoPath indicates an empty output path.
	ErrNoPath = errors.New("report: empty output path")
)
