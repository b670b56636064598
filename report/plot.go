// SPDX-License-Identifier: MIT
// Package: sparsecg/report

package report

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Plot dimensions.
const (
	PlotWidth  = 6 * vg.Inch
	PlotHeight = 4 * vg.Inch
)

// HistoryPoints converts a residual history into plot points, iteration on
// X. Non-positive and non-finite residuals cannot sit on a log axis and are
// skipped.
func HistoryPoints(history []float64) plotter.XYs {
	pts := make(plotter.XYs, 0, len(history))
	for i, v := range history {
		if !(v > 0) || math.IsInf(v, 1) {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(i + 1), Y: v})
	}
	return pts
}

// PlotHistory renders the relative residual per iteration on a log Y axis
// and saves it to path. The image format follows the file extension
// (png, svg, pdf, eps, jpg, tiff).
func PlotHistory(history []float64, title, path string) error {
	if path == "" {
		return ErrNoPath
	}
	pts := HistoryPoints(history)
	if len(pts) == 0 {
		return ErrEmptyHistory
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "||r|| / ||r0||"
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("report: line: %w", err)
	}
	p.Add(line)

	if err = p.Save(PlotWidth, PlotHeight, path); err != nil {
		return fmt.Errorf("report: save %q: %w", path, err)
	}
	return nil
}
