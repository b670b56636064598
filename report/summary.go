// SPDX-License-Identifier: MIT
// Package: sparsecg/report

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/katalvlaran/sparsecg/cg"
)

// Summary describes one run for the JSON report written by rank 0.
type Summary struct {
	RunID            string    `json:"run_id"`
	Matrix           string    `json:"matrix"`
	N                int       `json:"n"`
	Ranks            int       `json:"ranks"`
	Transport        string    `json:"transport"`
	Tolerance        float64   `json:"tolerance"`
	MaxIterations    int       `json:"max_iterations"`
	Status           string    `json:"status"`
	Iterations       int       `json:"iterations"`
	RelativeResidual float64   `json:"relative_residual"`
	MatVecs          int       `json:"matvecs"`
	Collectives      int       `json:"collectives"`
	Runtime          string    `json:"runtime"`
	History          []float64 `json:"history,omitempty"`
	Finished         time.Time `json:"finished"`
}

// FromResult fills the outcome fields of s from res.
func (s *Summary) FromResult(res cg.Result) {
	s.Status = res.Status.String()
	s.Iterations = res.Iterations
	s.RelativeResidual = res.RelativeResidual()
	s.MatVecs = res.Stats.MatVecs
	s.Collectives = res.Stats.Collectives
	s.Runtime = res.Stats.Runtime.String()
	s.History = res.History
}

// Encode writes s as indented JSON.
func (s *Summary) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("report: encode: %w", err)
	}
	return nil
}

// WriteFile writes s as JSON to path.
func (s *Summary) WriteFile(path string) (err error) {
	if path == "" {
		return ErrNoPath
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("report: %w", cerr)
		}
	}()
	return s.Encode(f)
}
