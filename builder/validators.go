// SPDX-License-Identifier: MIT
// Package: sparsecg/builder

package builder

import "fmt"

// validateMin ensures got >= min, wrapping ErrTooSmall with the method tag.
func validateMin(method, name string, got, min int) error {
	if got < min {
		return fmt.Errorf("%s: %s=%d < min=%d: %w", method, name, got, min, ErrTooSmall)
	}
	return nil
}

// validateRNG ensures a stochastic generator was seeded.
func validateRNG(method string, cfg builderConfig) error {
	if cfg.rng == nil {
		return fmt.Errorf("%s: %w", method, ErrNeedRandSource)
	}
	return nil
}
