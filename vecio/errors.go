// SPDX-License-Identifier: MIT
// Package: sparsecg/vecio

package vecio

import "errors"

var (
	// ErrShortVector indicates fewer values than the system dimension.
	ErrShortVector = errors.New("vecio: not enough values")

	// ErrParse indicates a token that is not a floating-point number.
	ErrParse = errors.New("vecio: malformed value")

	// ErrNaNInf indicates a NaN or infinite value.
	ErrNaNInf = errors.New("vecio: NaN or Inf value")
)
