// SPDX-License-Identifier: MIT
// Package: sparsecg/telemetry

package telemetry

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ErrBadLogConfig indicates an unknown log level or format.
var ErrBadLogConfig = errors.New("telemetry: invalid log configuration")

// ParseLevel maps debug, info, warn and error (any case) to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("level %q: %w", s, ErrBadLogConfig)
	}
	return l, nil
}

// NewLogger builds a text or JSON logger writing to w at the given level.
func NewLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	l, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: l}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("format %q: %w", format, ErrBadLogConfig)
	}
}
