// SPDX-License-Identifier: MIT

// Package telemetry wires the ambient observability of a solve: structured
// logging with log/slog, OpenTelemetry tracing to a stdout exporter and the
// Prometheus /metrics endpoint that exposes the solver and collective metrics.
package telemetry
