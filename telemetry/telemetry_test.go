// SPDX-License-Identifier: MIT

package telemetry_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/katalvlaran/sparsecg/telemetry"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := telemetry.NewLogger(&buf, "warn", "json")
	require.NoError(t, err)
	log.Info("hidden")
	log.Warn("shown", slog.Int("rank", 2))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "shown", rec["msg"])
	require.Equal(t, float64(2), rec["rank"])

	buf.Reset()
	log, err = telemetry.NewLogger(&buf, "DEBUG", "text")
	require.NoError(t, err)
	log.Debug("visible")
	require.Contains(t, buf.String(), "msg=visible")

	_, err = telemetry.NewLogger(io.Discard, "loud", "text")
	require.ErrorIs(t, err, telemetry.ErrBadLogConfig)
	_, err = telemetry.NewLogger(io.Discard, "info", "xml")
	require.ErrorIs(t, err, telemetry.ErrBadLogConfig)
}

func TestSetupTracingExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := telemetry.SetupTracing(&buf, "sparsecg-test")
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "unit-span")
	span.End()
	require.NoError(t, shutdown(context.Background()))
	require.Contains(t, buf.String(), "unit-span")
	require.Contains(t, buf.String(), "sparsecg-test")
}

func TestServeMetrics(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m, err := telemetry.ServeMetrics(ctx, "127.0.0.1:0", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer m.Close()

	resp, err := http.Get("http://" + m.Addr() + telemetry.MetricsPath)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "go_goroutines")
}
