// SPDX-License-Identifier: MIT

package config_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/sparsecg/config"
)

func TestParseOverDefaults(t *testing.T) {
	cfg, err := config.Parse([]byte(`
matrix: a.csr
output: x.txt
ranks: 4
solver:
  tolerance: 1.0e-9
transport:
  kind: websocket
  addr: 10.0.0.1:9000
  rank: 2
  job: abc
  timeout: 5s
log:
  format: json
`))
	require.NoError(t, err)
	require.Equal(t, "a.csr", cfg.Matrix)
	require.Equal(t, 4, cfg.Ranks)
	require.Equal(t, 1e-9, cfg.Solver.Tolerance)
	require.Equal(t, 1000, cfg.Solver.MaxIterations, "unset keys keep defaults")
	require.Equal(t, 10, cfg.Solver.ProgressEvery)
	require.Equal(t, config.TransportWebsocket, cfg.Transport.Kind)
	require.Equal(t, 5*time.Second, cfg.Transport.Timeout)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "json", cfg.Log.Format)
	require.NoError(t, cfg.Validate())
}

func TestParseEmptyAndUnknown(t *testing.T) {
	cfg, err := config.Parse(nil)
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)

	_, err = config.Parse([]byte("matrix: a\ntolerence: 1\n"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := config.Default()
	base.Matrix, base.Output = "a.csr", "x.txt"
	require.NoError(t, base.Validate())

	cases := map[string]func(c *config.Config){
		"no matrix":       func(c *config.Config) { c.Matrix = "" },
		"no output":       func(c *config.Config) { c.Output = "" },
		"zero ranks":      func(c *config.Config) { c.Ranks = 0 },
		"negative iters":  func(c *config.Config) { c.Solver.MaxIterations = -1 },
		"negative tol":    func(c *config.Config) { c.Solver.Tolerance = -1 },
		"bad transport":   func(c *config.Config) { c.Transport.Kind = "mpi" },
		"bad log format":  func(c *config.Config) { c.Log.Format = "xml" },
		"rank past group": func(c *config.Config) { c.Transport.Kind = config.TransportWebsocket; c.Transport.Rank = 1 },
		"worker no job": func(c *config.Config) {
			c.Transport.Kind = config.TransportWebsocket
			c.Ranks = 2
			c.Transport.Rank = 1
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := base
			mutate(&c)
			require.ErrorIs(t, c.Validate(), config.ErrInvalid)
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.yaml")
	want := config.Default()
	want.Matrix, want.Output, want.Plot = "m.csr", "x.txt", "conv.png"
	want.Metrics.Addr = ":9090"
	want.Trace.Stdout = true
	require.NoError(t, want.Save(path))

	got, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, want, got)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
