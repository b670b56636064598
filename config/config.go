// SPDX-License-Identifier: MIT

// Package config loads the YAML job description of a solve.
//
// A job file names the inputs and outputs and tunes the solver, the process
// group transport and the ambient logging, metrics and tracing. Missing keys
// keep their defaults; unknown keys are rejected. Command-line flags are
// applied on top of a loaded Config by the cgsolve command.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Transport kinds.
const (
	TransportLocal     = "local"
	TransportWebsocket = "websocket"
)

// ErrInvalid indicates a configuration that fails validation.
var ErrInvalid = errors.New("config: invalid")

// Config is the full job description.
type Config struct {
	Matrix string `yaml:"matrix"`           // binary CSR file, required for solve
	RHS    string `yaml:"rhs,omitempty"`    // text vector; empty means all ones
	X0     string `yaml:"x0,omitempty"`     // text vector; empty means all zeros
	Output string `yaml:"output"`           // solution file written by rank 0
	Plot   string `yaml:"plot,omitempty"`   // optional convergence plot (png/svg/pdf)
	Report string `yaml:"report,omitempty"` // optional JSON summary of the result
	Ranks  int    `yaml:"ranks"`            // group size

	Solver    SolverConfig    `yaml:"solver"`
	Transport TransportConfig `yaml:"transport"`
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Trace     TraceConfig     `yaml:"trace"`
}

// SolverConfig tunes the CG engine.
type SolverConfig struct {
	MaxIterations int     `yaml:"max_iterations"`
	Tolerance     float64 `yaml:"tolerance"`
	ProgressEvery int     `yaml:"progress_every"`
}

// TransportConfig selects how ranks talk to each other.
type TransportConfig struct {
	Kind    string        `yaml:"kind"`          // local | websocket
	Addr    string        `yaml:"addr"`          // hub address (websocket)
	Rank    int           `yaml:"rank"`          // this process's rank (websocket)
	Job     string        `yaml:"job,omitempty"` // shared job token (websocket)
	Timeout time.Duration `yaml:"timeout"`       // handshake and write deadline
}

// LogConfig configures log/slog output.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr,omitempty"` // empty disables the endpoint
}

// TraceConfig configures OpenTelemetry tracing.
type TraceConfig struct {
	Stdout bool `yaml:"stdout"` // export spans as JSON to stderr
}

// Default returns the defaults: one local rank, 1000 iterations, tolerance
// 1e-6, progress every 10 iterations, info-level text logs.
func Default() Config {
	return Config{
		Ranks: 1,
		Solver: SolverConfig{
			MaxIterations: 1000,
			Tolerance:     1e-6,
			ProgressEvery: 10,
		},
		Transport: TransportConfig{
			Kind:    TransportLocal,
			Addr:    "127.0.0.1:7420",
			Timeout: 30 * time.Second,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path over Default. Unknown keys are an error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML over Default.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	return cfg, nil
}

// Marshal renders cfg as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Save writes cfg as YAML to path.
func (c Config) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err = os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Validate checks everything a solve needs.
func (c Config) Validate() error {
	var errs []error
	if c.Matrix == "" {
		errs = append(errs, errors.New("matrix is required"))
	}
	if c.Output == "" {
		errs = append(errs, errors.New("output is required"))
	}
	if c.Ranks < 1 {
		errs = append(errs, fmt.Errorf("ranks=%d must be >= 1", c.Ranks))
	}
	if c.Solver.MaxIterations < 0 {
		errs = append(errs, fmt.Errorf("solver.max_iterations=%d must be >= 0", c.Solver.MaxIterations))
	}
	if !(c.Solver.Tolerance >= 0) {
		errs = append(errs, fmt.Errorf("solver.tolerance=%g must be >= 0", c.Solver.Tolerance))
	}
	if c.Solver.ProgressEvery < 0 {
		errs = append(errs, fmt.Errorf("solver.progress_every=%d must be >= 0", c.Solver.ProgressEvery))
	}
	switch c.Transport.Kind {
	case TransportLocal:
	case TransportWebsocket:
		if c.Transport.Addr == "" {
			errs = append(errs, errors.New("transport.addr is required for websocket"))
		}
		if c.Transport.Rank < 0 || c.Transport.Rank >= c.Ranks {
			errs = append(errs, fmt.Errorf("transport.rank=%d outside [0,%d)", c.Transport.Rank, c.Ranks))
		}
		if c.Transport.Rank > 0 && c.Transport.Job == "" {
			errs = append(errs, errors.New("transport.job is required to join a group"))
		}
	default:
		errs = append(errs, fmt.Errorf("transport.kind=%q must be %q or %q",
			c.Transport.Kind, TransportLocal, TransportWebsocket))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format=%q must be text or json", c.Log.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}
