// SPDX-License-Identifier: MIT
// Package: sparsecg/cmd/cgsolve

package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/sparsecg/config"
	"github.com/katalvlaran/sparsecg/telemetry"
)

// app holds the state shared by every subcommand of one invocation.
type app struct {
	cfgPath   string
	logLevel  string
	logFormat string

	cfg config.Config
	log *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "cgsolve",
		Short: "Distributed conjugate gradient for sparse SPD systems",
		Long: `cgsolve partitions the rows of a CSR matrix over a group of ranks and
solves A x = b with unpreconditioned conjugate gradient.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgPath, "config", "c", "", "YAML job file")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&a.logFormat, "log-format", "", "log format: text or json")

	root.AddCommand(
		a.solveCmd(),
		a.workerCmd(),
		a.generateCmd(),
		a.partitionCmd(),
		a.configCmd(),
	)
	return root
}

// setup loads the job file, applies the logging flags and builds the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg := config.Default()
	if a.cfgPath != "" {
		loaded, err := config.Load(a.cfgPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	log, err := telemetry.NewLogger(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log
	return nil
}
