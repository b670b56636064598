// SPDX-License-Identifier: MIT
// Package: sparsecg/cmd/cgsolve

package main

import (
	"github.com/spf13/cobra"

	"github.com/katalvlaran/sparsecg/config"
)

func (a *app) configCmd() *cobra.Command {
	var defaults bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective job configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg
			if defaults {
				cfg = config.Default()
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().BoolVar(&defaults, "default", false, "print the built-in defaults")
	return cmd
}
