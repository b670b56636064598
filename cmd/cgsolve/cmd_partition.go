// SPDX-License-Identifier: MIT
// Package: sparsecg/cmd/cgsolve

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/sparsecg/csr"
	"github.com/katalvlaran/sparsecg/partition"
)

func (a *app) partitionCmd() *cobra.Command {
	var (
		n      int
		ranks  int
		matrix string
	)
	cmd := &cobra.Command{
		Use:   "partition",
		Short: "Print the row block owned by every rank",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("ranks") {
				ranks = a.cfg.Ranks
			}
			if matrix == "" && !cmd.Flags().Changed("rows") {
				matrix = a.cfg.Matrix
			}
			if matrix != "" {
				h, err := readHeader(matrix)
				if err != nil {
					return err
				}
				n = h.N
			}
			table, err := partition.NewTable(n, ranks)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RANK\tSTART\tCOUNT\tROWS")
			for r, rg := range table {
				fmt.Fprintf(tw, "%d\t%d\t%d\t%s\n", r, rg.Start, rg.Count, rg)
			}
			return tw.Flush()
		},
	}
	fs := cmd.Flags()
	fs.IntVar(&n, "rows", 0, "number of rows")
	fs.IntVarP(&ranks, "ranks", "n", 1, "number of ranks")
	fs.StringVarP(&matrix, "matrix", "m", "", "read the row count from a CSR file")
	return cmd
}

func readHeader(path string) (csr.Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return csr.Header{}, err
	}
	defer f.Close()
	return csr.ReadHeader(f)
}
