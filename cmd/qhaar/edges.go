// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chebxuan/2D-HAAR1/internal/experiment"
)

func newEdgesCmd(a *app) *cobra.Command {
	var (
		dataBits  int
		outputDir string
	)
	cmd := &cobra.Command{
		Use:   "edges <file.bmp>",
		Short: "Write the classical max-plus edge map of a BMP image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := experiment.EdgeConfig{ImagePath: args[0], DataBits: a.cfg.DataBits, OutputDir: outputDir}
			if cmd.Flags().Changed("data-bits") {
				cfg.DataBits = dataBits
			}
			s, err := experiment.EdgeMap(cmd.Context(), cfg, a.log)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "width: %d\nheight: %d\nbit_depth: %d\nblocks: %d\n", s.Width, s.Height, s.BitDepth, s.Blocks)
			fmt.Fprintf(a.out, "avg_energy: %.3f\np90_energy: %d\n", s.AvgEnergy, s.P90Energy)
			fmt.Fprintf(a.out, "edge_map_path: %s\n", s.EdgeMapPath)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.IntVarP(&dataBits, "data-bits", "n", 0, "quantization bit depth (overrides QHAAR_DATA_BITS)")
	fl.StringVarP(&outputDir, "output-dir", "o", "", "output directory (default: next to the image)")
	return cmd
}
