// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chebxuan/2D-HAAR1/internal/experiment"
)

func newImageCmd(a *app) *cobra.Command {
	var (
		dataBits, maxBlocks, shots int
		seed                       uint64
		upsample                   bool
		outputDir                  string
	)
	cmd := &cobra.Command{
		Use:   "image <file.bmp>",
		Short: "Transform the 2x2 blocks of a BMP image and write energy maps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := experiment.Config{
				ImagePath: args[0],
				DataBits:  a.cfg.DataBits,
				MaxBlocks: a.cfg.MaxBlocks,
				Seed:      a.cfg.Seed,
				Shots:     a.cfg.Shots,
				Upsample:  a.cfg.Upsample,
				Workers:   a.cfg.Workers,
				Backend:   a.cfg.SimBackend(),
				OutputDir: outputDir,
			}
			flags := cmd.Flags()
			if flags.Changed("data-bits") {
				cfg.DataBits = dataBits
			}
			if flags.Changed("max-blocks") {
				cfg.MaxBlocks = maxBlocks
			}
			if flags.Changed("shots") {
				cfg.Shots = shots
			}
			if flags.Changed("seed") {
				cfg.Seed = seed
			}
			if flags.Changed("upsample") {
				cfg.Upsample = upsample
			}

			s, err := experiment.Run(cmd.Context(), cfg, a.log)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Processed %d of %d blocks (%dx%d image, n=%d)\n",
				s.SampledBlocks, s.TotalBlocks, s.Width, s.Height, s.BitDepth)
			fmt.Fprintf(a.out, "Energy avg %.3f p90 %.3f (classical avg %.3f p90 %.3f)\n",
				s.AvgQuantumEnergy, s.P90QuantumEnergy, s.AvgClassicalEnergy, s.P90ClassicalEnergy)
			if s.Mismatches > 0 {
				fmt.Fprintf(a.out, "Mismatched blocks: %d\n", s.Mismatches)
			}
			fmt.Fprintf(a.out, "Summary: %s\n", s.SummaryPath)
			if s.QuantumMapPath != "" {
				fmt.Fprintf(a.out, "Maps: %s %s\n", s.QuantumMapPath, s.ClassicalMapPath)
			}
			return nil
		},
	}
	fl := cmd.Flags()
	fl.IntVarP(&dataBits, "data-bits", "n", 0, "quantization bit depth (overrides QHAAR_DATA_BITS)")
	fl.IntVar(&maxBlocks, "max-blocks", 0, "sample at most this many blocks, 0 for all (overrides QHAAR_MAX_BLOCKS)")
	fl.IntVar(&shots, "shots", 0, "shots per block, 0 for exact readout")
	fl.Uint64Var(&seed, "seed", 0, "seed for block sampling and shots")
	fl.BoolVar(&upsample, "upsample", false, "write energy maps at full image resolution")
	fl.StringVarP(&outputDir, "output-dir", "o", "", "output directory (default: next to the image)")
	return cmd
}
