// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chebxuan/2D-HAAR1/qsim/contrib/haar"
)

func newInverseCmd(a *app) *cobra.Command {
	var (
		sideChannel string
		ip          haar.InverseParams
	)
	cmd := &cobra.Command{
		Use:   "inverse",
		Short: "Reconstruct a block from transform outputs",
		Long: "Reconstruct a block from transform outputs, read from a side channel file\n" +
			"written by 'qhaar run --side-channel' or given as flags.\n\n" +
			"Registers b and c start at zero, so the reconstruction is exact only for\n" +
			"blocks with c = d = 0 and min(a, b) = 0.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params := ip
			if sideChannel != "" {
				f, err := os.Open(sideChannel)
				if err != nil {
					return err
				}
				params, err = haar.ReadSideChannel(f)
				f.Close()
				if err != nil {
					return fmt.Errorf("%s: %w", sideChannel, err)
				}
			} else if !cmd.Flags().Changed("data-bits") {
				params.DataBits = a.cfg.DataBits
			}

			rec, err := haar.RunInverse(cmd.Context(), params,
				haar.WithBackend(a.cfg.SimBackend()), haar.WithLogger(a.log))
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Inverse transform (n=%d)\n", params.DataBits)
			fmt.Fprintf(a.out, "a=%d b=%d c=%d d=%d\n", rec.A, rec.B, rec.C, rec.D)
			fmt.Fprintf(a.out, "res1=%d res2=%d\n", rec.Res1, rec.Res2)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&sideChannel, "side-channel", "", "msgpack file written by 'qhaar run'")
	fl.IntVarP(&ip.DataBits, "data-bits", "n", 0, "pixel bit width (overrides QHAAR_DATA_BITS)")
	fl.Uint64Var(&ip.Result1, "res1", 0, "first difference coefficient")
	fl.Uint64Var(&ip.Result2, "res2", 0, "second difference coefficient")
	fl.Uint64Var(&ip.RegA, "reg-a", 0, "global coefficient")
	fl.Uint64Var(&ip.RegD, "reg-d", 0, "global minimum")
	fl.Uint64Var(&ip.CompAB, "comp-ab", 0, "a < b flag")
	fl.Uint64Var(&ip.CompCD, "comp-cd", 0, "c < d flag")
	fl.Uint64Var(&ip.CompMin, "comp-min", 0, "pair minimum comparison flag")
	fl.Uint64Var(&ip.LSBRes1, "lsb-res1", 0, "shift bit of res1")
	fl.Uint64Var(&ip.LSBRes2, "lsb-res2", 0, "shift bit of res2")
	fl.Uint64Var(&ip.LSBRegA, "lsb-reg-a", 0, "shift bit of reg_a")
	fl.Uint64Var(&ip.GuardRes1, "guard-res1", 0, "guard bit of res1")
	fl.Uint64Var(&ip.GuardRes2, "guard-res2", 0, "guard bit of res2")
	fl.Uint64Var(&ip.GuardRegA, "guard-reg-a", 0, "guard bit of reg_a")
	cmd.MarkFlagsMutuallyExclusive("side-channel", "data-bits")
	return cmd
}
