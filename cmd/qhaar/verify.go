// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/chebxuan/2D-HAAR1/qsim/contrib/verify"
)

func newVerifyCmd(a *app) *cobra.Command {
	var dataBits int
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check the transform against the classical reference for every input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rep, err := verify.Exhaustive(cmd.Context(), dataBits, verify.Options{
				Workers: a.cfg.Workers,
				Backend: a.cfg.SimBackend(),
				Logger:  &a.log,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "OK: %d cases at n=%d in %s\n", rep.Cases, rep.DataBits, rep.Elapsed.Round(time.Millisecond))
			return nil
		},
	}
	cmd.Flags().IntVarP(&dataBits, "data-bits", "n", 2, "pixel bit width; runs 2^(4n) cases")
	return cmd
}
