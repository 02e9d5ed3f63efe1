// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/chebxuan/2D-HAAR1/qsim/contrib/circuit"
	"github.com/chebxuan/2D-HAAR1/qsim/contrib/haar"
	"github.com/chebxuan/2D-HAAR1/qsim/contrib/readout"
)

type runFlags struct {
	dataBits    int
	a, b, c, d  int
	shots       int
	seed        uint64
	sideChannel string
}

func newRunCmd(a *app) *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the forward transform on one 2x2 block",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := a.cfg.Params()
			shots, seed := a.cfg.Shots, a.cfg.Seed
			flags := cmd.Flags()
			if flags.Changed("data-bits") {
				p.DataBits = f.dataBits
			}
			if flags.Changed("a") {
				p.A = f.a
			}
			if flags.Changed("b") {
				p.B = f.b
			}
			if flags.Changed("c") {
				p.C = f.c
			}
			if flags.Changed("d") {
				p.D = f.d
			}
			if flags.Changed("shots") {
				shots = f.shots
			}
			if flags.Changed("seed") {
				seed = f.seed
			}
			return a.run(cmd, p, shots, seed, f.sideChannel)
		},
	}
	fl := cmd.Flags()
	fl.IntVarP(&f.dataBits, "data-bits", "n", 0, "pixel bit width (overrides QHAAR_DATA_BITS)")
	fl.IntVar(&f.a, "a", 0, "top-left pixel")
	fl.IntVar(&f.b, "b", 0, "top-right pixel")
	fl.IntVar(&f.c, "c", 0, "bottom-left pixel")
	fl.IntVar(&f.d, "d", 0, "bottom-right pixel")
	fl.IntVar(&f.shots, "shots", 0, "sample this many shots instead of reading the exact state")
	fl.Uint64Var(&f.seed, "seed", 0, "sampler seed")
	fl.StringVar(&f.sideChannel, "side-channel", "", "write the inverse parameters to this msgpack file")
	return cmd
}

func (a *app) run(cmd *cobra.Command, p haar.Params, shots int, seed uint64, sideChannel string) error {
	pl, err := haar.Forward(p, haar.WithBackend(a.cfg.SimBackend()), haar.WithLogger(a.log))
	if err != nil {
		return err
	}
	a.log.Info().
		Str("params", p.String()).
		Int("qubits", pl.Layout().NumQubits()).
		Interface("gates", circuit.CountGates(pl.Circuit())).
		Msg("Running forward transform")

	s, err := pl.Simulate(cmd.Context())
	if err != nil {
		return err
	}
	var res *haar.Result
	if shots > 0 {
		counts := readout.NewSampler(seed).Sample(pl.Histogram(s), shots)
		bits, ok := readout.MostFrequent(counts)
		if !ok {
			return errors.New("no shots recorded")
		}
		a.log.Info().Int("shots", shots).Int("outcomes", len(counts)).Str("top", bits).Msg("Sampled measurement")
		res, err = pl.Parse(bits)
	} else {
		res, err = pl.Readout(s)
	}
	if err != nil {
		return err
	}

	out := res.Outputs()
	printOutputs(a.out, p, out)

	if sideChannel != "" {
		if err := writeSideChannelFile(sideChannel, out.InverseParams()); err != nil {
			return err
		}
		a.log.Info().Str("path", sideChannel).Msg("Wrote side channel")
	}
	return nil
}

func printOutputs(w io.Writer, p haar.Params, o haar.Outputs) {
	ref := haar.Reference(p)
	fmt.Fprintf(w, "Forward transform (%s)\n", p)
	fmt.Fprintf(w, "Measurement: %s\n\n", o.Bitstring)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "output\tsimulated\tclassical")
	fmt.Fprintf(tw, "res1\t%d\t%d\n", o.Res1, ref.Res1)
	fmt.Fprintf(tw, "res2\t%d\t%d\n", o.Res2, ref.Res2)
	fmt.Fprintf(tw, "reg_a\t%d\t%d\n", o.RegA, ref.RegA)
	fmt.Fprintf(tw, "reg_d\t%d\t%d\n", o.RegD, ref.RegD)
	tw.Flush()
	fmt.Fprintf(w, "\ncomp_ab=%d comp_cd=%d comp_min=%d\n", o.CompAB, o.CompCD, o.CompMin)
	fmt.Fprintf(w, "shift res1=%d res2=%d a=%d\n", o.LSBRes1, o.LSBRes2, o.LSBRegA)
	fmt.Fprintf(w, "guard res1=%d res2=%d a=%d\n", o.GuardRes1, o.GuardRes2, o.GuardRegA)
}

func writeSideChannelFile(path string, ip haar.InverseParams) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := haar.WriteSideChannel(f, ip); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
