// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Command qhaar simulates the reversible morphological Haar transform.
//
// Usage:
//
//	qhaar run -n 4 --a 7 --b 2 --c 5 --d 1 --side-channel out.msgpack
//	qhaar inverse --side-channel out.msgpack
//	qhaar verify -n 3
//	qhaar image lena.bmp -n 3 --max-blocks 0 --upsample
//	qhaar edges cameraman.bmp -n 4
//
// Defaults come from the environment and an optional .env file; flags
// override them.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/chebxuan/2D-HAAR1/internal/config"
	"github.com/chebxuan/2D-HAAR1/internal/logger"
	"github.com/chebxuan/2D-HAAR1/internal/platform"
)

// version is set at link time with -ldflags "-X main.version=...".
var version = "dev"

// app is the state shared by all subcommands, filled in by the root
// command's pre-run hook.
type app struct {
	cfg *config.Config
	log zerolog.Logger
	out io.Writer

	envFile  string
	logLevel string
	backend  string
	workers  int
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, log: zerolog.Nop()}
	root := &cobra.Command{
		Use:           "qhaar",
		Short:         "Reversible morphological Haar transform simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd, errOut)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.envFile, "env-file", "", "load settings from this .env file (default: .env if present)")
	pf.StringVar(&a.logLevel, "log-level", "", "trace, debug, info, warn or error (overrides LOG_LEVEL)")
	pf.StringVar(&a.backend, "backend", "", "simulation backend: auto, dense or sparse (overrides QSIM_BACKEND)")
	pf.IntVar(&a.workers, "workers", 0, "worker goroutines, 0 for GOMAXPROCS (overrides QHAAR_WORKERS)")

	root.AddCommand(
		newRunCmd(a),
		newInverseCmd(a),
		newVerifyCmd(a),
		newImageCmd(a),
		newEdgesCmd(a),
		newVersionCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, errOut io.Writer) error {
	var files []string
	if a.envFile != "" {
		files = append(files, a.envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("backend") {
		cfg.Backend = a.backend
	}
	if flags.Changed("workers") {
		cfg.Workers = a.workers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	a.log = logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Output: errOut})
	logger.SetGlobalLogger(a.log)

	info := platform.Detect()
	a.log.Debug().
		Str("arch", info.GOARCH).
		Int("cpus", info.NumCPU).
		Strs("features", info.Features).
		Uint64("available_memory", info.AvailableMemory).
		Str("backend", cfg.Backend).
		Msg("Platform detected")
	return nil
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
