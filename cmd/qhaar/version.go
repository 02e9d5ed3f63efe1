// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chebxuan/2D-HAAR1/internal/platform"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and platform information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			info := platform.Detect()
			fmt.Fprintf(a.out, "qhaar %s (%s, %s)\n", version, runtime.Version(), info.GOARCH)
			fmt.Fprintf(a.out, "CPUs: %d\n", info.NumCPU)
			if len(info.Features) > 0 {
				fmt.Fprintf(a.out, "CPU features: %s\n", strings.Join(info.Features, " "))
			}
			if info.AvailableMemory > 0 {
				fmt.Fprintf(a.out, "Available memory: %d MiB\n", info.AvailableMemory>>20)
			}
		},
	}
}
