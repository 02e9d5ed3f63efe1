// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package platform reports the host facts the simulator sizes itself by:
// CPU count and vector features, and memory available for dense states.
package platform

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/mem"
	"golang.org/x/sys/cpu"
)

// Info describes the host.
type Info struct {
	GOARCH   string
	NumCPU   int
	Features []string

	// AvailableMemory is 0 when the OS did not report it.
	AvailableMemory uint64
}

// Detect collects host information. It never fails; missing memory
// information is reported as zero.
func Detect() Info {
	info := Info{
		GOARCH:   runtime.GOARCH,
		NumCPU:   runtime.NumCPU(),
		Features: cpuFeatures(),
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info.AvailableMemory = vm.Available
	}
	return info
}

// CanAllocate reports whether n bytes fit in available memory while leaving
// a quarter of it free. Unknown memory is treated as sufficient.
func (i Info) CanAllocate(n uint64) bool {
	if i.AvailableMemory == 0 {
		return true
	}
	return n <= i.AvailableMemory-i.AvailableMemory/4
}

func cpuFeatures() []string {
	var out []string
	add := func(ok bool, name string) {
		if ok {
			out = append(out, name)
		}
	}
	switch runtime.GOARCH {
	case "amd64", "386":
		add(cpu.X86.HasSSE2, "sse2")
		add(cpu.X86.HasAVX, "avx")
		add(cpu.X86.HasAVX2, "avx2")
		add(cpu.X86.HasFMA, "fma")
		add(cpu.X86.HasAVX512F, "avx512f")
	case "arm64":
		add(cpu.ARM64.HasASIMD, "asimd")
		add(cpu.ARM64.HasFPHP, "fphp")
		add(cpu.ARM64.HasSVE, "sve")
	}
	return out
}
