// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package qsim

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/chebxuan/2D-HAAR1/internal/platform"
	"github.com/chebxuan/2D-HAAR1/qsim/contrib/workerpool"
)

// Backend selects a State implementation.
type Backend int

const (
	// BackendAuto picks Dense when the state fits, Sparse otherwise.
	BackendAuto Backend = iota

	// BackendDense stores every amplitude.
	BackendDense

	// BackendSparse stores non-zero amplitudes only.
	BackendSparse
)

// DenseMaxQubits is the widest state BackendAuto stores densely.
const DenseMaxQubits = 22

// String returns the backend name.
func (b Backend) String() string {
	switch b {
	case BackendAuto:
		return "auto"
	case BackendDense:
		return "dense"
	case BackendSparse:
		return "sparse"
	default:
		return "unknown"
	}
}

// ParseBackend parses "auto", "dense" or "sparse".
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return BackendAuto, nil
	case "dense":
		return BackendDense, nil
	case "sparse":
		return BackendSparse, nil
	}
	return BackendAuto, fmt.Errorf("qsim: unknown backend %q", s)
}

// BackendEnv returns the backend forced by QSIM_BACKEND, or BackendAuto when
// the variable is unset or invalid.
func BackendEnv() Backend {
	b, err := ParseBackend(os.Getenv("QSIM_BACKEND"))
	if err != nil {
		return BackendAuto
	}
	return b
}

// WorkersEnv returns QSIM_WORKERS, or 0 (meaning GOMAXPROCS) when unset or
// not a positive integer.
func WorkersEnv() int {
	n, err := strconv.Atoi(os.Getenv("QSIM_WORKERS"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

var (
	sharedPoolOnce sync.Once
	sharedPool     *workerpool.Pool
	hostInfo       platform.Info
)

// SharedPool returns the process-wide pool used by dense states created
// through NewState. It is sized by QSIM_WORKERS and never closed.
func SharedPool() *workerpool.Pool {
	sharedPoolOnce.Do(func() {
		sharedPool = workerpool.New(WorkersEnv())
		hostInfo = platform.Detect()
	})
	return sharedPool
}

// Resolve returns the concrete backend NewState would use for n qubits.
func Resolve(b Backend, n int) Backend {
	if b == BackendAuto {
		b = BackendEnv()
	}
	if b != BackendAuto {
		return b
	}
	if n > DenseMaxQubits {
		return BackendSparse
	}
	if checkDense(n) != nil {
		return BackendSparse
	}
	return BackendDense
}

// checkDense reports ErrTooManyQubits when a dense vector over n qubits
// exceeds the dense limit or the memory the host can spare.
func checkDense(n int) error {
	if n < 0 || n > maxDenseQubits {
		return fmt.Errorf("%w: dense state over %d qubits", ErrTooManyQubits, n)
	}
	SharedPool()
	if need := denseBytes(n); !hostInfo.CanAllocate(need) {
		return fmt.Errorf("%w: dense state over %d qubits needs %d bytes, %d available",
			ErrTooManyQubits, n, need, hostInfo.AvailableMemory)
	}
	return nil
}

func denseBytes(n int) uint64 { return uint64(16) << uint(n) }

// NewState returns the all-zero basis state over n qubits on backend b. A
// dense state, forced or not, must fit in available memory.
func NewState(b Backend, n int) (State, error) {
	switch Resolve(b, n) {
	case BackendDense:
		if err := checkDense(n); err != nil {
			return nil, err
		}
		return NewDense(n, SharedPool())
	default:
		return NewSparse(n)
	}
}

// Prepare returns the basis state index over n qubits on backend b.
func Prepare(b Backend, n int, index uint64) (State, error) {
	s, err := NewState(b, n)
	if err != nil {
		return nil, err
	}
	switch st := s.(type) {
	case *Dense:
		st.SetBasis(index)
	case *Sparse:
		st.SetBasis(index)
	}
	return s, nil
}
