// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package qsim

import (
	"fmt"
	"maps"
	"math"
	"slices"
)

// pruneTolerance is the magnitude below which an amplitude produced by
// interference is dropped from a Sparse state.
const pruneTolerance = 1e-12

// Sparse stores only the non-zero amplitudes of a state.
//
// Permutation and diagonal gates keep the number of stored amplitudes
// fixed; only H can grow it, and destructive interference (IQFT after QFT)
// shrinks it back.
type Sparse struct {
	n    int
	amps map[uint64]complex128
}

// NewSparse returns the all-zero basis state over n qubits.
func NewSparse(n int) (*Sparse, error) {
	if n < 0 || n > MaxQubits {
		return nil, fmt.Errorf("%w: sparse state over %d qubits", ErrTooManyQubits, n)
	}
	return &Sparse{n: n, amps: map[uint64]complex128{0: 1}}, nil
}

// NumQubits returns the number of qubits.
func (s *Sparse) NumQubits() int { return s.n }

// Len returns the number of stored amplitudes.
func (s *Sparse) Len() int { return len(s.amps) }

// H applies a Hadamard gate to qubit q.
func (s *Sparse) H(q int) {
	bit := uint64(1) << uint(q)
	h := complex(1/math.Sqrt2, 0)
	out := make(map[uint64]complex128, 2*len(s.amps))
	for i, a := range s.amps {
		lo := i &^ bit
		out[lo] += h * a
		if i&bit == 0 {
			out[lo|bit] += h * a
		} else {
			out[lo|bit] -= h * a
		}
	}
	for i, a := range out {
		if math.Abs(real(a)) < pruneTolerance && math.Abs(imag(a)) < pruneTolerance {
			delete(out, i)
		}
	}
	s.amps = out
}

func (s *Sparse) permute(fn func(i uint64) uint64) {
	out := make(map[uint64]complex128, len(s.amps))
	for i, a := range s.amps {
		out[fn(i)] = a
	}
	s.amps = out
}

// X flips qubit q.
func (s *Sparse) X(q int) {
	bit := uint64(1) << uint(q)
	s.permute(func(i uint64) uint64 { return i ^ bit })
}

// Phase multiplies the |1> component of qubit q by e^{i theta}.
func (s *Sparse) Phase(theta float64, q int) {
	bit := uint64(1) << uint(q)
	f := phase(theta)
	for i, a := range s.amps {
		if i&bit != 0 {
			s.amps[i] = a * f
		}
	}
}

// CPhase multiplies the |11> component of qubits c and t by e^{i theta}.
func (s *Sparse) CPhase(theta float64, c, t int) {
	mask := uint64(1)<<uint(c) | uint64(1)<<uint(t)
	f := phase(theta)
	for i, a := range s.amps {
		if i&mask == mask {
			s.amps[i] = a * f
		}
	}
}

// CX flips qubit t when qubit c is 1.
func (s *Sparse) CX(c, t int) {
	cbit, tbit := uint64(1)<<uint(c), uint64(1)<<uint(t)
	s.permute(func(i uint64) uint64 {
		if i&cbit != 0 {
			return i ^ tbit
		}
		return i
	})
}

// CCX flips qubit t when qubits c1 and c2 are both 1.
func (s *Sparse) CCX(c1, c2, t int) {
	cmask := uint64(1)<<uint(c1) | uint64(1)<<uint(c2)
	tbit := uint64(1) << uint(t)
	s.permute(func(i uint64) uint64 {
		if i&cmask == cmask {
			return i ^ tbit
		}
		return i
	})
}

// Swap exchanges qubits a and b.
func (s *Sparse) Swap(a, b int) {
	s.permute(func(i uint64) uint64 { return swapBits(i, a, b) })
}

// CSwap exchanges qubits a and b when qubit c is 1.
func (s *Sparse) CSwap(c, a, b int) {
	cbit := uint64(1) << uint(c)
	s.permute(func(i uint64) uint64 {
		if i&cbit != 0 {
			return swapBits(i, a, b)
		}
		return i
	})
}

func swapBits(i uint64, a, b int) uint64 {
	if (i>>uint(a))&1 != (i>>uint(b))&1 {
		i ^= uint64(1)<<uint(a) | uint64(1)<<uint(b)
	}
	return i
}

// Amplitude returns the amplitude of basis index i.
func (s *Sparse) Amplitude(i uint64) complex128 {
	return s.amps[i]
}

// Norm returns the sum of squared magnitudes.
func (s *Sparse) Norm() float64 {
	var sum float64
	for _, a := range s.amps {
		sum += prob(a)
	}
	return sum
}

// Support returns basis states with probability above tol.
func (s *Sparse) Support(tol float64) []Basis {
	out := make([]Basis, 0, len(s.amps))
	for i, a := range s.amps {
		if prob(a) > tol {
			out = append(out, Basis{Index: i, Amplitude: a})
		}
	}
	slices.SortFunc(out, func(x, y Basis) int {
		switch {
		case x.Index < y.Index:
			return -1
		case x.Index > y.Index:
			return 1
		}
		return 0
	})
	return out
}

// Clone returns an independent copy.
func (s *Sparse) Clone() State {
	return &Sparse{n: s.n, amps: maps.Clone(s.amps)}
}

// SetBasis resets the state to the basis state index.
func (s *Sparse) SetBasis(index uint64) {
	if s.n < 64 {
		index &= uint64(1)<<uint(s.n) - 1
	}
	s.amps = map[uint64]complex128{index: 1}
}
