// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package qsim

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
)

var (
	// ErrUnexpectedSuperposition is returned when a state that must be a
	// single basis state has more than one non-negligible amplitude.
	ErrUnexpectedSuperposition = errors.New("qsim: unexpected superposition")

	// ErrTooManyQubits is returned when a state cannot be represented.
	ErrTooManyQubits = errors.New("qsim: too many qubits")
)

// Tolerance is the default probability below which a basis state counts as
// absent.
const Tolerance = 1e-9

// MaxQubits is the widest state any backend can index.
const MaxQubits = 64

// State is an amplitude vector over NumQubits qubits.
//
// Gate methods mutate the state in place. A State is not safe for concurrent
// use; Dense parallelizes inside a single gate only.
type State interface {
	NumQubits() int

	H(q int)
	X(q int)
	Phase(theta float64, q int)
	CPhase(theta float64, c, t int)
	CX(c, t int)
	CCX(c1, c2, t int)
	Swap(a, b int)
	CSwap(c, a, b int)

	// Amplitude returns the amplitude of basis index i.
	Amplitude(i uint64) complex128

	// Norm returns the sum of squared amplitude magnitudes.
	Norm() float64

	// Support returns the basis states whose probability exceeds tol,
	// ordered by index.
	Support(tol float64) []Basis

	Clone() State
}

// Basis is one basis state and its amplitude.
type Basis struct {
	Index     uint64
	Amplitude complex128
}

// Probability returns |amplitude|^2.
func (b Basis) Probability() float64 {
	return prob(b.Amplitude)
}

// Classical returns the index of the only basis state of s with probability
// above tol. It fails with ErrUnexpectedSuperposition otherwise.
func Classical(s State, tol float64) (uint64, error) {
	support := s.Support(tol)
	if len(support) != 1 {
		return 0, fmt.Errorf("%w: %d basis states above %g", ErrUnexpectedSuperposition, len(support), tol)
	}
	if p := support[0].Probability(); math.Abs(p-1) > tol {
		return 0, fmt.Errorf("%w: basis %d has probability %g", ErrUnexpectedSuperposition, support[0].Index, p)
	}
	return support[0].Index, nil
}

// Probabilities returns the probability of every basis state above tol.
func Probabilities(s State, tol float64) map[uint64]float64 {
	support := s.Support(tol)
	out := make(map[uint64]float64, len(support))
	for _, b := range support {
		out[b.Index] = b.Probability()
	}
	return out
}

// Bits extracts the value held by qubits, qubits[0] being the least
// significant bit.
func Bits(index uint64, qubits []int) uint64 {
	var v uint64
	for k, q := range qubits {
		v |= (index >> uint(q) & 1) << uint(k)
	}
	return v
}

// SetBits returns index with qubits overwritten by value, qubits[0]
// receiving bit 0 of value.
func SetBits(index uint64, qubits []int, value uint64) uint64 {
	for k, q := range qubits {
		bit := uint64(1) << uint(q)
		if value>>uint(k)&1 == 1 {
			index |= bit
		} else {
			index &^= bit
		}
	}
	return index
}

func prob(a complex128) float64 {
	r, i := real(a), imag(a)
	return r*r + i*i
}

func phase(theta float64) complex128 {
	return cmplx.Exp(complex(0, theta))
}

// insertZero inserts a zero bit at position p of k.
func insertZero(k uint64, p int) uint64 {
	low := k & (uint64(1)<<uint(p) - 1)
	return (k>>uint(p))<<uint(p+1) | low
}

// insertZeros inserts zero bits at the given positions, which must be
// sorted ascending.
func insertZeros(k uint64, ps ...int) uint64 {
	for _, p := range ps {
		k = insertZero(k, p)
	}
	return k
}

func sort2(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}

func sort3(a, b, c int) (int, int, int) {
	a, b = sort2(a, b)
	b, c = sort2(b, c)
	a, b = sort2(a, b)
	return a, b, c
}
