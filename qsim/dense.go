// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package qsim

import (
	"fmt"
	"math"

	"github.com/chebxuan/2D-HAAR1/qsim/contrib/workerpool"
)

// parallelThreshold is the number of index groups below which a gate runs
// on the calling goroutine. Smaller gates cost less than a pool round trip.
const parallelThreshold = 1 << 12

// Dense is a full amplitude vector of length 2^NumQubits.
type Dense struct {
	n    int
	amps []complex128
	pool *workerpool.Pool
}

// NewDense returns the all-zero basis state over n qubits. A nil pool runs
// every gate sequentially.
func NewDense(n int, pool *workerpool.Pool) (*Dense, error) {
	if n < 0 || n > maxDenseQubits {
		return nil, fmt.Errorf("%w: dense state over %d qubits", ErrTooManyQubits, n)
	}
	amps := make([]complex128, 1<<uint(n))
	amps[0] = 1
	return &Dense{n: n, amps: amps, pool: pool}, nil
}

// maxDenseQubits bounds a dense vector to 64 GiB of amplitudes, whatever
// the host reports.
const maxDenseQubits = 32

// NumQubits returns the number of qubits.
func (d *Dense) NumQubits() int { return d.n }

func (d *Dense) forEach(groups int, fn func(k uint64)) {
	if groups < parallelThreshold || d.pool == nil {
		for k := range groups {
			fn(uint64(k))
		}
		return
	}
	d.pool.ParallelFor(groups, func(start, end int) {
		for k := start; k < end; k++ {
			fn(uint64(k))
		}
	})
}

// H applies a Hadamard gate to qubit q.
func (d *Dense) H(q int) {
	bit := uint64(1) << uint(q)
	s := complex(1/math.Sqrt2, 0)
	d.forEach(len(d.amps)>>1, func(k uint64) {
		i := insertZero(k, q)
		j := i | bit
		a, b := d.amps[i], d.amps[j]
		d.amps[i] = s * (a + b)
		d.amps[j] = s * (a - b)
	})
}

// X flips qubit q.
func (d *Dense) X(q int) {
	bit := uint64(1) << uint(q)
	d.forEach(len(d.amps)>>1, func(k uint64) {
		i := insertZero(k, q)
		j := i | bit
		d.amps[i], d.amps[j] = d.amps[j], d.amps[i]
	})
}

// Phase multiplies the |1> component of qubit q by e^{i theta}.
func (d *Dense) Phase(theta float64, q int) {
	bit := uint64(1) << uint(q)
	f := phase(theta)
	d.forEach(len(d.amps)>>1, func(k uint64) {
		d.amps[insertZero(k, q)|bit] *= f
	})
}

// CPhase multiplies the |11> component of qubits c and t by e^{i theta}.
func (d *Dense) CPhase(theta float64, c, t int) {
	mask := uint64(1)<<uint(c) | uint64(1)<<uint(t)
	lo, hi := sort2(c, t)
	f := phase(theta)
	d.forEach(len(d.amps)>>2, func(k uint64) {
		d.amps[insertZeros(k, lo, hi)|mask] *= f
	})
}

// CX flips qubit t when qubit c is 1.
func (d *Dense) CX(c, t int) {
	cbit, tbit := uint64(1)<<uint(c), uint64(1)<<uint(t)
	lo, hi := sort2(c, t)
	d.forEach(len(d.amps)>>2, func(k uint64) {
		i := insertZeros(k, lo, hi) | cbit
		j := i | tbit
		d.amps[i], d.amps[j] = d.amps[j], d.amps[i]
	})
}

// CCX flips qubit t when qubits c1 and c2 are both 1.
func (d *Dense) CCX(c1, c2, t int) {
	cmask := uint64(1)<<uint(c1) | uint64(1)<<uint(c2)
	tbit := uint64(1) << uint(t)
	p0, p1, p2 := sort3(c1, c2, t)
	d.forEach(len(d.amps)>>3, func(k uint64) {
		i := insertZeros(k, p0, p1, p2) | cmask
		j := i | tbit
		d.amps[i], d.amps[j] = d.amps[j], d.amps[i]
	})
}

// Swap exchanges qubits a and b.
func (d *Dense) Swap(a, b int) {
	abit, bbit := uint64(1)<<uint(a), uint64(1)<<uint(b)
	lo, hi := sort2(a, b)
	d.forEach(len(d.amps)>>2, func(k uint64) {
		base := insertZeros(k, lo, hi)
		i, j := base|abit, base|bbit
		d.amps[i], d.amps[j] = d.amps[j], d.amps[i]
	})
}

// CSwap exchanges qubits a and b when qubit c is 1.
func (d *Dense) CSwap(c, a, b int) {
	cbit := uint64(1) << uint(c)
	abit, bbit := uint64(1)<<uint(a), uint64(1)<<uint(b)
	p0, p1, p2 := sort3(c, a, b)
	d.forEach(len(d.amps)>>3, func(k uint64) {
		base := insertZeros(k, p0, p1, p2) | cbit
		i, j := base|abit, base|bbit
		d.amps[i], d.amps[j] = d.amps[j], d.amps[i]
	})
}

// Amplitude returns the amplitude of basis index i, or 0 out of range.
func (d *Dense) Amplitude(i uint64) complex128 {
	if i >= uint64(len(d.amps)) {
		return 0
	}
	return d.amps[i]
}

// Norm returns the sum of squared magnitudes.
func (d *Dense) Norm() float64 {
	var sum float64
	for _, a := range d.amps {
		sum += prob(a)
	}
	return sum
}

// Support returns basis states with probability above tol.
func (d *Dense) Support(tol float64) []Basis {
	var out []Basis
	for i, a := range d.amps {
		if prob(a) > tol {
			out = append(out, Basis{Index: uint64(i), Amplitude: a})
		}
	}
	return out
}

// Clone returns an independent copy sharing the worker pool.
func (d *Dense) Clone() State {
	amps := make([]complex128, len(d.amps))
	copy(amps, d.amps)
	return &Dense{n: d.n, amps: amps, pool: d.pool}
}

// SetBasis resets the state to the basis state index.
func (d *Dense) SetBasis(index uint64) {
	clear(d.amps)
	d.amps[index&(uint64(len(d.amps))-1)] = 1
}
