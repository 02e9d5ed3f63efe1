// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package arith

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/chebxuan/2D-HAAR1/qsim/contrib/circuit"
)

// ErrInvalidWidth is returned when register widths do not match what an
// operation requires. Operations never truncate.
var ErrInvalidWidth = errors.New("arith: invalid register width")

type cacheKey struct {
	op    string
	width int
}

var cache sync.Map // cacheKey -> *circuit.Circuit

func memo(op string, width int, build func() *circuit.Circuit) *circuit.Circuit {
	key := cacheKey{op, width}
	if c, ok := cache.Load(key); ok {
		return c.(*circuit.Circuit)
	}
	c, _ := cache.LoadOrStore(key, build())
	return c.(*circuit.Circuit)
}

func checkWidth(n int) {
	if n < 1 {
		panic(fmt.Sprintf("arith: width %d < 1", n))
	}
}

// minHalvingWidth is the narrowest register UR accepts: the guard bit and
// the LSB must be distinct qubits.
const minHalvingWidth = 2

func checkHalvingWidth(w int) {
	if w < minHalvingWidth {
		panic(fmt.Sprintf("arith: halving width %d < %d", w, minHalvingWidth))
	}
}

// QFT returns the n-qubit quantum Fourier transform, mapping |x⟩ to
// 2^(-n/2) Σ_k e^{2πi·xk/2^n} |k⟩. The final swaps restore the input bit
// order.
func QFT(n int) *circuit.Circuit {
	checkWidth(n)
	return memo("QFT", n, func() *circuit.Circuit {
		b := circuit.NewBuilder("QFT")
		q := b.AddRegister("q", n)
		for i := n - 1; i >= 0; i-- {
			b.H(q.Qubit(i))
			for j := i - 1; j >= 0; j-- {
				b.CPhase(math.Pi/float64(uint64(1)<<uint(i-j)), q.Qubit(j), q.Qubit(i))
			}
		}
		for i := range n / 2 {
			b.Swap(q.Qubit(i), q.Qubit(n-1-i))
		}
		return b.MustBuild()
	})
}

// IQFT returns the inverse of [QFT].
func IQFT(n int) *circuit.Circuit {
	checkWidth(n)
	return memo("IQFT", n, func() *circuit.Circuit {
		return QFT(n).Adjoint().WithName("IQFT")
	})
}

// MADD returns the modular adder over [target(n) | control(n)]:
// target ← target + control mod 2^n, control unchanged.
func MADD(n int) *circuit.Circuit {
	checkWidth(n)
	return memo("MADD", n, func() *circuit.Circuit { return draper("MADD", n, 1) })
}

// MSUB returns the modular subtractor over [target(n) | control(n)]:
// target ← target − control mod 2^n, control unchanged.
func MSUB(n int) *circuit.Circuit {
	checkWidth(n)
	return memo("MSUB", n, func() *circuit.Circuit { return draper("MSUB", n, -1) })
}

func draper(name string, n int, sign float64) *circuit.Circuit {
	b := circuit.NewBuilder(name)
	target := b.AddRegister("target", n)
	control := b.AddRegister("control", n)
	b.Append(QFT(n), target.Qubits()...)
	// After QFT, target bit j carries the phase of frequency 2^(n-1-j).
	// Control bit i contributes 2^i of the addend, so the pair rotates by
	// 2π·2^(i+n-1-j)/2^n, which is a no-op once i+n-1-j reaches n.
	for j := range n {
		for i := 0; i+j <= n-1; i++ {
			theta := sign * math.Pi / float64(uint64(1)<<uint(n-1-i-j))
			b.CPhase(theta, control.Qubit(i), target.Qubit(j))
		}
	}
	b.Append(IQFT(n), target.Qubits()...)
	return b.MustBuild()
}

// CQMSUB returns the compare-and-subtract operator over
// [flag | target(n) | control(n)]: target ← target − control mod 2^n, then
// the most significant bit of the difference is copied into flag. When both
// operands are below 2^(n-1) the flag ends up as [target < control].
func CQMSUB(n int) *circuit.Circuit {
	checkWidth(n)
	return memo("C_QMSUB", n, func() *circuit.Circuit {
		b := circuit.NewBuilder("C_QMSUB")
		flag := b.AddRegister("flag", 1)
		target := b.AddRegister("target", n)
		control := b.AddRegister("control", n)
		b.Append(MSUB(n), circuit.Concat(target, control)...)
		b.CX(target.MSB(), flag.Qubit(0))
		return b.MustBuild()
	})
}

// UR returns the halving operator over [register(w) | shift | guard]. It
// moves bit w-1 into guard, then rotates the register down one place
// through shift, leaving register = (v mod 2^(w-1)) >> 1, shift = v & 1 and
// guard = bit w-1 of v. Ancillas must start at zero. w must be at least 2.
func UR(w int) *circuit.Circuit {
	checkHalvingWidth(w)
	return memo("UR", w, func() *circuit.Circuit {
		b := circuit.NewBuilder("UR")
		r := b.AddRegister("register", w)
		shift := b.AddRegister("shift", 1)
		guard := b.AddRegister("guard", 1)
		b.CX(r.MSB(), guard.Qubit(0))
		b.CX(guard.Qubit(0), r.MSB())
		for i := w - 1; i >= 0; i-- {
			b.Swap(r.Qubit(i), shift.Qubit(0))
		}
		return b.MustBuild()
	})
}

// Doubling returns the inverse of [UR]: given the halved register with its
// shift and guard ancillas it restores the original value and clears both
// ancillas.
func Doubling(w int) *circuit.Circuit {
	checkHalvingWidth(w)
	return memo("DOUBLE", w, func() *circuit.Circuit {
		return UR(w).Adjoint().WithName("DOUBLE")
	})
}

// CSwapRegister returns the controlled register swap over
// [flag | r(w) | s(w)]: r and s are exchanged when flag is set. It is its own
// inverse.
func CSwapRegister(w int) *circuit.Circuit {
	checkWidth(w)
	return memo("CSWAP", w, func() *circuit.Circuit {
		b := circuit.NewBuilder("CSWAP")
		flag := b.AddRegister("flag", 1)
		r := b.AddRegister("r", w)
		s := b.AddRegister("s", w)
		for i := range w {
			b.CSwap(flag.Qubit(0), r.Qubit(i), s.Qubit(i))
		}
		return b.MustBuild()
	})
}
