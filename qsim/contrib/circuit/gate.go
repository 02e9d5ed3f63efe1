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

package circuit

import (
	"fmt"
	"iter"

	"github.com/chebxuan/2D-HAAR1/qsim"
)

// Kind identifies a primitive gate.
type Kind uint8

const (
	KindH Kind = iota
	KindX
	KindPhase
	KindCPhase
	KindCX
	KindCCX
	KindSwap
	KindCSwap
)

var kindNames = [...]string{
	KindH:      "h",
	KindX:      "x",
	KindPhase:  "p",
	KindCPhase: "cp",
	KindCX:     "cx",
	KindCCX:    "ccx",
	KindSwap:   "swap",
	KindCSwap:  "cswap",
}

var kindArity = [...]int{
	KindH:      1,
	KindX:      1,
	KindPhase:  1,
	KindCPhase: 2,
	KindCX:     2,
	KindCCX:    3,
	KindSwap:   2,
	KindCSwap:  3,
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Gate is a primitive gate. Theta is only meaningful for KindPhase and
// KindCPhase. Controls come first in the qubit list.
type Gate struct {
	Kind  Kind
	Theta float64
}

// Primitive gate constructors.
var (
	H     = Gate{Kind: KindH}
	X     = Gate{Kind: KindX}
	CX    = Gate{Kind: KindCX}
	CCX   = Gate{Kind: KindCCX}
	Swap  = Gate{Kind: KindSwap}
	CSwap = Gate{Kind: KindCSwap}
)

// Phase returns the single-qubit phase gate diag(1, e^{iθ}).
func Phase(theta float64) Gate { return Gate{Kind: KindPhase, Theta: theta} }

// CPhase returns the controlled phase gate; its qubits are (control, target).
func CPhase(theta float64) Gate { return Gate{Kind: KindCPhase, Theta: theta} }

// Name returns the lower-case gate mnemonic.
func (g Gate) Name() string { return g.Kind.String() }

// NumQubits returns the gate arity.
func (g Gate) NumQubits() int { return kindArity[g.Kind] }

// String includes the angle of phase gates.
func (g Gate) String() string {
	switch g.Kind {
	case KindPhase, KindCPhase:
		return fmt.Sprintf("%s(%.6g)", g.Kind, g.Theta)
	}
	return g.Kind.String()
}

// Inverse negates the angle of phase gates; every other gate is its own
// inverse.
func (g Gate) Inverse() Instruction {
	switch g.Kind {
	case KindPhase, KindCPhase:
		return Gate{Kind: g.Kind, Theta: -g.Theta}
	}
	return g
}

// Gates yields the gate itself.
func (g Gate) Gates(qubits []int) iter.Seq2[Gate, []int] {
	return func(yield func(Gate, []int) bool) {
		yield(g, qubits)
	}
}

// ApplyTo applies the gate to s on the given global qubits.
func (g Gate) ApplyTo(s qsim.State, q []int) {
	switch g.Kind {
	case KindH:
		s.H(q[0])
	case KindX:
		s.X(q[0])
	case KindPhase:
		s.Phase(g.Theta, q[0])
	case KindCPhase:
		s.CPhase(g.Theta, q[0], q[1])
	case KindCX:
		s.CX(q[0], q[1])
	case KindCCX:
		s.CCX(q[0], q[1], q[2])
	case KindSwap:
		s.Swap(q[0], q[1])
	case KindCSwap:
		s.CSwap(q[0], q[1], q[2])
	default:
		panic(fmt.Sprintf("circuit: unknown gate kind %d", g.Kind))
	}
}
