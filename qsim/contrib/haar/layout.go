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

package haar

import (
	"github.com/chebxuan/2D-HAAR1/qsim/contrib/circuit"
	"github.com/chebxuan/2D-HAAR1/qsim/contrib/readout"
)

// Layout holds the register handles shared by the forward and inverse
// circuits. Data registers are ArithBits wide, the rest are single qubits.
type Layout struct {
	A, B, C, D circuit.Register
	Res1, Res2 circuit.Register

	ShiftRes1, ShiftRes2, ShiftA circuit.Register
	GuardRes1, GuardRes2, GuardA circuit.Register

	CompAB, CompCD, CompMin circuit.Register

	width     int
	numQubits int
}

func newLayout(b *circuit.Builder, width int) Layout {
	l := Layout{
		A:    b.AddRegister("a", width),
		B:    b.AddRegister("b", width),
		C:    b.AddRegister("c", width),
		D:    b.AddRegister("d", width),
		Res1: b.AddRegister("res1", width),
		Res2: b.AddRegister("res2", width),

		ShiftRes1: b.AddRegister("anc_res1_shift", 1),
		ShiftRes2: b.AddRegister("anc_res2_shift", 1),
		ShiftA:    b.AddRegister("anc_a_shift", 1),
		GuardRes1: b.AddRegister("anc_res1_guard", 1),
		GuardRes2: b.AddRegister("anc_res2_guard", 1),
		GuardA:    b.AddRegister("anc_a_guard", 1),

		CompAB:  b.AddRegister("comp_ab", 1),
		CompCD:  b.AddRegister("comp_cd", 1),
		CompMin: b.AddRegister("comp_min", 1),

		width: width,
	}
	l.numQubits = b.NumQubits()
	return l
}

// Width returns the data register width.
func (l Layout) Width() int { return l.width }

// NumQubits returns the total qubit count, 6·Width + 9.
func (l Layout) NumQubits() int { return l.numQubits }

// forwardGroups are measured after the forward transform. The first four
// match the original executor layout (a, d, res1, res2).
func (l Layout) forwardGroups() []readout.Group {
	return readout.GroupsOf(
		l.A, l.D, l.Res1, l.Res2,
		l.CompAB, l.CompCD, l.CompMin,
		l.ShiftRes1, l.ShiftRes2, l.ShiftA,
		l.GuardRes1, l.GuardRes2, l.GuardA,
	)
}

// inverseGroups are measured after the inverse transform.
func (l Layout) inverseGroups() []readout.Group {
	return readout.GroupsOf(l.A, l.B, l.C, l.D, l.Res1, l.Res2)
}
