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

import "slices"

// Register is a named, ordered list of qubit indices, index 0 being the
// least significant bit.
type Register struct {
	name   string
	qubits []int
}

// Name returns the register name.
func (r Register) Name() string { return r.name }

// Width returns the number of qubits.
func (r Register) Width() int { return len(r.qubits) }

// Qubit returns the i-th qubit, 0 being the least significant.
func (r Register) Qubit(i int) int { return r.qubits[i] }

// MSB returns the most significant qubit.
func (r Register) MSB() int { return r.qubits[len(r.qubits)-1] }

// Qubits returns a copy of the qubit indices.
func (r Register) Qubits() []int { return slices.Clone(r.qubits) }

// Concat joins the qubit lists of regs in order.
func Concat(regs ...Register) []int {
	var out []int
	for _, r := range regs {
		out = append(out, r.qubits...)
	}
	return out
}
