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

// Package circuit builds immutable gate sequences over named qubit registers.
//
// A [Circuit] is assembled once with a [Builder] and then applied any number
// of times to a [qsim.State]. Circuits are themselves instructions, so a
// composite such as a Fourier adder is appended to a larger circuit as a
// single opaque step that keeps its internal gate order:
//
//	b := circuit.NewBuilder("add")
//	x := b.AddRegister("x", 3)
//	y := b.AddRegister("y", 3)
//	b.Append(arith.MADD(3), slices.Concat(x.Qubits(), y.Qubits())...)
//	c, err := b.Build()
//
// Qubit lists are always least significant bit first. Every instruction
// has an exact inverse: gates negate their angle or are self-inverse, and
// circuits reverse their order and invert each step.
package circuit
