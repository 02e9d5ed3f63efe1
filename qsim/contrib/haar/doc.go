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

// Package haar implements the reversible morphological Haar transform of
// four integers a, b, c, d as a staged circuit.
//
// The forward transform produces
//
//	res1  = ((a−b)+(c−d) mod 2^n) div 2
//	res2  = ((a−b)−(c−d) mod 2^n) div 2
//	reg_a = ((a+b)−(c+d) mod 2^n) div 2
//	reg_d = min(a, b, c, d)
//
// together with three comparison flags and the least significant and guard
// bits dropped by each halving. Registers carry one guard bit above the n
// data bits, so all arithmetic inside the circuit is modulo 2^(n+1) and
// results are masked to n bits on readout.
//
// Stages run strictly in order. For a classical input every stage maps a
// basis state to a basis state; [Pipeline.Run] checks this after each stage
// and fails with qsim.ErrUnexpectedSuperposition otherwise.
//
// [NewInverse] replays the stages backwards as their algebraic inverses from
// the forward outputs and side channel ([InverseParams]). The side channel
// does not carry the final contents of registers b and c, so the inverse is
// exact only when those are zero; see [InverseParams].
package haar
