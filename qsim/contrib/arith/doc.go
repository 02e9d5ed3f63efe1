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

// Package arith provides reversible integer arithmetic built from the
// [circuit] gate vocabulary.
//
// Addition and subtraction work in the Fourier domain (Draper adders): the
// target register is moved into the Fourier basis by [QFT], a ladder of
// controlled phases adds or subtracts the control register, and [IQFT]
// brings the target back. Arithmetic is modulo 2^n for n-bit registers.
//
// On top of the adders the package builds a comparator that leaves the sign
// of a difference in a flag qubit ([CQMSUB]), a halving operator that keeps
// the dropped least significant bit and the guard bit in ancillas ([UR]) so
// that doubling can undo it exactly, and a controlled register swap used as
// a min/max network ([CSwapRegister]).
//
// Every composite is built once per width and shared.
package arith
