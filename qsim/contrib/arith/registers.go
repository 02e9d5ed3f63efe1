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
	"fmt"

	"github.com/chebxuan/2D-HAAR1/qsim/contrib/circuit"
)

// The helpers below append an operation to b on existing registers. A
// width mismatch is returned and also recorded in b, so callers that chain
// several helpers may check b.Build only.

func mismatch(b *circuit.Builder, op string, regs ...circuit.Register) error {
	widths := make([]string, len(regs))
	for i, r := range regs {
		widths[i] = fmt.Sprintf("%s=%d", r.Name(), r.Width())
	}
	err := fmt.Errorf("%w: %s with %v", ErrInvalidWidth, op, widths)
	b.Fail(err)
	return err
}

func sameWidth(target, control circuit.Register) bool {
	return target.Width() > 0 && target.Width() == control.Width()
}

// Add appends target ← target + control mod 2^width.
func Add(b *circuit.Builder, target, control circuit.Register) error {
	if !sameWidth(target, control) {
		return mismatch(b, "MADD", target, control)
	}
	b.Append(MADD(target.Width()), circuit.Concat(target, control)...)
	return nil
}

// Sub appends target ← target − control mod 2^width.
func Sub(b *circuit.Builder, target, control circuit.Register) error {
	if !sameWidth(target, control) {
		return mismatch(b, "MSUB", target, control)
	}
	b.Append(MSUB(target.Width()), circuit.Concat(target, control)...)
	return nil
}

// CompareSub appends the compare-and-subtract operator, leaving the sign of
// target − control in flag.
func CompareSub(b *circuit.Builder, flag, target, control circuit.Register) error {
	if flag.Width() != 1 || !sameWidth(target, control) {
		return mismatch(b, "C_QMSUB", flag, target, control)
	}
	b.Append(CQMSUB(target.Width()), circuit.Concat(flag, target, control)...)
	return nil
}

// Halve appends the halving operator on r with its shift and guard ancillas.
// r needs at least two qubits.
func Halve(b *circuit.Builder, r, shift, guard circuit.Register) error {
	if r.Width() < minHalvingWidth || shift.Width() != 1 || guard.Width() != 1 {
		return mismatch(b, "UR", r, shift, guard)
	}
	b.Append(UR(r.Width()), circuit.Concat(r, shift, guard)...)
	return nil
}

// Double appends the inverse of Halve.
func Double(b *circuit.Builder, r, shift, guard circuit.Register) error {
	if r.Width() < minHalvingWidth || shift.Width() != 1 || guard.Width() != 1 {
		return mismatch(b, "DOUBLE", r, shift, guard)
	}
	b.Append(Doubling(r.Width()), circuit.Concat(r, shift, guard)...)
	return nil
}

// SwapIf appends a swap of r and s controlled by flag.
func SwapIf(b *circuit.Builder, flag, r, s circuit.Register) error {
	if flag.Width() != 1 || !sameWidth(r, s) {
		return mismatch(b, "CSWAP", flag, r, s)
	}
	b.Append(CSwapRegister(r.Width()), circuit.Concat(flag, r, s)...)
	return nil
}

// CopyBits appends a bitwise CNOT from src into dst, so a zeroed dst receives
// a copy of src.
func CopyBits(b *circuit.Builder, dst, src circuit.Register) error {
	if !sameWidth(dst, src) {
		return mismatch(b, "COPY", dst, src)
	}
	for i := range src.Width() {
		b.CX(src.Qubit(i), dst.Qubit(i))
	}
	return nil
}
