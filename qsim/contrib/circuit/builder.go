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
	"errors"
	"fmt"
)

// Builder assembles a Circuit. The first error encountered is kept and
// returned by Build; later calls are ignored.
type Builder struct {
	name      string
	numQubits int
	registers []Register
	ops       []Op
	err       error
}

// NewBuilder returns an empty builder.
func NewBuilder(name string) *Builder {
	return &Builder{name: name}
}

// AddRegister allocates width fresh qubits and returns their handle.
func (b *Builder) AddRegister(name string, width int) Register {
	if width <= 0 {
		b.fail(fmt.Errorf("%w: register %q has width %d", ErrArity, name, width))
		return Register{name: name}
	}
	qubits := make([]int, width)
	for i := range qubits {
		qubits[i] = b.numQubits + i
	}
	b.numQubits += width
	r := Register{name: name, qubits: qubits}
	b.registers = append(b.registers, r)
	return r
}

// NumQubits returns the number of qubits allocated so far.
func (b *Builder) NumQubits() int { return b.numQubits }

// Append adds inst applied to qubits.
func (b *Builder) Append(inst Instruction, qubits ...int) {
	if b.err != nil {
		return
	}
	if inst == nil {
		b.fail(errors.New("circuit: nil instruction"))
		return
	}
	if len(qubits) != inst.NumQubits() {
		b.fail(fmt.Errorf("%w: %s takes %d, got %d", ErrArity, inst.Name(), inst.NumQubits(), len(qubits)))
		return
	}
	seen := make(map[int]bool, len(qubits))
	for _, q := range qubits {
		if q < 0 || q >= b.numQubits {
			b.fail(fmt.Errorf("%w: %s on qubit %d of %d", ErrQubitRange, inst.Name(), q, b.numQubits))
			return
		}
		if seen[q] {
			b.fail(fmt.Errorf("%w: %s on qubits %v", ErrDuplicateQubit, inst.Name(), qubits))
			return
		}
		seen[q] = true
	}
	b.ops = append(b.ops, Op{Inst: inst, Qubits: append([]int(nil), qubits...)})
}

// Fail records err unless an earlier error is already recorded. Helpers
// that validate their own arguments use it to keep errors sticky.
func (b *Builder) Fail(err error) { b.fail(err) }

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Err returns the first recorded error.
func (b *Builder) Err() error { return b.err }

// Build returns the immutable circuit.
func (b *Builder) Build() (*Circuit, error) {
	if b.err != nil {
		return nil, fmt.Errorf("building %q: %w", b.name, b.err)
	}
	return &Circuit{
		name:      b.name,
		numQubits: b.numQubits,
		registers: append([]Register(nil), b.registers...),
		ops:       append([]Op(nil), b.ops...),
	}, nil
}

// MustBuild is like Build but panics on error. It is meant for fixed
// composites whose construction cannot fail.
func (b *Builder) MustBuild() *Circuit {
	c, err := b.Build()
	if err != nil {
		panic(err)
	}
	return c
}

// H appends a Hadamard gate.
func (b *Builder) H(q int) { b.Append(H, q) }

// X appends a NOT gate.
func (b *Builder) X(q int) { b.Append(X, q) }

// Phase appends a phase gate.
func (b *Builder) Phase(theta float64, q int) { b.Append(Phase(theta), q) }

// CPhase appends a controlled phase gate.
func (b *Builder) CPhase(theta float64, c, t int) { b.Append(CPhase(theta), c, t) }

// CX appends a CNOT.
func (b *Builder) CX(c, t int) { b.Append(CX, c, t) }

// CCX appends a Toffoli gate.
func (b *Builder) CCX(c1, c2, t int) { b.Append(CCX, c1, c2, t) }

// Swap appends a swap gate.
func (b *Builder) Swap(p, q int) { b.Append(Swap, p, q) }

// CSwap appends a controlled swap (Fredkin) gate.
func (b *Builder) CSwap(c, p, q int) { b.Append(CSwap, c, p, q) }

// Load flips the qubits of r that are set in value, preparing the basis
// value on a zeroed register. Bits of value above the register width are
// ignored.
func (b *Builder) Load(r Register, value uint64) {
	for i, q := range r.qubits {
		if value>>uint(i)&1 == 1 {
			b.X(q)
		}
	}
}
