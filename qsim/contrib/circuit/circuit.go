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
	"iter"
	"strings"

	"github.com/chebxuan/2D-HAAR1/qsim"
)

var (
	// ErrQubitRange is returned when an instruction addresses a qubit the
	// circuit does not have.
	ErrQubitRange = errors.New("circuit: qubit out of range")

	// ErrDuplicateQubit is returned when an instruction lists a qubit twice.
	ErrDuplicateQubit = errors.New("circuit: duplicate qubit")

	// ErrArity is returned when an instruction gets the wrong number of
	// qubits.
	ErrArity = errors.New("circuit: wrong number of qubits")
)

// Instruction is anything that can be placed in a circuit: a primitive
// [Gate] or a composite [*Circuit].
type Instruction interface {
	Name() string
	NumQubits() int

	// Inverse returns the adjoint instruction.
	Inverse() Instruction

	// Gates yields the primitive gates of the instruction in application
	// order, with local qubit i mapped to qubits[i].
	Gates(qubits []int) iter.Seq2[Gate, []int]
}

// Op is one instruction application.
type Op struct {
	Inst   Instruction
	Qubits []int
}

// Circuit is an immutable sequence of operations over NumQubits qubits.
type Circuit struct {
	name      string
	numQubits int
	registers []Register
	ops       []Op
}

// Name returns the circuit name.
func (c *Circuit) Name() string { return c.name }

// NumQubits returns the total qubit count.
func (c *Circuit) NumQubits() int { return c.numQubits }

// Len returns the number of top-level operations.
func (c *Circuit) Len() int { return len(c.ops) }

// Registers returns the registers in declaration order.
func (c *Circuit) Registers() []Register {
	out := make([]Register, len(c.registers))
	copy(out, c.registers)
	return out
}

// Ops returns the top-level operations.
func (c *Circuit) Ops() iter.Seq[Op] {
	return func(yield func(Op) bool) {
		for _, op := range c.ops {
			if !yield(op) {
				return
			}
		}
	}
}

// Gates flattens the circuit into primitive gates.
func (c *Circuit) Gates(qubits []int) iter.Seq2[Gate, []int] {
	return func(yield func(Gate, []int) bool) {
		c.gates(qubits, yield)
	}
}

func (c *Circuit) gates(qubits []int, yield func(Gate, []int) bool) bool {
	for _, op := range c.ops {
		mapped := make([]int, len(op.Qubits))
		for i, q := range op.Qubits {
			mapped[i] = qubits[q]
		}
		if sub, ok := op.Inst.(*Circuit); ok {
			if !sub.gates(mapped, yield) {
				return false
			}
			continue
		}
		for g, q := range op.Inst.Gates(mapped) {
			if !yield(g, q) {
				return false
			}
		}
	}
	return true
}

// Inverse returns the adjoint circuit.
func (c *Circuit) Inverse() Instruction { return c.Adjoint() }

// Adjoint returns the circuit with its operations reversed and each one
// inverted. The adjoint of an adjoint carries the original name.
func (c *Circuit) Adjoint() *Circuit {
	name, ok := strings.CutSuffix(c.name, "_dg")
	if !ok {
		name = c.name + "_dg"
	}
	ops := make([]Op, len(c.ops))
	for i, op := range c.ops {
		ops[len(c.ops)-1-i] = Op{Inst: op.Inst.Inverse(), Qubits: op.Qubits}
	}
	return &Circuit{name: name, numQubits: c.numQubits, registers: c.registers, ops: ops}
}

// WithName returns a copy of c under another name. Operations are shared.
func (c *Circuit) WithName(name string) *Circuit {
	cp := *c
	cp.name = name
	return &cp
}

// Hook observes the state after each primitive gate of [Circuit.Run].
// Returning an error aborts the run.
type Hook func(g Gate, qubits []int, s qsim.State) error

// Run applies the circuit to s, whose qubits 0..NumQubits-1 are the
// circuit's qubits, calling every hook after each primitive gate.
func (c *Circuit) Run(s qsim.State, hooks ...Hook) error {
	if s.NumQubits() < c.numQubits {
		return fmt.Errorf("%w: circuit %q needs %d qubits, state has %d",
			ErrQubitRange, c.name, c.numQubits, s.NumQubits())
	}
	for g, q := range c.Gates(identity(c.numQubits)) {
		g.ApplyTo(s, q)
		for _, h := range hooks {
			if err := h(g, q, s); err != nil {
				return fmt.Errorf("circuit %q: after %s%v: %w", c.name, g, q, err)
			}
		}
	}
	return nil
}

// CountGates returns the number of primitive gates of inst per mnemonic.
func CountGates(inst Instruction) map[string]int {
	counts := make(map[string]int)
	for g := range inst.Gates(identity(inst.NumQubits())) {
		counts[g.Name()]++
	}
	return counts
}

// NormHook fails with an error when the state norm drifts from 1 by more
// than tol.
func NormHook(tol float64) Hook {
	return func(g Gate, qubits []int, s qsim.State) error {
		if n := s.Norm(); n < 1-tol || n > 1+tol {
			return fmt.Errorf("norm %.12f outside 1±%g", n, tol)
		}
		return nil
	}
}

func identity(n int) []int {
	q := make([]int, n)
	for i := range q {
		q[i] = i
	}
	return q
}
