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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chebxuan/2D-HAAR1/qsim"
)

func bell(t *testing.T) *Circuit {
	t.Helper()
	b := NewBuilder("bell")
	q := b.AddRegister("q", 2)
	b.H(q.Qubit(0))
	b.CX(q.Qubit(0), q.Qubit(1))
	c, err := b.Build()
	require.NoError(t, err)
	return c
}

func TestBuilderRegisters(t *testing.T) {
	b := NewBuilder("regs")
	x := b.AddRegister("x", 3)
	f := b.AddRegister("flag", 1)
	y := b.AddRegister("y", 2)

	assert.Equal(t, []int{0, 1, 2}, x.Qubits())
	assert.Equal(t, 3, f.Qubit(0))
	assert.Equal(t, []int{4, 5}, y.Qubits())
	assert.Equal(t, 5, y.MSB())
	assert.Equal(t, []int{4, 5, 0, 1, 2}, Concat(y, x))
	assert.Equal(t, 6, b.NumQubits())

	c, err := b.Build()
	require.NoError(t, err)
	regs := c.Registers()
	require.Len(t, regs, 3)
	assert.Equal(t, "flag", regs[1].Name())
}

func TestBuilderStickyErrors(t *testing.T) {
	testCases := []struct {
		name    string
		build   func(b *Builder)
		wantErr error
	}{
		{"out of range", func(b *Builder) { b.X(5) }, ErrQubitRange},
		{"negative", func(b *Builder) { b.CX(-1, 0) }, ErrQubitRange},
		{"duplicate", func(b *Builder) { b.CCX(0, 1, 0) }, ErrDuplicateQubit},
		{"arity", func(b *Builder) { b.Append(CX, 0) }, ErrArity},
		{"zero width", func(b *Builder) { b.AddRegister("z", 0) }, ErrArity},
		{"first error wins", func(b *Builder) {
			b.Swap(1, 1)
			b.X(9)
		}, ErrDuplicateQubit},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBuilder("bad")
			b.AddRegister("q", 3)
			tc.build(b)
			b.H(0)
			_, err := b.Build()
			assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
		})
	}
}

func TestRunBell(t *testing.T) {
	c := bell(t)
	s, err := qsim.NewState(qsim.BackendDense, 2)
	require.NoError(t, err)
	require.NoError(t, c.Run(s, NormHook(1e-9)))

	probs := qsim.Probabilities(s, qsim.Tolerance)
	assert.Len(t, probs, 2)
	assert.InDelta(t, 0.5, probs[0b00], 1e-9)
	assert.InDelta(t, 0.5, probs[0b11], 1e-9)

	require.NoError(t, c.Adjoint().Run(s))
	got, err := qsim.Classical(s, qsim.Tolerance)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got)
}

func TestRunStateTooSmall(t *testing.T) {
	s, err := qsim.NewState(qsim.BackendSparse, 1)
	require.NoError(t, err)
	assert.ErrorIs(t, bell(t).Run(s), ErrQubitRange)
}

func TestHookAbortsRun(t *testing.T) {
	s, err := qsim.NewState(qsim.BackendSparse, 2)
	require.NoError(t, err)
	stop := errors.New("stop")
	calls := 0
	err = bell(t).Run(s, func(g Gate, qubits []int, s qsim.State) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestCompositeMapping(t *testing.T) {
	inner := bell(t)

	b := NewBuilder("outer")
	r := b.AddRegister("r", 4)
	b.Append(inner, r.Qubit(3), r.Qubit(1))
	outer := b.MustBuild()

	var got [][]int
	for _, q := range outer.Gates([]int{0, 1, 2, 3}) {
		got = append(got, q)
	}
	assert.Equal(t, [][]int{{3}, {3, 1}}, got)
	assert.Equal(t, map[string]int{"h": 1, "cx": 1}, CountGates(outer))
}

func TestAdjoint(t *testing.T) {
	b := NewBuilder("phases")
	q := b.AddRegister("q", 2)
	b.H(q.Qubit(0))
	b.Phase(math.Pi/4, q.Qubit(0))
	b.CPhase(math.Pi/8, q.Qubit(0), q.Qubit(1))
	c := b.MustBuild()

	adj := c.Adjoint()
	assert.Equal(t, "phases_dg", adj.Name())
	assert.Equal(t, "phases", adj.Adjoint().Name())

	var kinds []Kind
	var thetas []float64
	for g := range adj.Gates([]int{0, 1}) {
		kinds = append(kinds, g.Kind)
		thetas = append(thetas, g.Theta)
	}
	assert.Equal(t, []Kind{KindCPhase, KindPhase, KindH}, kinds)
	assert.Equal(t, []float64{-math.Pi / 8, -math.Pi / 4, 0}, thetas)

	s, err := qsim.NewState(qsim.BackendSparse, 2)
	require.NoError(t, err)
	s.X(1)
	require.NoError(t, c.Run(s))
	require.NoError(t, adj.Run(s))
	got, err := qsim.Classical(s, qsim.Tolerance)
	require.NoError(t, err)
	assert.Equal(t, uint64(0b10), got)
}

func TestLoad(t *testing.T) {
	b := NewBuilder("load")
	r := b.AddRegister("r", 3)
	b.Load(r, 0b1101)
	c := b.MustBuild()

	s, err := qsim.NewState(qsim.BackendSparse, 3)
	require.NoError(t, err)
	require.NoError(t, c.Run(s))
	got, err := qsim.Classical(s, qsim.Tolerance)
	require.NoError(t, err)
	assert.Equal(t, uint64(0b101), got)
}

func TestGateString(t *testing.T) {
	assert.Equal(t, "cswap", CSwap.String())
	assert.Equal(t, "p(0.5)", Phase(0.5).String())
	assert.Equal(t, 3, CCX.NumQubits())
	assert.Equal(t, CPhase(-1), CPhase(1).Inverse())
	assert.Equal(t, X, X.Inverse())
}
