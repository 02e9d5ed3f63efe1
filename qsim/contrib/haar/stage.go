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
	"fmt"

	"github.com/chebxuan/2D-HAAR1/qsim/contrib/arith"
	"github.com/chebxuan/2D-HAAR1/qsim/contrib/circuit"
)

// Stage is one step of a transform. Its circuit spans the whole layout.
type Stage struct {
	// Index is the forward stage number, 1 to 7, or 0 for input loading.
	Index   int
	Circuit *circuit.Circuit
}

// Name returns the stage circuit name.
func (s Stage) Name() string { return s.Circuit.Name() }

// Inverse returns the stage that undoes s.
func (s Stage) Inverse() Stage {
	return Stage{Index: s.Index, Circuit: s.Circuit.Adjoint()}
}

type stageDef struct {
	name  string
	build func(b *circuit.Builder, l Layout)
}

// forwardStages lists stages 1 to 7 in order. Helper errors are sticky in
// the builder and surface from Build.
var forwardStages = []stageDef{
	{"compare_pairs", func(b *circuit.Builder, l Layout) {
		arith.CompareSub(b, l.CompAB, l.A, l.B)
		arith.CompareSub(b, l.CompCD, l.C, l.D)
	}},
	{"sum_of_differences", func(b *circuit.Builder, l Layout) {
		arith.Add(b, l.Res1, l.A)
		arith.Add(b, l.Res1, l.C)
		arith.Halve(b, l.Res1, l.ShiftRes1, l.GuardRes1)
	}},
	{"difference_of_differences", func(b *circuit.Builder, l Layout) {
		arith.CopyBits(b, l.Res2, l.A)
		arith.Sub(b, l.Res2, l.C)
		arith.Halve(b, l.Res2, l.ShiftRes2, l.GuardRes2)
	}},
	{"restore_pairs", func(b *circuit.Builder, l Layout) {
		arith.Add(b, l.A, l.B)
		arith.Add(b, l.C, l.D)
	}},
	{"pairwise_minmax", func(b *circuit.Builder, l Layout) {
		arith.SwapIf(b, l.CompAB, l.A, l.B)
		arith.SwapIf(b, l.CompCD, l.C, l.D)
	}},
	{"global_arithmetic", func(b *circuit.Builder, l Layout) {
		arith.CompareSub(b, l.CompMin, l.B, l.D)
		arith.Sub(b, l.A, l.C)
		arith.Add(b, l.A, l.B)
		arith.Halve(b, l.A, l.ShiftA, l.GuardA)
	}},
	{"global_minimum", func(b *circuit.Builder, l Layout) {
		arith.Add(b, l.B, l.D)
		arith.SwapIf(b, l.CompMin, l.B, l.D)
	}},
}

// newStage builds a stage circuit over a fresh copy of the layout. Layouts
// are allocated in a fixed order, so every stage sees the same qubits.
func newStage(index int, name string, width int, build func(b *circuit.Builder, l Layout)) (Stage, error) {
	b := circuit.NewBuilder(name)
	build(b, newLayout(b, width))
	c, err := b.Build()
	if err != nil {
		return Stage{}, fmt.Errorf("stage %d: %w", index, err)
	}
	return Stage{Index: index, Circuit: c}, nil
}

// ForwardStages returns stages 1 to 7 for data registers of width bits.
func ForwardStages(width int) ([]Stage, error) {
	stages := make([]Stage, 0, len(forwardStages))
	for i, def := range forwardStages {
		s, err := newStage(i+1, def.name, width, def.build)
		if err != nil {
			return nil, err
		}
		stages = append(stages, s)
	}
	return stages, nil
}

// InverseStages returns the inverses of stages 7 down to 1.
func InverseStages(width int) ([]Stage, error) {
	fwd, err := ForwardStages(width)
	if err != nil {
		return nil, err
	}
	inv := make([]Stage, len(fwd))
	for i, s := range fwd {
		inv[len(fwd)-1-i] = s.Inverse()
	}
	return inv, nil
}

// loadValue is a register and the basis value it starts in.
type loadValue struct {
	reg   circuit.Register
	value uint64
}

// loadStage prepares the listed register values from |0…0⟩.
func loadStage(width int, values func(l Layout) []loadValue) (Stage, error) {
	return newStage(0, "load", width, func(b *circuit.Builder, l Layout) {
		for _, v := range values(l) {
			b.Load(v.reg, v.value)
		}
	})
}
