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
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/chebxuan/2D-HAAR1/qsim"
	"github.com/chebxuan/2D-HAAR1/qsim/contrib/circuit"
	"github.com/chebxuan/2D-HAAR1/qsim/contrib/readout"
)

// Option configures a Pipeline.
type Option func(*options)

type options struct {
	backend qsim.Backend
	log     zerolog.Logger
	hooks   []circuit.Hook
	tol     float64
}

func defaultOptions() options {
	return options{backend: qsim.BackendAuto, log: zerolog.Nop(), tol: qsim.Tolerance}
}

// WithBackend selects the amplitude state backend. The full layout is
// 6(n+1)+9 qubits, so BackendAuto ends up sparse for every n ≥ 2.
func WithBackend(b qsim.Backend) Option {
	return func(o *options) { o.backend = b }
}

// WithLogger sets the logger used for stage tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithHooks installs hooks called after every primitive gate.
func WithHooks(h ...circuit.Hook) Option {
	return func(o *options) { o.hooks = append(o.hooks, h...) }
}

// WithTolerance sets the probability below which a basis state counts as
// absent in the per-stage determinism check.
func WithTolerance(tol float64) Option {
	return func(o *options) { o.tol = tol }
}

// Pipeline is a loading stage followed by transform stages over one Layout.
type Pipeline struct {
	name     string
	dataBits int
	layout   Layout
	load     Stage
	stages   []Stage
	groups   []readout.Group
	circuit  *circuit.Circuit
	opts     options
}

func newPipeline(name string, dataBits int, load Stage, stages []Stage, groups func(Layout) []readout.Group, opts []Option) (*Pipeline, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	b := circuit.NewBuilder(name)
	l := newLayout(b, dataBits+1)
	all := identity(l.NumQubits())
	b.Append(load.Circuit, all...)
	for _, s := range stages {
		b.Append(s.Circuit, all...)
	}
	c, err := b.Build()
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		name:     name,
		dataBits: dataBits,
		layout:   l,
		load:     load,
		stages:   stages,
		groups:   groups(l),
		circuit:  c,
		opts:     o,
	}, nil
}

// Forward builds the forward transform of p.
func Forward(p Params, opts ...Option) (*Pipeline, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	width := p.ArithBits()
	in := p.Inputs()
	load, err := loadStage(width, func(l Layout) []loadValue {
		return []loadValue{{l.A, in[0]}, {l.B, in[1]}, {l.C, in[2]}, {l.D, in[3]}}
	})
	if err != nil {
		return nil, err
	}
	stages, err := ForwardStages(width)
	if err != nil {
		return nil, err
	}
	return newPipeline("morphological_haar", p.DataBits, load, stages, Layout.forwardGroups, opts)
}

// Inverse builds the inverse transform that starts from the forward
// outputs and side channel in ip.
func Inverse(ip InverseParams, opts ...Option) (*Pipeline, error) {
	if err := validateDataBits(ip.DataBits); err != nil {
		return nil, err
	}
	width := ip.DataBits + 1
	mask := uint64(1)<<uint(ip.DataBits) - 1
	load, err := loadStage(width, func(l Layout) []loadValue {
		return []loadValue{
			{l.Res1, ip.Result1 & mask},
			{l.Res2, ip.Result2 & mask},
			{l.A, ip.RegA & mask},
			{l.D, ip.RegD & mask},
			{l.CompAB, ip.CompAB & 1},
			{l.CompCD, ip.CompCD & 1},
			{l.CompMin, ip.CompMin & 1},
			{l.ShiftRes1, ip.LSBRes1 & 1},
			{l.ShiftRes2, ip.LSBRes2 & 1},
			{l.ShiftA, ip.LSBRegA & 1},
			{l.GuardRes1, ip.GuardRes1 & 1},
			{l.GuardRes2, ip.GuardRes2 & 1},
			{l.GuardA, ip.GuardRegA & 1},
		}
	})
	if err != nil {
		return nil, err
	}
	stages, err := InverseStages(width)
	if err != nil {
		return nil, err
	}
	return newPipeline("morphological_haar_inverse", ip.DataBits, load, stages, Layout.inverseGroups, opts)
}

// Name returns the pipeline name.
func (p *Pipeline) Name() string { return p.name }

// DataBits returns the logical input width.
func (p *Pipeline) DataBits() int { return p.dataBits }

// Layout returns the register handles.
func (p *Pipeline) Layout() Layout { return p.layout }

// Load returns the input loading stage.
func (p *Pipeline) Load() Stage { return p.load }

// Stages returns the transform stages in execution order.
func (p *Pipeline) Stages() []Stage { return slices.Clone(p.stages) }

// Groups returns the measurement groups read by Run.
func (p *Pipeline) Groups() []readout.Group { return slices.Clone(p.groups) }

// Circuit returns the whole pipeline, loading included, as one circuit.
func (p *Pipeline) Circuit() *circuit.Circuit { return p.circuit }

// Simulate runs every stage on a fresh state and returns the final state.
// After each stage the state must be a single basis state.
func (p *Pipeline) Simulate(ctx context.Context) (qsim.State, error) {
	s, err := qsim.NewState(p.opts.backend, p.layout.NumQubits())
	if err != nil {
		return nil, err
	}
	log := p.opts.log.With().Str("pipeline", p.name).Logger()
	start := time.Now()
	for _, st := range append([]Stage{p.load}, p.stages...) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := st.Circuit.Run(s, p.opts.hooks...); err != nil {
			return nil, fmt.Errorf("%s: stage %d: %w", p.name, st.Index, err)
		}
		index, err := qsim.Classical(s, p.opts.tol)
		if err != nil {
			return nil, fmt.Errorf("%s: stage %d (%s): %w", p.name, st.Index, st.Name(), err)
		}
		log.Trace().
			Int("stage", st.Index).
			Str("name", st.Name()).
			Str("basis", fmt.Sprintf("%#x", index)).
			Msg("stage complete")
	}
	log.Debug().
		Int("qubits", p.layout.NumQubits()).
		Dur("elapsed", time.Since(start)).
		Msg("simulation complete")
	return s, nil
}

// Run simulates the pipeline and reads out its measurement groups.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	s, err := p.Simulate(ctx)
	if err != nil {
		return nil, err
	}
	return p.Readout(s)
}

// Readout measures the pipeline groups on a final state.
func (p *Pipeline) Readout(s qsim.State) (*Result, error) {
	bits, err := p.Histogram(s).Deterministic(p.opts.tol)
	if err != nil {
		return nil, fmt.Errorf("%s: readout: %w", p.name, err)
	}
	return p.Parse(bits)
}

// Histogram returns the distribution of the pipeline groups on s.
func (p *Pipeline) Histogram(s qsim.State) readout.Histogram {
	return readout.Measure(s, p.groups, p.opts.tol)
}

// Parse interprets a measurement string over the pipeline groups.
func (p *Pipeline) Parse(bits string) (*Result, error) {
	values, err := readout.ParseNamed(bits, p.groups)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.name, err)
	}
	return &Result{DataBits: p.dataBits, Bitstring: bits, Values: values}, nil
}

// RunForward builds and runs the forward transform of p.
func RunForward(ctx context.Context, p Params, opts ...Option) (Outputs, error) {
	pl, err := Forward(p, opts...)
	if err != nil {
		return Outputs{}, err
	}
	r, err := pl.Run(ctx)
	if err != nil {
		return Outputs{}, err
	}
	return r.Outputs(), nil
}

// RunInverse builds and runs the inverse transform of ip.
func RunInverse(ctx context.Context, ip InverseParams, opts ...Option) (Reconstruction, error) {
	pl, err := Inverse(ip, opts...)
	if err != nil {
		return Reconstruction{}, err
	}
	r, err := pl.Run(ctx)
	if err != nil {
		return Reconstruction{}, err
	}
	return r.Reconstruction(), nil
}

func identity(n int) []int {
	q := make([]int, n)
	for i := range q {
		q[i] = i
	}
	return q
}
