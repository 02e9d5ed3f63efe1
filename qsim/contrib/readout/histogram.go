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

package readout

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/chebxuan/2D-HAAR1/qsim"
	"github.com/chebxuan/2D-HAAR1/qsim/contrib/circuit"
)

// Histogram maps measurement strings to their probability.
type Histogram map[string]float64

// Outcome is one histogram entry.
type Outcome struct {
	Bits        string
	Probability float64
}

// Outcomes returns the entries by decreasing probability, ties broken by
// measurement string.
func (h Histogram) Outcomes() []Outcome {
	out := lo.Map(lo.Entries(h), func(e lo.Entry[string, float64], _ int) Outcome {
		return Outcome{Bits: e.Key, Probability: e.Value}
	})
	slices.SortFunc(out, func(a, b Outcome) int {
		if c := cmp.Compare(b.Probability, a.Probability); c != 0 {
			return c
		}
		return cmp.Compare(a.Bits, b.Bits)
	})
	return out
}

// Total returns the summed probability.
func (h Histogram) Total() float64 {
	return lo.Sum(lo.Values(h))
}

// Deterministic returns the only outcome when it has probability 1 within
// tol, and qsim.ErrUnexpectedSuperposition otherwise.
func (h Histogram) Deterministic(tol float64) (string, error) {
	out := h.Outcomes()
	if len(out) == 1 && math.Abs(out[0].Probability-1) <= tol {
		return out[0].Bits, nil
	}
	if len(out) == 0 {
		return "", fmt.Errorf("%w: empty histogram", qsim.ErrUnexpectedSuperposition)
	}
	return "", fmt.Errorf("%w: %d outcomes, most likely %q with p=%.6f",
		qsim.ErrUnexpectedSuperposition, len(out), out[0].Bits, out[0].Probability)
}

// Exact evaluates circuits by full amplitude simulation.
type Exact struct {
	Backend   qsim.Backend
	Tolerance float64
}

// Evaluate runs c from the all-zero state and returns the distribution over
// groups.
func (e Exact) Evaluate(ctx context.Context, c *circuit.Circuit, groups []Group) (Histogram, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s, err := qsim.NewState(e.Backend, c.NumQubits())
	if err != nil {
		return nil, err
	}
	if err := c.Run(s); err != nil {
		return nil, err
	}
	return Measure(s, groups, e.tolerance()), nil
}

func (e Exact) tolerance() float64 {
	if e.Tolerance > 0 {
		return e.Tolerance
	}
	return qsim.Tolerance
}

// Sampler draws measurement shots from histograms.
type Sampler struct {
	src rand.Source
}

// NewSampler returns a sampler with a seeded PCG source.
func NewSampler(seed uint64) *Sampler {
	return &Sampler{src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)}
}

// Sample draws shots outcomes from h with replacement and returns the count
// per measurement string.
func (s *Sampler) Sample(h Histogram, shots int) map[string]int {
	out := h.Outcomes()
	weights := lo.Map(out, func(o Outcome, _ int) float64 { return o.Probability })
	w := sampleuv.NewWeighted(weights, s.src)

	counts := make(map[string]int, len(out))
	for range shots {
		i, ok := w.Take()
		if !ok {
			break
		}
		counts[out[i].Bits]++
		w.Reweight(i, weights[i])
	}
	return counts
}

// MostFrequent returns the outcome with the highest count, breaking ties by
// the smaller bit string. It reports false for empty counts.
func MostFrequent(counts map[string]int) (string, bool) {
	if len(counts) == 0 {
		return "", false
	}
	entries := lo.Entries(counts)
	best := slices.MinFunc(entries, func(a, b lo.Entry[string, int]) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return best.Key, true
}
