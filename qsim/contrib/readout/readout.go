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
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/chebxuan/2D-HAAR1/qsim"
	"github.com/chebxuan/2D-HAAR1/qsim/contrib/circuit"
)

// ErrMeasurementFormat is returned when a measurement string does not match
// the declared groups.
var ErrMeasurementFormat = errors.New("readout: measurement format mismatch")

// Group is a named list of measured qubits, least significant first.
type Group struct {
	Name   string
	Qubits []int
}

// Width returns the number of measured bits.
func (g Group) Width() int { return len(g.Qubits) }

// GroupsOf returns one group per register, in the given order.
func GroupsOf(regs ...circuit.Register) []Group {
	return lo.Map(regs, func(r circuit.Register, _ int) Group {
		return Group{Name: r.Name(), Qubits: r.Qubits()}
	})
}

// Format renders basis index as a measurement string over groups.
func Format(index uint64, groups []Group) string {
	parts := make([]string, len(groups))
	for i, g := range groups {
		var sb strings.Builder
		for k := len(g.Qubits) - 1; k >= 0; k-- {
			sb.WriteByte('0' + byte(index>>uint(g.Qubits[k])&1))
		}
		parts[len(groups)-1-i] = sb.String()
	}
	return strings.Join(parts, " ")
}

// Parse returns the value of every group, in declaration order.
func Parse(s string, groups []Group) ([]uint64, error) {
	fields := strings.Fields(s)
	if len(fields) != len(groups) {
		return nil, fmt.Errorf("%w: %d groups in %q, want %d", ErrMeasurementFormat, len(fields), s, len(groups))
	}
	slices.Reverse(fields)
	values := make([]uint64, len(groups))
	for i, g := range groups {
		if len(fields[i]) != g.Width() {
			return nil, fmt.Errorf("%w: group %q has %d bits, want %d", ErrMeasurementFormat, g.Name, len(fields[i]), g.Width())
		}
		v, err := strconv.ParseUint(fields[i], 2, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: group %q: %v", ErrMeasurementFormat, g.Name, err)
		}
		values[i] = v
	}
	return values, nil
}

// ParseNamed is like Parse but keys the values by group name.
func ParseNamed(s string, groups []Group) (map[string]uint64, error) {
	values, err := Parse(s, groups)
	if err != nil {
		return nil, err
	}
	return lo.SliceToMap(lo.Zip2(groups, values), func(t lo.Tuple2[Group, uint64]) (string, uint64) {
		return t.A.Name, t.B
	}), nil
}

// Measure marginalizes s onto groups, summing the probability of every basis
// state above tol that renders to the same measurement string.
func Measure(s qsim.State, groups []Group, tol float64) Histogram {
	h := make(Histogram)
	for _, b := range s.Support(tol) {
		h[Format(b.Index, groups)] += b.Probability()
	}
	return h
}
