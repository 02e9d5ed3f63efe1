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
	"errors"
	"fmt"
)

// ErrInvalidParams is returned for a data width outside [MinDataBits,
// MaxDataBits].
var ErrInvalidParams = errors.New("haar: invalid parameters")

const (
	MinDataBits = 1
	MaxDataBits = 8
)

// Params are the forward transform inputs. Values outside [0, 2^DataBits)
// are reduced modulo 2^DataBits before loading.
type Params struct {
	DataBits   int
	A, B, C, D int
}

// DefaultParams returns n=4 with (a,b,c,d) = (7,2,5,1).
func DefaultParams() Params {
	return Params{DataBits: 4, A: 7, B: 2, C: 5, D: 1}
}

// ArithBits returns the register width, one guard bit above DataBits.
func (p Params) ArithBits() int { return p.DataBits + 1 }

// Modulus returns 2^DataBits.
func (p Params) Modulus() uint64 { return uint64(1) << uint(p.DataBits) }

// Validate checks the data width.
func (p Params) Validate() error {
	return validateDataBits(p.DataBits)
}

func validateDataBits(n int) error {
	if n < MinDataBits || n > MaxDataBits {
		return fmt.Errorf("%w: data bits %d outside [%d, %d]", ErrInvalidParams, n, MinDataBits, MaxDataBits)
	}
	return nil
}

// Inputs returns a, b, c, d reduced modulo 2^DataBits.
func (p Params) Inputs() [4]uint64 {
	return [4]uint64{p.wrap(p.A), p.wrap(p.B), p.wrap(p.C), p.wrap(p.D)}
}

func (p Params) wrap(v int) uint64 {
	m := int64(p.Modulus())
	r := int64(v) % m
	if r < 0 {
		r += m
	}
	return uint64(r)
}

func (p Params) String() string {
	in := p.Inputs()
	return fmt.Sprintf("n=%d a=%d b=%d c=%d d=%d", p.DataBits, in[0], in[1], in[2], in[3])
}
