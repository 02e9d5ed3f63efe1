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
	"bytes"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// Result is the raw readout of a pipeline run.
type Result struct {
	DataBits  int
	Bitstring string

	// Values holds each measured register by name, unmasked.
	Values map[string]uint64
}

func (r *Result) masked(name string) uint64 {
	return r.Values[name] & (uint64(1)<<uint(r.DataBits) - 1)
}

// Outputs interprets a forward run.
func (r *Result) Outputs() Outputs {
	return Outputs{
		DataBits:  r.DataBits,
		Res1:      r.masked("res1"),
		Res2:      r.masked("res2"),
		RegA:      r.masked("a"),
		RegD:      r.masked("d"),
		CompAB:    r.Values["comp_ab"],
		CompCD:    r.Values["comp_cd"],
		CompMin:   r.Values["comp_min"],
		LSBRes1:   r.Values["anc_res1_shift"],
		LSBRes2:   r.Values["anc_res2_shift"],
		LSBRegA:   r.Values["anc_a_shift"],
		GuardRes1: r.Values["anc_res1_guard"],
		GuardRes2: r.Values["anc_res2_guard"],
		GuardRegA: r.Values["anc_a_guard"],
		Bitstring: r.Bitstring,
	}
}

// Reconstruction interprets an inverse run.
func (r *Result) Reconstruction() Reconstruction {
	return Reconstruction{
		A:    r.masked("a"),
		B:    r.masked("b"),
		C:    r.masked("c"),
		D:    r.masked("d"),
		Res1: r.masked("res1"),
		Res2: r.masked("res2"),
	}
}

// Coefficients are the four transform results.
type Coefficients struct {
	Res1 uint64 `json:"res1"`
	Res2 uint64 `json:"res2"`
	RegA uint64 `json:"reg_a"`
	RegD uint64 `json:"reg_d"`
}

// Energy returns res1 + res2 + reg_a, the detail energy of a block.
func (c Coefficients) Energy() uint64 { return c.Res1 + c.Res2 + c.RegA }

// Reference computes the coefficients classically.
func Reference(p Params) Coefficients {
	in := p.Inputs()
	a, b, c, d := in[0], in[1], in[2], in[3]
	mask := p.Modulus() - 1
	return Coefficients{
		Res1: ((a - b + c - d) & mask) >> 1,
		Res2: ((a - b - (c - d)) & mask) >> 1,
		RegA: ((a + b - c - d) & mask) >> 1,
		RegD: min(a, b, c, d),
	}
}

// Outputs is the forward readout: the coefficients masked to DataBits, the
// comparison flags, and the shift and guard ancillas of the three halvings.
type Outputs struct {
	DataBits int

	Res1, Res2, RegA, RegD uint64

	CompAB, CompCD, CompMin uint64

	LSBRes1, LSBRes2, LSBRegA       uint64
	GuardRes1, GuardRes2, GuardRegA uint64

	Bitstring string
}

// Coefficients returns the four transform results.
func (o Outputs) Coefficients() Coefficients {
	return Coefficients{Res1: o.Res1, Res2: o.Res2, RegA: o.RegA, RegD: o.RegD}
}

// InverseParams returns the side channel for the inverse transform.
func (o Outputs) InverseParams() InverseParams {
	return InverseParams{
		DataBits:  o.DataBits,
		Result1:   o.Res1,
		Result2:   o.Res2,
		RegA:      o.RegA,
		RegD:      o.RegD,
		CompAB:    o.CompAB,
		CompCD:    o.CompCD,
		CompMin:   o.CompMin,
		LSBRes1:   o.LSBRes1,
		LSBRes2:   o.LSBRes2,
		LSBRegA:   o.LSBRegA,
		GuardRes1: o.GuardRes1,
		GuardRes2: o.GuardRes2,
		GuardRegA: o.GuardRegA,
	}
}

// InverseParams are the inputs of the inverse transform: the four
// coefficients, the comparison flags, and the shift and guard bits of the
// halvings.
//
// They do not include the final contents of registers b and c, which the
// inverse starts at zero. The forward transform leaves max(c, d) in c and
// the larger of the two pair minima in b, so the reconstruction is exact
// only when c = d = 0 and min(a, b) = 0.
type InverseParams struct {
	DataBits int `msgpack:"data_bits" json:"data_bits"`

	Result1 uint64 `msgpack:"result1" json:"result1"`
	Result2 uint64 `msgpack:"result2" json:"result2"`
	RegA    uint64 `msgpack:"reg_a" json:"reg_a"`
	RegD    uint64 `msgpack:"reg_d" json:"reg_d"`

	CompAB  uint64 `msgpack:"comp_ab" json:"comp_ab"`
	CompCD  uint64 `msgpack:"comp_cd" json:"comp_cd"`
	CompMin uint64 `msgpack:"comp_min" json:"comp_min"`

	LSBRes1 uint64 `msgpack:"lsb_res1" json:"lsb_res1"`
	LSBRes2 uint64 `msgpack:"lsb_res2" json:"lsb_res2"`
	LSBRegA uint64 `msgpack:"lsb_reg_a" json:"lsb_reg_a"`

	GuardRes1 uint64 `msgpack:"guard_res1" json:"guard_res1"`
	GuardRes2 uint64 `msgpack:"guard_res2" json:"guard_res2"`
	GuardRegA uint64 `msgpack:"guard_reg_a" json:"guard_reg_a"`
}

// Reconstruction is the readout of an inverse run, masked to DataBits.
// Res1 and Res2 are the residues left in the result registers.
type Reconstruction struct {
	A, B, C, D uint64
	Res1, Res2 uint64
}

// Inputs returns the reconstructed (a, b, c, d).
func (r Reconstruction) Inputs() [4]uint64 { return [4]uint64{r.A, r.B, r.C, r.D} }

// WriteSideChannel encodes ip to w as MessagePack.
func WriteSideChannel(w io.Writer, ip InverseParams) error {
	if err := msgpack.NewEncoder(w).Encode(&ip); err != nil {
		return fmt.Errorf("haar: encoding side channel: %w", err)
	}
	return nil
}

// ReadSideChannel decodes an InverseParams written by WriteSideChannel.
func ReadSideChannel(r io.Reader) (InverseParams, error) {
	var ip InverseParams
	if err := msgpack.NewDecoder(r).Decode(&ip); err != nil {
		return InverseParams{}, fmt.Errorf("haar: decoding side channel: %w", err)
	}
	if err := validateDataBits(ip.DataBits); err != nil {
		return InverseParams{}, err
	}
	return ip, nil
}

// EncodeSideChannel returns ip as MessagePack.
func EncodeSideChannel(ip InverseParams) ([]byte, error) {
	data, err := msgpack.Marshal(&ip)
	if err != nil {
		return nil, fmt.Errorf("haar: encoding side channel: %w", err)
	}
	return data, nil
}

// DecodeSideChannel decodes MessagePack produced by EncodeSideChannel.
func DecodeSideChannel(data []byte) (InverseParams, error) {
	return ReadSideChannel(bytes.NewReader(data))
}
