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

package image

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
)

// Quantize keeps the top bits of every 8-bit pixel.
func Quantize(img *Image[uint8], bits int) *Image[uint8] {
	shift := max(0, 8-bits)
	return Map(img, func(v uint8) uint8 { return v >> uint(shift) })
}

// Block is a 2×2 pixel block at block coordinates (X, Y):
//
//	A B
//	C D
type Block struct {
	X, Y       int
	A, B, C, D int
}

// Blocks returns every complete 2×2 block in row-major block order. An odd
// last row or column is dropped.
func Blocks[T Pixel](img *Image[T]) []Block {
	bw, bh := img.width/2, img.height/2
	out := make([]Block, 0, bw*bh)
	for by := range bh {
		top, bottom := img.Row(2*by), img.Row(2*by+1)
		for bx := range bw {
			out = append(out, Block{
				X: bx, Y: by,
				A: int(top[2*bx]), B: int(top[2*bx+1]),
				C: int(bottom[2*bx]), D: int(bottom[2*bx+1]),
			})
		}
	}
	return out
}

// Normalize scales img so that its maximum maps to 255, rounding to the
// nearest integer. An all-zero image stays zero.
func Normalize[T Pixel](img *Image[T]) *Image[uint8] {
	peak := float64(img.Max())
	if peak == 0 {
		peak = 1
	}
	return Map(img, func(v T) uint8 {
		return uint8(math.RoundToEven(255 * float64(v) / peak))
	})
}

// Upsample repeats every pixel into a 2×2 block.
func Upsample[T Pixel](img *Image[T]) *Image[T] {
	out := NewImage[T](img.width*2, img.height*2)
	for y := range img.height {
		src := img.Row(y)
		top, bottom := out.Row(2*y), out.Row(2*y+1)
		for x, v := range src {
			top[2*x], top[2*x+1] = v, v
			bottom[2*x], bottom[2*x+1] = v, v
		}
	}
	return out
}

// WritePGM writes img as an ASCII (P2) graymap with maxval 255.
func WritePGM(w io.Writer, img *Image[uint8]) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P2\n%d %d\n255\n", img.width, img.height)
	buf := make([]byte, 0, 4*img.width)
	for y := range img.height {
		buf = buf[:0]
		for x, v := range img.Row(y) {
			if x > 0 {
				buf = append(buf, ' ')
			}
			buf = strconv.AppendUint(buf, uint64(v), 10)
		}
		if y < img.height-1 {
			buf = append(buf, '\n')
		}
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadPGM parses an ASCII (P2) graymap. Comments are not supported.
func ReadPGM(r io.Reader) (*Image[uint8], error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	next := func() (int, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return 0, err
			}
			return 0, io.ErrUnexpectedEOF
		}
		return strconv.Atoi(sc.Text())
	}
	if !sc.Scan() || sc.Text() != "P2" {
		return nil, errors.New("image: not an ASCII PGM")
	}
	var hdr [3]int
	for i := range hdr {
		v, err := next()
		if err != nil {
			return nil, fmt.Errorf("image: PGM header: %w", err)
		}
		hdr[i] = v
	}
	if hdr[2] <= 0 || hdr[2] > 255 {
		return nil, fmt.Errorf("image: PGM maxval %d", hdr[2])
	}
	img := NewImage[uint8](hdr[0], hdr[1])
	for i := range img.data {
		v, err := next()
		if err != nil {
			return nil, fmt.Errorf("image: PGM pixel %d: %w", i, err)
		}
		img.data[i] = uint8(v)
	}
	return img, nil
}
