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
	"errors"
	"fmt"
	stdimage "image"
	"image/color"
	"io"

	"golang.org/x/image/bmp"
)

// ErrUnsupportedBMP is returned for BMP files that are not 8-bit paletted,
// 24-bit or 32-bit uncompressed.
var ErrUnsupportedBMP = errors.New("image: unsupported BMP")

// DecodeBMPGray reads a BMP file as 8-bit grayscale. Paletted images map
// each index through the red channel of the palette, padded to 256 entries; RGB images use the
// integer mean of the three channels. Row order (bottom-up or top-down) is
// handled by the decoder.
func DecodeBMPGray(r io.Reader) (*Image[uint8], error) {
	src, err := bmp.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedBMP, err)
	}
	b := src.Bounds()
	img := NewImage[uint8](b.Dx(), b.Dy())
	switch s := src.(type) {
	case *stdimage.Paletted:
		// A short palette is padded with a gray ramp starting at 0, so
		// index len(palette)+k reads as k.
		var red [256]uint8
		used := min(len(s.Palette), len(red))
		for i, c := range s.Palette[:used] {
			red[i] = color.RGBAModel.Convert(c).(color.RGBA).R
		}
		for i := used; i < len(red); i++ {
			red[i] = uint8(i - used)
		}
		for y := range img.height {
			row := img.Row(y)
			for x := range row {
				row[x] = red[s.ColorIndexAt(b.Min.X+x, b.Min.Y+y)]
			}
		}
	case *stdimage.RGBA:
		fillMean(img, b, func(x, y int) (r, g, bl uint8) {
			c := s.RGBAAt(x, y)
			return c.R, c.G, c.B
		})
	case *stdimage.NRGBA:
		fillMean(img, b, func(x, y int) (r, g, bl uint8) {
			c := s.NRGBAAt(x, y)
			return c.R, c.G, c.B
		})
	default:
		return nil, fmt.Errorf("%w: decoded as %T", ErrUnsupportedBMP, src)
	}
	return img, nil
}

func fillMean(img *Image[uint8], b stdimage.Rectangle, at func(x, y int) (r, g, bl uint8)) {
	for y := range img.height {
		row := img.Row(y)
		for x := range row {
			r, g, bl := at(b.Min.X+x, b.Min.Y+y)
			row[x] = uint8((int(r) + int(g) + int(bl)) / 3)
		}
	}
}
