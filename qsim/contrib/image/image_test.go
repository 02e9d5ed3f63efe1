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
	"bytes"
	"encoding/binary"
	stdimage "image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func TestNewImage(t *testing.T) {
	img := NewImage[uint8](3, 2)
	assert.Equal(t, 3, img.Width())
	assert.Equal(t, 2, img.Height())
	assert.Len(t, img.Row(1), 3)
	assert.Nil(t, img.Row(2))

	img.Set(2, 1, 9)
	img.Set(5, 5, 1) // ignored
	assert.Equal(t, uint8(9), img.At(2, 1))
	assert.Equal(t, uint8(0), img.At(-1, 0))

	clone := img.Clone()
	clone.Set(2, 1, 1)
	assert.Equal(t, uint8(9), img.At(2, 1))
	assert.True(t, SameSize(img, clone))

	empty := NewImage[int](0, 4)
	assert.Equal(t, 0, empty.Height())
	assert.Nil(t, empty.Row(0))
}

func gradient() *Image[uint8] {
	img := NewImage[uint8](4, 4)
	for y := range 4 {
		for x := range 4 {
			img.Set(x, y, uint8(16*(4*y+x)))
		}
	}
	return img
}

func TestDecodeBMPGrayPaletted(t *testing.T) {
	src := stdimage.NewGray(stdimage.Rect(0, 0, 4, 4))
	want := gradient()
	for y := range 4 {
		for x := range 4 {
			src.SetGray(x, y, color.Gray{Y: want.At(x, y)})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, src))

	got, err := DecodeBMPGray(&buf)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

// shortPaletteBMP returns a 4x1 8-bit BMP whose two-entry palette has red
// channels 200 and 100.
func shortPaletteBMP(pix [4]uint8) []byte {
	const offset = 14 + 40 + 2*4
	var buf bytes.Buffer
	le := func(v any) { _ = binary.Write(&buf, binary.LittleEndian, v) }
	buf.WriteString("BM")
	le(uint32(offset + 4)) // file size
	le(uint32(0))          // reserved
	le(uint32(offset))
	le(uint32(40)) // info header size
	le(int32(4))   // width
	le(int32(1))   // height, bottom-up
	le(uint16(1))  // planes
	le(uint16(8))  // bits per pixel
	le(uint32(0))  // compression
	le(uint32(4))  // image size
	le(int32(0))
	le(int32(0))
	le(uint32(2)) // colors used
	le(uint32(0))
	buf.Write([]byte{0, 0, 200, 0, 0, 0, 100, 0})
	buf.Write(pix[:])
	return buf.Bytes()
}

func TestDecodeBMPGrayShortPalette(t *testing.T) {
	got, err := DecodeBMPGray(bytes.NewReader(shortPaletteBMP([4]uint8{0, 1, 2, 5})))
	require.NoError(t, err)
	assert.Equal(t, []uint8{200, 100, 0, 3}, got.Row(0))
}

func TestDecodeBMPGrayRGB(t *testing.T) {
	src := stdimage.NewRGBA(stdimage.Rect(0, 0, 2, 2))
	src.SetRGBA(0, 0, color.RGBA{R: 30, G: 60, B: 90, A: 255})
	src.SetRGBA(1, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	src.SetRGBA(0, 1, color.RGBA{R: 1, G: 1, B: 2, A: 255})
	src.SetRGBA(1, 1, color.RGBA{A: 255})
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, src))

	got, err := DecodeBMPGray(&buf)
	require.NoError(t, err)
	assert.Equal(t, []uint8{60, 255}, got.Row(0))
	assert.Equal(t, []uint8{1, 0}, got.Row(1))
}

func TestDecodeBMPGrayRejectsGarbage(t *testing.T) {
	_, err := DecodeBMPGray(strings.NewReader("GIF89a"))
	assert.ErrorIs(t, err, ErrUnsupportedBMP)
}

func TestQuantizeAndBlocks(t *testing.T) {
	q := Quantize(gradient(), 4)
	assert.Equal(t, []uint8{0, 1, 2, 3}, q.Row(0))
	assert.Equal(t, []uint8{12, 13, 14, 15}, q.Row(3))

	blocks := Blocks(q)
	require.Len(t, blocks, 4)
	assert.Equal(t, Block{X: 0, Y: 0, A: 0, B: 1, C: 4, D: 5}, blocks[0])
	assert.Equal(t, Block{X: 1, Y: 1, A: 10, B: 11, C: 14, D: 15}, blocks[3])

	odd := NewImage[uint8](3, 3)
	assert.Len(t, Blocks(odd), 1)
}

func TestNormalizeAndUpsample(t *testing.T) {
	img := NewImage[int](2, 1)
	img.Set(0, 0, 2)
	img.Set(1, 0, 4)
	n := Normalize(img)
	assert.Equal(t, []uint8{128, 255}, n.Row(0))

	zero := Normalize(NewImage[int](2, 2))
	assert.Equal(t, uint8(0), zero.Max())

	up := Upsample(n)
	assert.Equal(t, 4, up.Width())
	assert.Equal(t, 2, up.Height())
	assert.Equal(t, []uint8{128, 128, 255, 255}, up.Row(1))
}

func TestPGMRoundTrip(t *testing.T) {
	img := gradient()
	var buf bytes.Buffer
	require.NoError(t, WritePGM(&buf, img))
	assert.True(t, strings.HasPrefix(buf.String(), "P2\n4 4\n255\n0 16 32 48\n"))

	got, err := ReadPGM(&buf)
	require.NoError(t, err)
	assert.Equal(t, img, got)

	_, err = ReadPGM(strings.NewReader("P5\n1 1\n255\n0"))
	assert.Error(t, err)
	_, err = ReadPGM(strings.NewReader("P2\n2 1\n255\n7"))
	assert.Error(t, err)
}
