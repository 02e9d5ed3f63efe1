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

// Pixel is the set of element types an Image can hold.
type Pixel interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~int | ~float64
}

// Image is a single-channel 2D array stored row-major.
type Image[T Pixel] struct {
	data   []T
	width  int
	height int
}

// NewImage creates a new image with the specified dimensions.
func NewImage[T Pixel](width, height int) *Image[T] {
	if width <= 0 || height <= 0 {
		return &Image[T]{}
	}
	return &Image[T]{
		data:   make([]T, width*height),
		width:  width,
		height: height,
	}
}

// Width returns the image width in pixels.
func (img *Image[T]) Width() int {
	return img.width
}

// Height returns the image height in pixels.
func (img *Image[T]) Height() int {
	return img.height
}

// Row returns a mutable slice for the specified row.
func (img *Image[T]) Row(y int) []T {
	if y < 0 || y >= img.height || img.data == nil {
		return nil
	}
	start := y * img.width
	return img.data[start : start+img.width]
}

// At returns the value at position (x, y).
func (img *Image[T]) At(x, y int) T {
	if x < 0 || x >= img.width || y < 0 || y >= img.height || img.data == nil {
		var zero T
		return zero
	}
	return img.data[y*img.width+x]
}

// Set sets the value at position (x, y).
func (img *Image[T]) Set(x, y int, value T) {
	if x < 0 || x >= img.width || y < 0 || y >= img.height || img.data == nil {
		return
	}
	img.data[y*img.width+x] = value
}

// SameSize returns true if both images have the same dimensions.
func SameSize[T, U Pixel](a *Image[T], b *Image[U]) bool {
	return a.width == b.width && a.height == b.height
}

// Clone creates a deep copy of the image.
func (img *Image[T]) Clone() *Image[T] {
	clone := NewImage[T](img.width, img.height)
	copy(clone.data, img.data)
	return clone
}

// Max returns the largest pixel value, or zero for an empty image.
func (img *Image[T]) Max() T {
	var m T
	for _, v := range img.data {
		m = max(m, v)
	}
	return m
}

// Map returns a new image with fn applied to every pixel.
func Map[T, U Pixel](img *Image[T], fn func(T) U) *Image[U] {
	out := NewImage[U](img.width, img.height)
	for i, v := range img.data {
		out.data[i] = fn(v)
	}
	return out
}
