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

// Package image provides the single-channel 2D image type used to feed
// pixel blocks into the Haar transform and to export coefficient maps.
//
// Example usage:
//
//	img, err := image.DecodeBMPGray(f)
//	q := image.Quantize(img, 4)
//	for _, b := range image.Blocks(q) {
//	    // b.A, b.B, b.C, b.D are the 2×2 block pixels
//	}
package image
