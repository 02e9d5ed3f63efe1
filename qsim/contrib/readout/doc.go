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

// Package readout turns amplitude states into the measurement strings an
// external executor reports, and parses such strings back into register
// values.
//
// Measurement groups are declared in order, but the executor reports them
// space separated in reverse declaration order, each group most significant
// bit first. [Format] produces that layout and [Parse] undoes it, failing
// with [ErrMeasurementFormat] rather than misassigning bits.
//
// [Exact] evaluates a circuit from |0…0⟩ into a probability [Histogram];
// [Sampler] draws shot counts from a histogram for callers that want
// executor-like statistics.
package readout
