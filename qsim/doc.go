// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package qsim holds amplitude states for small reversible-arithmetic
// circuits and the gate kernels that act on them.
//
// A state over m qubits assigns a complex amplitude to every basis index in
// [0, 2^m); bit q of the index is the value of qubit q. Two backends
// implement State:
//
//   - Dense stores all 2^m amplitudes and splits every gate into independent
//     index groups that run on a workerpool.Pool.
//   - Sparse stores only non-zero amplitudes. Arithmetic circuits driven from
//     a basis state stay close to classical (the widest superposition is the
//     Fourier image of a single register), so Sparse handles circuits far
//     wider than any dense vector could.
//
// NewState picks a backend from the qubit count and available memory. The
// QSIM_BACKEND environment variable ("dense" or "sparse") overrides the
// choice and QSIM_WORKERS sizes the dense worker pool.
//
// The gate vocabulary is fixed: H, X, Phase, CPhase, CX, CCX, Swap, CSwap.
// Kernels do not validate qubit indices; circuits are validated when built.
package qsim
