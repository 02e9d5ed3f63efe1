// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package qsim

import (
	"errors"
	"math"
	"math/cmplx"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chebxuan/2D-HAAR1/qsim/contrib/workerpool"
)

const eps = 1e-9

type gateFn func(s State)

// randomGates returns a gate sequence over n qubits drawn from the whole
// vocabulary.
func randomGates(rng *rand.Rand, n, count int) []gateFn {
	distinct := func(k int) []int {
		return rng.Perm(n)[:k]
	}
	gates := make([]gateFn, 0, count)
	for range count {
		switch rng.IntN(8) {
		case 0:
			q := rng.IntN(n)
			gates = append(gates, func(s State) { s.H(q) })
		case 1:
			q := rng.IntN(n)
			gates = append(gates, func(s State) { s.X(q) })
		case 2:
			q, th := rng.IntN(n), rng.Float64()*2*math.Pi
			gates = append(gates, func(s State) { s.Phase(th, q) })
		case 3:
			p, th := distinct(2), rng.Float64()*2*math.Pi
			gates = append(gates, func(s State) { s.CPhase(th, p[0], p[1]) })
		case 4:
			p := distinct(2)
			gates = append(gates, func(s State) { s.CX(p[0], p[1]) })
		case 5:
			p := distinct(3)
			gates = append(gates, func(s State) { s.CCX(p[0], p[1], p[2]) })
		case 6:
			p := distinct(2)
			gates = append(gates, func(s State) { s.Swap(p[0], p[1]) })
		case 7:
			p := distinct(3)
			gates = append(gates, func(s State) { s.CSwap(p[0], p[1], p[2]) })
		}
	}
	return gates
}

func assertSameState(t *testing.T, want, got State) {
	t.Helper()
	for i := range uint64(1) << uint(want.NumQubits()) {
		if cmplx.Abs(want.Amplitude(i)-got.Amplitude(i)) > 1e-9 {
			t.Fatalf("amplitude %d: got %v, want %v", i, got.Amplitude(i), want.Amplitude(i))
		}
	}
}

func TestBackendsAgree(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for _, n := range []int{3, 5, 8} {
		dense, err := NewDense(n, nil)
		require.NoError(t, err)
		sparse, err := NewSparse(n)
		require.NoError(t, err)

		for i, g := range randomGates(rng, n, 200) {
			g(dense)
			g(sparse)
			require.InDelta(t, 1, dense.Norm(), eps, "dense norm after gate %d", i)
			require.InDelta(t, 1, sparse.Norm(), eps, "sparse norm after gate %d", i)
		}
		assertSameState(t, dense, sparse)
	}
}

func TestDenseParallelMatchesSequential(t *testing.T) {
	pool := workerpool.New(4)
	defer pool.Close()

	// 16 qubits gives 2^13 groups for three-qubit gates, above the
	// parallel threshold.
	const n = 16
	seq, err := NewDense(n, nil)
	require.NoError(t, err)
	par, err := NewDense(n, pool)
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(3, 4))
	for _, g := range randomGates(rng, n, 60) {
		g(seq)
		g(par)
	}
	assertSameState(t, seq, par)
	assert.InDelta(t, 1, par.Norm(), eps)
}

func TestPermutationGatesOnBasisStates(t *testing.T) {
	testCases := []struct {
		name string
		in   uint64
		gate gateFn
		want uint64
	}{
		{"X", 0b000, func(s State) { s.X(1) }, 0b010},
		{"CX control off", 0b000, func(s State) { s.CX(0, 2) }, 0b000},
		{"CX control on", 0b001, func(s State) { s.CX(0, 2) }, 0b101},
		{"CCX one control", 0b001, func(s State) { s.CCX(0, 1, 2) }, 0b001},
		{"CCX both controls", 0b011, func(s State) { s.CCX(0, 1, 2) }, 0b111},
		{"Swap", 0b001, func(s State) { s.Swap(0, 2) }, 0b100},
		{"Swap equal bits", 0b101, func(s State) { s.Swap(0, 2) }, 0b101},
		{"CSwap off", 0b010, func(s State) { s.CSwap(0, 1, 2) }, 0b010},
		{"CSwap on", 0b011, func(s State) { s.CSwap(0, 1, 2) }, 0b101},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for _, b := range []Backend{BackendDense, BackendSparse} {
				s, err := Prepare(b, 3, tc.in)
				require.NoError(t, err)
				tc.gate(s)
				got, err := Classical(s, Tolerance)
				require.NoError(t, err)
				assert.Equal(t, tc.want, got, "backend %s", b)
			}
		})
	}
}

func TestHadamardCreatesAndRemovesSuperposition(t *testing.T) {
	for _, b := range []Backend{BackendDense, BackendSparse} {
		s, err := Prepare(b, 2, 0b10)
		require.NoError(t, err)

		s.H(0)
		_, err = Classical(s, Tolerance)
		assert.True(t, errors.Is(err, ErrUnexpectedSuperposition))
		probs := Probabilities(s, Tolerance)
		assert.InDelta(t, 0.5, probs[0b10], eps)
		assert.InDelta(t, 0.5, probs[0b11], eps)

		s.H(0)
		got, err := Classical(s, Tolerance)
		require.NoError(t, err)
		assert.Equal(t, uint64(0b10), got)
	}
}

func TestSparsePrunesAfterInterference(t *testing.T) {
	s, err := NewSparse(40)
	require.NoError(t, err)
	for q := range 6 {
		s.H(q)
	}
	assert.Equal(t, 64, s.Len())
	for q := range 6 {
		s.H(q)
	}
	assert.Equal(t, 1, s.Len())
	assert.InDelta(t, 1, real(s.Amplitude(0)), eps)
}

func TestPhaseGates(t *testing.T) {
	s, err := NewSparse(2)
	require.NoError(t, err)
	s.H(0)
	s.H(1)
	s.CPhase(math.Pi, 0, 1)
	assert.InDelta(t, -0.5, real(s.Amplitude(0b11)), eps)
	assert.InDelta(t, 0.5, real(s.Amplitude(0b01)), eps)

	s.Phase(math.Pi/2, 0)
	assert.InDelta(t, 0.5, imag(s.Amplitude(0b01)), eps)
}

func TestBits(t *testing.T) {
	qubits := []int{4, 1, 6}
	index := SetBits(0, qubits, 0b101)
	assert.Equal(t, uint64(1<<4|1<<6), index)
	assert.Equal(t, uint64(0b101), Bits(index, qubits))
	assert.Equal(t, uint64(0b001), Bits(SetBits(index, []int{6}, 0), qubits))
}

func TestInsertZeros(t *testing.T) {
	assert.Equal(t, uint64(0b1101), insertZero(0b111, 1))
	assert.Equal(t, uint64(0b11010), insertZeros(0b111, 0, 2))
}

func TestNewStateLimits(t *testing.T) {
	_, err := NewSparse(MaxQubits + 1)
	assert.ErrorIs(t, err, ErrTooManyQubits)
	_, err = NewDense(maxDenseQubits+1, nil)
	assert.ErrorIs(t, err, ErrTooManyQubits)
}

func BenchmarkDenseH(b *testing.B) {
	s, err := NewDense(20, SharedPool())
	if err != nil {
		b.Fatal(err)
	}
	for b.Loop() {
		s.H(7)
	}
}
