// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package qsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chebxuan/2D-HAAR1/internal/platform"
)

func TestParseBackend(t *testing.T) {
	testCases := []struct {
		in      string
		want    Backend
		wantErr bool
	}{
		{"", BackendAuto, false},
		{"auto", BackendAuto, false},
		{"Dense", BackendDense, false},
		{" sparse ", BackendSparse, false},
		{"gpu", BackendAuto, true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseBackend(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.want, mustParse(t, got.String()))
		})
	}
}

func mustParse(t *testing.T, s string) Backend {
	t.Helper()
	b, err := ParseBackend(s)
	require.NoError(t, err)
	return b
}

func TestResolve(t *testing.T) {
	t.Setenv("QSIM_BACKEND", "")
	assert.Equal(t, BackendSparse, Resolve(BackendAuto, DenseMaxQubits+1))
	assert.Equal(t, BackendDense, Resolve(BackendAuto, 4))
	assert.Equal(t, BackendSparse, Resolve(BackendSparse, 4))

	t.Setenv("QSIM_BACKEND", "sparse")
	assert.Equal(t, BackendSparse, Resolve(BackendAuto, 4))
	assert.Equal(t, BackendDense, Resolve(BackendDense, 4))
}

func TestForcedDenseChecksMemory(t *testing.T) {
	t.Setenv("QSIM_BACKEND", "")
	_, err := NewState(BackendDense, 39)
	assert.ErrorIs(t, err, ErrTooManyQubits)

	SharedPool()
	saved := hostInfo
	t.Cleanup(func() { hostInfo = saved })
	hostInfo = platform.Info{AvailableMemory: 1 << 20}

	_, err = NewState(BackendDense, 20)
	assert.ErrorIs(t, err, ErrTooManyQubits)
	assert.Equal(t, BackendSparse, Resolve(BackendAuto, 20))

	s, err := NewState(BackendDense, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, s.NumQubits())
}

func TestWorkersEnv(t *testing.T) {
	t.Setenv("QSIM_WORKERS", "3")
	assert.Equal(t, 3, WorkersEnv())
	t.Setenv("QSIM_WORKERS", "many")
	assert.Equal(t, 0, WorkersEnv())
}

func TestPrepare(t *testing.T) {
	for _, b := range []Backend{BackendDense, BackendSparse} {
		s, err := Prepare(b, 5, 0b10110)
		require.NoError(t, err)
		got, err := Classical(s, Tolerance)
		require.NoError(t, err)
		assert.Equal(t, uint64(0b10110), got)
		assert.InDelta(t, 1, s.Norm(), eps)
	}
}
