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

package verify

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chebxuan/2D-HAAR1/qsim"
	"github.com/chebxuan/2D-HAAR1/qsim/contrib/haar"
)

func TestCases(t *testing.T) {
	var got []haar.Params
	for p := range Cases(1) {
		got = append(got, p)
	}
	require.Len(t, got, 16)
	assert.Equal(t, haar.Params{DataBits: 1}, got[0])
	assert.Equal(t, haar.Params{DataBits: 1, A: 1, B: 1, C: 1, D: 1}, got[15])
	assert.Equal(t, haar.Params{DataBits: 1, D: 1}, got[1])
}

func TestExhaustive(t *testing.T) {
	maxBits := 3
	if testing.Short() {
		maxBits = 2
	}
	log := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.InfoLevel)
	for n := 1; n <= maxBits; n++ {
		r, err := Exhaustive(context.Background(), n, Options{
			Workers: 4,
			Backend: qsim.BackendSparse,
			Logger:  &log,
		})
		require.NoError(t, err)
		assert.Equal(t, 1<<(4*n), r.Cases)
		assert.Equal(t, n, r.DataBits)
	}
}

func TestExhaustiveInvalidWidth(t *testing.T) {
	_, err := Exhaustive(context.Background(), 0, Options{})
	assert.ErrorIs(t, err, haar.ErrInvalidParams)
}

func TestExhaustiveCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Exhaustive(ctx, 2, Options{})
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestMismatchError(t *testing.T) {
	var err error = &MismatchError{
		Params: haar.Params{DataBits: 2, A: 1},
		Want:   haar.Coefficients{Res1: 1},
	}
	var target *MismatchError
	require.True(t, errors.As(err, &target))
	assert.Contains(t, err.Error(), "n=2 a=1 b=0 c=0 d=0")
}
