// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package experiment

import (
	"context"
	stdimage "image"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/chebxuan/2D-HAAR1/qsim/contrib/image"
)

func TestNewMaxPlus(t *testing.T) {
	testCases := []struct {
		a, b, c, d int
		want       MaxPlus
		energy     int
	}{
		{7, 2, 5, 1, MaxPlus{Res1: 4, Res2: 0, RegA: 1, RegD: 1}, 5},
		{0, 3, 0, 0, MaxPlus{Res1: -2, Res2: -2, RegA: 1, RegD: 0}, 5},
		{1, 0, 0, 1, MaxPlus{Res1: 0, Res2: 1, RegA: 0, RegD: 0}, 1},
		{10, 0, 0, 0, MaxPlus{Res1: 5, Res2: 5, RegA: 5, RegD: 0}, 15},
	}
	for _, tc := range testCases {
		got := NewMaxPlus(tc.a, tc.b, tc.c, tc.d)
		assert.Equal(t, tc.want, got, "(%d,%d,%d,%d)", tc.a, tc.b, tc.c, tc.d)
		assert.Equal(t, tc.energy, got.Energy())
	}
}

func TestEdgeMap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "edges.bmp")
	src := stdimage.NewGray(stdimage.Rect(0, 0, 4, 4))
	copy(src.Pix, []uint8{
		10, 0, 0, 3,
		0, 0, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 0,
	})
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, bmp.Encode(f, src))
	require.NoError(t, f.Close())

	s, err := EdgeMap(context.Background(), EdgeConfig{ImagePath: path, DataBits: 8}, zerolog.New(zerolog.NewTestWriter(t)))
	require.NoError(t, err)
	assert.Equal(t, 4, s.Width)
	assert.Equal(t, 4, s.Height)
	assert.Equal(t, 4, s.Blocks)
	assert.InDelta(t, 5.0, s.AvgEnergy, 1e-12)
	assert.Equal(t, 15, s.P90Energy)
	assert.Equal(t, filepath.Join(dir, "edges_edge_map.pgm"), s.EdgeMapPath)

	pgm, err := os.Open(s.EdgeMapPath)
	require.NoError(t, err)
	defer pgm.Close()
	m, err := image.ReadPGM(pgm)
	require.NoError(t, err)
	assert.Equal(t, []uint8{255, 255, 85, 85}, m.Row(0))
	assert.Equal(t, []uint8{255, 255, 85, 85}, m.Row(1))
	assert.Equal(t, []uint8{0, 0, 0, 0}, m.Row(3))
}

func TestEdgeMapErrors(t *testing.T) {
	_, err := EdgeMap(context.Background(), EdgeConfig{ImagePath: writeBMP(t, 4, 4), DataBits: 9}, zerolog.Nop())
	assert.Error(t, err)

	_, err = EdgeMap(context.Background(), EdgeConfig{ImagePath: writeBMP(t, 1, 3), DataBits: 4}, zerolog.Nop())
	assert.ErrorContains(t, err, "no 2x2 block")
}

func TestSummaryStatistics(t *testing.T) {
	assert.Equal(t, 4.0, percentile([]float64{5, 0, 3, 1, 4, 2}, 0.9))
	assert.Equal(t, 2.0, percentile([]float64{0, 1, 2, 3, 4}, 0.5))
	assert.Equal(t, 2.5, median([]float64{4, 1, 3, 2}))
	assert.Equal(t, 3.0, median([]float64{5, 3, 1}))
	assert.Equal(t, 9.0, topDecile([]float64{1, 9, 3}))
	assert.Equal(t, 10.0, topDecile([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}))
}
