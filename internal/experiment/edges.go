// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package experiment

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/chebxuan/2D-HAAR1/qsim/contrib/haar"
	"github.com/chebxuan/2D-HAAR1/qsim/contrib/image"
)

// EdgeConfig describes a classical max-plus edge map run.
type EdgeConfig struct {
	ImagePath string
	DataBits  int

	// OutputDir defaults to the directory of ImagePath.
	OutputDir string
}

// EdgeSummary reports a max-plus edge map run.
type EdgeSummary struct {
	Image       string  `json:"image"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	BitDepth    int     `json:"bit_depth"`
	Blocks      int     `json:"blocks"`
	AvgEnergy   float64 `json:"avg_energy"`
	P90Energy   int     `json:"p90_energy"`
	EdgeMapPath string  `json:"edge_map_path"`
	LoadTimeSec float64 `json:"load_time_sec"`
	TotalSec    float64 `json:"total_time_sec"`
}

// MaxPlus is the signed block decomposition with floor division and no
// modulus: the integer counterpart of the reversible transform.
type MaxPlus struct {
	Res1, Res2, RegA, RegD int
}

// NewMaxPlus decomposes one block.
func NewMaxPlus(a, b, c, d int) MaxPlus {
	return MaxPlus{
		Res1: ((a - b) + (c - d)) >> 1,
		Res2: ((a - b) - (c - d)) >> 1,
		RegA: ((a + b) - (c + d)) >> 1,
		RegD: min(a, b, c, d),
	}
}

// Energy returns |Res1| + |Res2| + |RegA|.
func (m MaxPlus) Energy() int {
	return abs(m.Res1) + abs(m.Res2) + abs(m.RegA)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// EdgeMap computes the max-plus energy of every 2x2 block of a BMP image and
// writes it as <stem>_edge_map.pgm, normalized to 255 and upsampled to the
// image size.
func EdgeMap(ctx context.Context, cfg EdgeConfig, log zerolog.Logger) (*EdgeSummary, error) {
	if err := (haar.Params{DataBits: cfg.DataBits}).Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	f, err := os.Open(cfg.ImagePath)
	if err != nil {
		return nil, err
	}
	img, err := image.DecodeBMPGray(f)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.ImagePath, err)
	}
	loaded := time.Since(start)
	if img.Width() < 2 || img.Height() < 2 {
		return nil, fmt.Errorf("%s: image %dx%d has no 2x2 block", cfg.ImagePath, img.Width(), img.Height())
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	blocks := image.Blocks(image.Quantize(img, cfg.DataBits))
	energies := image.NewImage[int](img.Width()/2, img.Height()/2)
	flat := make([]float64, len(blocks))
	for i, b := range blocks {
		e := NewMaxPlus(b.A, b.B, b.C, b.D).Energy()
		energies.Set(b.X, b.Y, e)
		flat[i] = float64(e)
	}

	dir := cfg.OutputDir
	if dir == "" {
		dir = filepath.Dir(cfg.ImagePath)
	}
	stem := strings.TrimSuffix(filepath.Base(cfg.ImagePath), filepath.Ext(cfg.ImagePath))
	path := filepath.Join(dir, stem+"_edge_map.pgm")
	if err := writeMap(path, energies, true); err != nil {
		return nil, err
	}

	s := &EdgeSummary{
		Image:       cfg.ImagePath,
		Width:       img.Width(),
		Height:      img.Height(),
		BitDepth:    cfg.DataBits,
		Blocks:      len(blocks),
		AvgEnergy:   stat.Mean(flat, nil),
		P90Energy:   int(topDecile(flat)),
		EdgeMapPath: path,
		LoadTimeSec: loaded.Seconds(),
		TotalSec:    time.Since(start).Seconds(),
	}
	log.Info().
		Str("image", cfg.ImagePath).
		Int("blocks", s.Blocks).
		Float64("avg_energy", s.AvgEnergy).
		Int("p90_energy", s.P90Energy).
		Str("edge_map", path).
		Msg("Max-plus edge map complete")
	return s, nil
}

// topDecile returns the value at index ⌊n/10⌋ of x sorted in descending
// order. x is reordered.
func topDecile(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	slices.Sort(x)
	slices.Reverse(x)
	return x[len(x)/10]
}
