// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package experiment runs the Haar transform over the 2×2 blocks of a
// grayscale image and compares simulated and classical block energies.
package experiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/chebxuan/2D-HAAR1/qsim"
	"github.com/chebxuan/2D-HAAR1/qsim/contrib/haar"
	"github.com/chebxuan/2D-HAAR1/qsim/contrib/image"
	"github.com/chebxuan/2D-HAAR1/qsim/contrib/readout"
	"github.com/chebxuan/2D-HAAR1/qsim/contrib/workerpool"
)

// Config describes one image experiment.
type Config struct {
	ImagePath string
	DataBits  int

	// MaxBlocks > 0 processes a seeded random sample of that many blocks.
	MaxBlocks int
	Seed      uint64

	// Shots > 0 reads each block from sampled shot counts, keeping the
	// most frequent outcome, instead of the exact distribution.
	Shots int

	Upsample bool
	Workers  int
	Backend  qsim.Backend

	// OutputDir defaults to the directory of ImagePath.
	OutputDir string
}

// Summary is written as <stem>_quantum_summary.json.
type Summary struct {
	RunID         string `json:"run_id"`
	Image         string `json:"image"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	BlockRows     int    `json:"block_rows"`
	BlockCols     int    `json:"block_cols"`
	TotalBlocks   int    `json:"total_blocks"`
	SampledBlocks int    `json:"sampled_blocks"`
	BitDepth      int    `json:"bit_depth"`
	Shots         int    `json:"shots"`

	AvgQuantumEnergy   float64 `json:"avg_quantum_energy"`
	P90QuantumEnergy   float64 `json:"p90_quantum_energy"`
	AvgClassicalEnergy float64 `json:"avg_classical_energy"`
	P90ClassicalEnergy float64 `json:"p90_classical_energy"`
	AvgRegD            float64 `json:"avg_reg_d"`
	Mismatches         int     `json:"mismatches"`

	MedianRuntimePerBlockSec float64 `json:"median_runtime_per_block_sec"`
	BlockRuntimeSec          float64 `json:"block_runtime_sec"`
	TotalRuntimeSec          float64 `json:"total_runtime_sec"`

	// Output files; empty when energy maps were skipped.
	SummaryPath      string `json:"-"`
	QuantumMapPath   string `json:"-"`
	ClassicalMapPath string `json:"-"`
}

type blockResult struct {
	quantum   haar.Coefficients
	classical haar.Coefficients
	runtime   time.Duration
}

// Run executes the experiment and writes its outputs.
func Run(ctx context.Context, cfg Config, log zerolog.Logger) (*Summary, error) {
	if err := (haar.Params{DataBits: cfg.DataBits}).Validate(); err != nil {
		return nil, err
	}
	f, err := os.Open(cfg.ImagePath)
	if err != nil {
		return nil, err
	}
	img, err := image.DecodeBMPGray(f)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.ImagePath, err)
	}
	if img.Width() < 2 || img.Height() < 2 {
		return nil, fmt.Errorf("%s: image %dx%d has no 2x2 block", cfg.ImagePath, img.Width(), img.Height())
	}

	all := image.Blocks(image.Quantize(img, cfg.DataBits))
	selected := all
	if cfg.MaxBlocks > 0 && cfg.MaxBlocks < len(all) {
		rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
		selected = make([]image.Block, cfg.MaxBlocks)
		for i, j := range rng.Perm(len(all))[:cfg.MaxBlocks] {
			selected[i] = all[j]
		}
	}

	runID := uuid.New().String()
	log = log.With().Str("component", "experiment").Str("run_id", runID).Logger()
	log.Info().
		Str("image", cfg.ImagePath).
		Int("total_blocks", len(all)).
		Int("sampled_blocks", len(selected)).
		Int("bit_depth", cfg.DataBits).
		Msg("Starting image experiment")

	start := time.Now()
	results, err := runBlocks(ctx, cfg, selected, log)
	if err != nil {
		return nil, err
	}
	total := time.Since(start)

	bw, bh := img.Width()/2, img.Height()/2
	s := summarize(cfg, results)
	s.RunID = runID
	s.Image = cfg.ImagePath
	s.Width, s.Height = img.Width(), img.Height()
	s.BlockRows, s.BlockCols = bh, bw
	s.TotalBlocks = len(all)
	s.SampledBlocks = len(selected)
	s.TotalRuntimeSec = total.Seconds()

	dir := cfg.OutputDir
	if dir == "" {
		dir = filepath.Dir(cfg.ImagePath)
	}
	stem := strings.TrimSuffix(filepath.Base(cfg.ImagePath), filepath.Ext(cfg.ImagePath))

	if len(selected) == len(all) {
		qmap := image.NewImage[int](bw, bh)
		cmap := image.NewImage[int](bw, bh)
		for i, b := range selected {
			qmap.Set(b.X, b.Y, int(results[i].quantum.Energy()))
			cmap.Set(b.X, b.Y, int(results[i].classical.Energy()))
		}
		s.QuantumMapPath = filepath.Join(dir, stem+"_quantum_energy.pgm")
		s.ClassicalMapPath = filepath.Join(dir, stem+"_classical_energy.pgm")
		if err := writeMap(s.QuantumMapPath, qmap, cfg.Upsample); err != nil {
			return nil, err
		}
		if err := writeMap(s.ClassicalMapPath, cmap, cfg.Upsample); err != nil {
			return nil, err
		}
		log.Info().
			Str("quantum", s.QuantumMapPath).
			Str("classical", s.ClassicalMapPath).
			Msg("Saved energy maps")
	} else {
		log.Info().Msg("Energy maps skipped in sampling mode, set max blocks to 0 for a full export")
	}

	s.SummaryPath = filepath.Join(dir, stem+"_quantum_summary.json")
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(s.SummaryPath, data, 0o644); err != nil {
		return nil, err
	}
	log.Info().
		Str("summary", s.SummaryPath).
		Float64("avg_quantum_energy", s.AvgQuantumEnergy).
		Int("mismatches", s.Mismatches).
		Dur("elapsed", total).
		Msg("Image experiment complete")
	return s, nil
}

// runBlocks simulates every block on the worker pool. Each block owns its
// state; results are stored by index.
func runBlocks(ctx context.Context, cfg Config, blocks []image.Block, log zerolog.Logger) ([]blockResult, error) {
	pool := workerpool.New(cfg.Workers)
	defer pool.Close()

	results := make([]blockResult, len(blocks))
	var done atomic.Int64
	every := int64(max(len(blocks)/10, 1))
	err := pool.TryEach(len(blocks), func(i int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		b := blocks[i]
		p := haar.Params{DataBits: cfg.DataBits, A: b.A, B: b.B, C: b.C, D: b.D}
		t0 := time.Now()
		q, err := simulateBlock(ctx, cfg, p, uint64(i))
		if err != nil {
			return fmt.Errorf("block (%d,%d): %w", b.X, b.Y, err)
		}
		results[i] = blockResult{quantum: q, classical: haar.Reference(p), runtime: time.Since(t0)}
		if c := done.Add(1); c%every == 0 {
			log.Debug().Int64("done", c).Int("blocks", len(blocks)).Msg("Blocks processed")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func simulateBlock(ctx context.Context, cfg Config, p haar.Params, index uint64) (haar.Coefficients, error) {
	pl, err := haar.Forward(p, haar.WithBackend(cfg.Backend))
	if err != nil {
		return haar.Coefficients{}, err
	}
	s, err := pl.Simulate(ctx)
	if err != nil {
		return haar.Coefficients{}, err
	}
	if cfg.Shots <= 0 {
		r, err := pl.Readout(s)
		if err != nil {
			return haar.Coefficients{}, err
		}
		return r.Outputs().Coefficients(), nil
	}
	counts := readout.NewSampler(cfg.Seed+index).Sample(pl.Histogram(s), cfg.Shots)
	bits, ok := readout.MostFrequent(counts)
	if !ok {
		return haar.Coefficients{}, errors.New("no shots recorded")
	}
	r, err := pl.Parse(bits)
	if err != nil {
		return haar.Coefficients{}, err
	}
	return r.Outputs().Coefficients(), nil
}

func summarize(cfg Config, results []blockResult) *Summary {
	n := len(results)
	quantum := make([]float64, n)
	classical := make([]float64, n)
	regD := make([]float64, n)
	runtimes := make([]float64, n)
	mismatches := 0
	for i, r := range results {
		quantum[i] = float64(r.quantum.Energy())
		classical[i] = float64(r.classical.Energy())
		regD[i] = float64(r.quantum.RegD)
		runtimes[i] = r.runtime.Seconds()
		if r.quantum != r.classical {
			mismatches++
		}
	}
	s := &Summary{
		BitDepth:           cfg.DataBits,
		Shots:              cfg.Shots,
		AvgQuantumEnergy:   stat.Mean(quantum, nil),
		AvgClassicalEnergy: stat.Mean(classical, nil),
		AvgRegD:            stat.Mean(regD, nil),
		BlockRuntimeSec:    floats.Sum(runtimes),
		Mismatches:         mismatches,
	}
	s.P90QuantumEnergy = percentile(quantum, 0.9)
	s.P90ClassicalEnergy = percentile(classical, 0.9)
	s.MedianRuntimePerBlockSec = median(runtimes)
	return s
}

// percentile returns the sample at rank (n-1)·q of the sorted values,
// rounding the rank half to even. x is sorted in place.
func percentile(x []float64, q float64) float64 {
	if len(x) == 0 {
		return 0
	}
	slices.Sort(x)
	i := int(math.RoundToEven(float64(len(x)-1) * q))
	return x[min(max(i, 0), len(x)-1)]
}

// median returns the middle value of x, or the mean of the two middle
// values for even lengths. x is sorted in place.
func median(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	slices.Sort(x)
	mid := len(x) / 2
	if len(x)%2 == 1 {
		return x[mid]
	}
	return stat.Mean(x[mid-1:mid+1], nil)
}

func writeMap(path string, energies *image.Image[int], upsample bool) error {
	m := image.Normalize(energies)
	if upsample {
		m = image.Upsample(m)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := image.WritePGM(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
