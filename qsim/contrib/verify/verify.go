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

// Package verify checks the forward Haar transform against its classical
// reference over every input of a given width.
package verify

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/chebxuan/2D-HAAR1/qsim"
	"github.com/chebxuan/2D-HAAR1/qsim/contrib/haar"
)

// Options configures Exhaustive.
type Options struct {
	// Workers bounds the number of concurrent simulations. Zero means
	// GOMAXPROCS.
	Workers int

	Backend qsim.Backend

	// Logger receives progress. Nil disables logging.
	Logger *zerolog.Logger

	// ProgressEvery logs progress after this many cases. Zero logs every
	// tenth of the run.
	ProgressEvery int
}

// MismatchError reports an input whose simulated coefficients differ from
// the reference.
type MismatchError struct {
	Params haar.Params
	Want   haar.Coefficients
	Got    haar.Coefficients
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("verify: %s: got %+v, want %+v", e.Params, e.Got, e.Want)
}

// Report summarizes a successful run.
type Report struct {
	DataBits int
	Cases    int
	Elapsed  time.Duration
}

// Cases yields every (a, b, c, d) in [0, 2^n)^4, a varying slowest.
func Cases(n int) iter.Seq[haar.Params] {
	return func(yield func(haar.Params) bool) {
		m := 1 << n
		for a := range m {
			for b := range m {
				for c := range m {
					for d := range m {
						if !yield(haar.Params{DataBits: n, A: a, B: b, C: c, D: d}) {
							return
						}
					}
				}
			}
		}
	}
}

// Exhaustive simulates every input of width n, each on its own state, and
// compares the coefficients with haar.Reference. The first failure cancels
// the remaining cases; a coefficient mismatch is returned as a
// *MismatchError.
func Exhaustive(ctx context.Context, n int, opts Options) (Report, error) {
	if err := (haar.Params{DataBits: n}).Validate(); err != nil {
		return Report{}, err
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	total := 1 << (4 * n)
	every := opts.ProgressEvery
	if every <= 0 {
		every = max(total/10, 1)
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	log = log.With().Str("component", "verify").Int("data_bits", n).Logger()
	log.Info().Int("cases", total).Int("workers", workers).Msg("Starting exhaustive verification")

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	var done atomic.Int64
	for p := range Cases(n) {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			out, err := haar.RunForward(gctx, p, haar.WithBackend(opts.Backend))
			if err != nil {
				return fmt.Errorf("verify: %s: %w", p, err)
			}
			if want, got := haar.Reference(p), out.Coefficients(); want != got {
				return &MismatchError{Params: p, Want: want, Got: got}
			}
			if c := done.Add(1); c%int64(every) == 0 {
				log.Info().
					Int64("done", c).
					Int("cases", total).
					Dur("elapsed", time.Since(start)).
					Msg("Verification progress")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		var mismatch *MismatchError
		if errors.As(err, &mismatch) {
			log.Error().Str("params", mismatch.Params.String()).Msg("Coefficient mismatch")
		}
		return Report{}, err
	}
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	r := Report{DataBits: n, Cases: total, Elapsed: time.Since(start)}
	log.Info().Dur("elapsed", r.Elapsed).Msg("Exhaustive verification passed")
	return r, nil
}
