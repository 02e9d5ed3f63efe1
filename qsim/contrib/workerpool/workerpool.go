// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool provides a persistent worker pool shared by the dense
// amplitude kernels and by drivers that simulate many independent circuits.
//
// A gate applied to a dense state of 2^m amplitudes splits into independent
// updates over disjoint index groups. The pool runs those groups on its
// workers and returns only when all of them are done, so every call is a
// barrier: the next gate never observes a partially updated state.
//
// Usage:
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	for _, g := range gates {
//	    pool.ParallelFor(groups, func(start, end int) {
//	        applyGroups(g, start, end)
//	    })
//	}
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a persistent worker pool. Workers are spawned once at creation and
// reused by every ParallelFor call until Close.
type Pool struct {
	numWorkers int
	workC      chan workItem
	closeOnce  sync.Once
	closed     atomic.Bool
}

type workItem struct {
	fn      func()
	barrier *sync.WaitGroup
}

// New creates a pool with numWorkers workers.
// If numWorkers <= 0, uses GOMAXPROCS.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		workC:      make(chan workItem, numWorkers*2),
	}
	for range numWorkers {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for item := range p.workC {
		item.fn()
		item.barrier.Done()
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close shuts down the pool. Pending work completes first.
// Calling Close multiple times is safe.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.workC)
	})
}

// fanOut reports how many workers a loop over n items should use, or 0 when
// it should run inline on the caller's goroutine.
func (p *Pool) fanOut(n int) int {
	if p == nil || p.closed.Load() {
		return 0
	}
	if w := min(p.numWorkers, n); w > 1 {
		return w
	}
	return 0
}

// dispatch runs task(w) for w in [0, workers) on the pool and waits for all
// of them.
func (p *Pool) dispatch(workers int, task func(w int)) {
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := range workers {
		p.workC <- workItem{fn: func() { task(w) }, barrier: &wg}
	}
	wg.Wait()
}

// ParallelFor splits [0, n) into one contiguous chunk per worker and calls
// fn(start, end) for each chunk. It blocks until every chunk is done.
// A nil or closed pool runs fn(0, n) on the caller's goroutine.
func (p *Pool) ParallelFor(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	workers := p.fanOut(n)
	if workers == 0 {
		fn(0, n)
		return
	}
	chunk := (n + workers - 1) / workers
	p.dispatch(workers, func(w int) {
		if start := w * chunk; start < n {
			fn(start, min(start+chunk, n))
		}
	})
}

// ParallelForAtomic calls fn(i) for every i in [0, n), handing indices out
// one at a time so that uneven work (one circuit simulation per index, say)
// balances across workers. It blocks until all indices are processed.
func (p *Pool) ParallelForAtomic(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	workers := p.fanOut(n)
	if workers == 0 {
		for i := range n {
			fn(i)
		}
		return
	}
	var next atomic.Int64
	p.dispatch(workers, func(int) {
		for i := int(next.Add(1)) - 1; i < n; i = int(next.Add(1)) - 1 {
			fn(i)
		}
	})
}

// TryEach calls fn(i) for every i in [0, n) like ParallelForAtomic, but
// stops handing out indices once a call fails and returns the first error.
// Calls already running finish.
func (p *Pool) TryEach(n int, fn func(i int) error) error {
	var (
		once     sync.Once
		firstErr error
		failed   atomic.Bool
	)
	p.ParallelForAtomic(n, func(i int) {
		if failed.Load() {
			return
		}
		if err := fn(i); err != nil {
			once.Do(func() { firstErr = err })
			failed.Store(true)
		}
	})
	return firstErr
}
