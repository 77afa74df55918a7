// Singwise - Karaoke Song Recommendations from Listening History
// Copyright 2026 Singwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/singwise/singwise

package match

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/singwise/singwise/internal/metrics"
)

// maxDefaultWorkers caps the default pool size; matching is CPU-bound and
// more workers than cores buy nothing.
const maxDefaultWorkers = 8

// BatchResult summarizes one batch match run.
type BatchResult struct {
	// Results holds one entry per input, in input order.
	Results []Result

	// Matched is the number of inputs that resolved.
	Matched int

	// Skipped is the number of inputs rejected before matching.
	Skipped int
}

// MatchBatch resolves inputs concurrently with a bounded worker pool.
// Results preserve input order. The context cancels outstanding work;
// inputs not processed before cancellation come back unmatched.
func (m *Matcher) MatchBatch(ctx context.Context, inputs []Input, workers int) BatchResult {
	start := time.Now()
	defer func() { metrics.RecordMatchBatch(time.Since(start)) }()

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
		if workers > maxDefaultWorkers {
			workers = maxDefaultWorkers
		}
	}
	if workers > len(inputs) {
		workers = len(inputs)
	}

	results := make([]Result, len(inputs))
	if len(inputs) == 0 {
		return BatchResult{Results: results}
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = m.Match(inputs[i])
			}
		}()
	}

dispatch:
	for i := range inputs {
		select {
		case jobs <- i:
		case <-ctx.Done():
			// Remaining inputs stay unmatched.
			for j := i; j < len(inputs); j++ {
				results[j] = Result{Input: inputs[j]}
			}
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	out := BatchResult{Results: results}
	for _, r := range results {
		switch {
		case r.Skipped:
			out.Skipped++
		case r.Matched():
			out.Matched++
		}
	}
	return out
}
