// Package parallel fans element-wise matrix kernels out over row ranges.
package parallel

import (
	"sync"

	"github.com/born-ml/mlp/internal/envconfig"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled     bool // Whether parallel execution is enabled.
	NumWorkers  int  // Number of worker goroutines to use.
	MinElements int  // Below this many elements the kernel runs on the caller's goroutine.
}

// DefaultConfig returns defaults derived from MLP_NUM_THREADS.
func DefaultConfig() Config {
	n := max(int(envconfig.NumThreads()), 1)
	return Config{
		Enabled:     n > 1,
		NumWorkers:  n,
		MinElements: 1 << 14,
	}
}

// Rows calls f(start, end) over disjoint row ranges covering [0, rows).
//
// cols is only used to estimate the amount of work; small matrices run
// sequentially in a single call f(0, rows). f must only write to rows in
// its own range.
func Rows(rows, cols int, f func(start, end int), cfg Config) {
	if rows <= 0 {
		return
	}
	if !cfg.Enabled || cfg.NumWorkers < 2 || rows < 2 || rows*cols < cfg.MinElements {
		f(0, rows)
		return
	}

	workers := min(cfg.NumWorkers, rows)
	chunk := (rows + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < rows; start += chunk {
		end := min(start+chunk, rows)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			f(s, e)
		}(start, end)
	}
	wg.Wait()
}
