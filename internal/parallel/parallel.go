// Package parallel runs independent chunks of work on a bounded set of
// goroutines.
package parallel

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled    bool // Whether parallel execution is enabled.
	NumWorkers int  // Number of worker goroutines to use.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:    n > 1,
		NumWorkers: n,
	}
}

// Workers returns how many goroutines ForChunks starts for n items split into
// chunks of chunkSize. Callers use it to size per-worker state.
func (c Config) Workers(n, chunkSize int) int {
	chunks := numChunks(n, chunkSize)
	if !c.Enabled || c.NumWorkers < 2 || chunks < 2 {
		return 1
	}
	return min(c.NumWorkers, chunks)
}

func numChunks(n, chunkSize int) int {
	if n <= 0 || chunkSize <= 0 {
		return 0
	}
	return (n + chunkSize - 1) / chunkSize
}

// ForChunks calls f for every chunk [start, end) of [0, n). Each worker is
// identified by an index in [0, cfg.Workers(n, chunkSize)) and processes its
// chunks sequentially, so f may keep per-worker state without locking. The
// chunk index passed to f is start/chunkSize.
//
// The first error cancels ctx for the remaining chunks and is returned.
func ForChunks(ctx context.Context, n, chunkSize int, cfg Config,
	f func(ctx context.Context, worker, chunk, start, end int) error,
) error {
	chunks := numChunks(n, chunkSize)
	workers := cfg.Workers(n, chunkSize)

	g, ctx := errgroup.WithContext(ctx)
	var next atomic.Int64
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			for {
				c := int(next.Add(1) - 1)
				if c >= chunks {
					return nil
				}
				if err := ctx.Err(); err != nil {
					return err
				}
				start := c * chunkSize
				end := min(start+chunkSize, n)
				if err := f(ctx, w, c, start, end); err != nil {
					return err
				}
			}
		})
	}
	return g.Wait()
}
