package field

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ParallelFor runs fn over [0, n) split into contiguous chunks of at least
// minChunk items, with at most workers chunks in flight. Ranges at or below
// minChunk run on the calling goroutine. fn must only touch indices inside
// its own range.
func ParallelFor(ctx context.Context, n, minChunk, workers int, fn func(start, end int)) error {
	if n <= 0 {
		return ctx.Err()
	}
	if n <= minChunk || workers <= 1 {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(0, n)
		return nil
	}

	chunks := workers
	if n/minChunk < chunks {
		chunks = n / minChunk
	}
	if chunks < 1 {
		chunks = 1
	}
	size := (n + chunks - 1) / chunks

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < n; start += size {
		end := min(start+size, n)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(start, end)
			return nil
		})
	}
	return g.Wait()
}
