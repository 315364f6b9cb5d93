package dctscale

import (
	"golang.org/x/sync/errgroup"
)

// parallelFor splits [0, n) into contiguous chunks, at most one per worker,
// and blocks until fn has returned for every chunk.
func parallelFor(n, workers int, fn func(start, end int) error) error {
	if n <= 0 {
		return nil
	}
	workers = min(workers, n)
	if workers <= 1 {
		return fn(0, n)
	}

	chunkSize := (n + workers - 1) / workers

	eg := new(errgroup.Group)
	eg.SetLimit(workers)
	for start := 0; start < n; start += chunkSize {
		start := start
		end := min(start+chunkSize, n)
		eg.Go(func() error {
			return fn(start, end)
		})
	}
	return eg.Wait()
}
