// Package parallel provides row-chunk helpers for data-parallel loops over
// sample matrices. Callers pass a closure that handles a half-open row range;
// the helpers only split disjoint ranges, so the closure must not touch rows
// outside [start, end).
package parallel

import (
	"runtime"
	"sync"
)

// chunkRange is one worker's half-open slice of the item range.
type chunkRange struct {
	start, end int
}

// splitRange divides items into at most workers disjoint contiguous chunks.
func splitRange(items, workers int) []chunkRange {
	if workers > items {
		workers = items
	}
	// Ceiling division so the last chunk is never oversized
	size := (items + workers - 1) / workers

	chunks := make([]chunkRange, 0, workers)
	for start := 0; start < items; start += size {
		end := start + size
		if end > items {
			end = items
		}
		chunks = append(chunks, chunkRange{start: start, end: end})
	}
	return chunks
}

// Parallelize runs fn over [0, items) split across one goroutine per CPU core
// and blocks until every chunk has finished.
func Parallelize(items int, fn func(start, end int)) {
	if items <= 0 {
		return
	}

	chunks := splitRange(items, runtime.NumCPU())
	if len(chunks) == 1 {
		fn(0, items)
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(chunks))
	for _, c := range chunks {
		go func(c chunkRange) {
			defer wg.Done()
			fn(c.start, c.end)
		}(c)
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs fn sequentially when items is at or below
// threshold, and via Parallelize otherwise. Decoding calls are usually small
// (a searchlight neighborhood is a few hundred rows at most), so a generous
// threshold keeps them on the calling goroutine and fully deterministic.
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, fn)
}
