// Package parallel provides balanced range splitting and row-parallel execution.
package parallel

import (
	"runtime"
	"sync"
)

// Range is a half-open row interval [Start, End).
type Range struct {
	Start, End int
}

// Len returns the number of items in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Bounds splits items into parts contiguous ranges whose lengths differ by
// at most one. The first items%parts ranges receive the extra item, so 10
// items in 3 parts yields lengths [4, 3, 3]. When parts > items the
// trailing ranges are empty. parts must be positive.
func Bounds(items, parts int) []Range {
	base, extra := items/parts, items%parts
	ranges := make([]Range, parts)
	start := 0
	for i := range ranges {
		size := base
		if i < extra {
			size++
		}
		ranges[i] = Range{Start: start, End: start + size}
		start += size
	}
	return ranges
}

// Parallelize splits items across the available CPU cores and runs fn on
// each non-empty range concurrently. It returns after every fn call has
// finished.
func Parallelize(items int, fn func(start, end int)) {
	if items == 0 {
		return
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}

	var wg sync.WaitGroup
	for _, r := range Bounds(items, numWorkers) {
		if r.Len() == 0 {
			continue
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(r.Start, r.End)
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs fn sequentially over [0, items) when items
// does not exceed threshold, and in parallel otherwise.
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, fn)
}
