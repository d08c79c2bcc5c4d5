package stm

import (
	"runtime"
	"sync"
)

// computeCellRays traverses every valid ray through grid, expands each
// ray's cell list by stencil, and flattens the result to (cell, RayKey)
// pairs (spec.md §4.3/§4.4/§4.5). Rays with Inside=true are traversed in
// both the forward and backward direction, matching the reference
// implementation's handling of rays that start mid-volume. The traversal
// is embarrassingly parallel per spec.md §5: work is split into
// contiguous chunks across GOMAXPROCS workers, then concatenated back in
// ray order so results are deterministic regardless of worker count.
func computeCellRays(valid []ClippedRay, grid Grid, stencil [][3]int32) ([]CellRay, error) {
	n := len(valid)
	if n == 0 {
		return nil, nil
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	chunks := make([][]CellRay, workers)
	errs := make([]error, workers)

	chunkSize := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunkSize
		hi := lo + chunkSize
		if lo >= n {
			break
		}
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			var out []CellRay
			for _, ray := range valid[lo:hi] {
				cells, err := traverseOneRay(ray, grid, stencil)
				if err != nil {
					errs[w] = err
					return
				}
				for _, c := range cells {
					out = append(out, CellRay{Cell: c, Key: ray.Key})
				}
			}
			chunks[w] = out
		}(w, lo, hi)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	var total int
	for _, c := range chunks {
		total += len(c)
	}
	result := make([]CellRay, 0, total)
	for _, c := range chunks {
		result = append(result, c...)
	}
	return result, nil
}

func traverseOneRay(ray ClippedRay, grid Grid, stencil [][3]int32) ([]Cell, error) {
	var raw []Cell
	forward, err := directionalVoxelTraversal(ray.EntryPoint, ray.UnitDir, grid)
	if err != nil {
		return nil, err
	}
	raw = append(raw, forward...)

	if ray.Inside {
		backward, err := directionalVoxelTraversal(ray.EntryPoint, ray.UnitDir.Mul(-1), grid)
		if err != nil {
			return nil, err
		}
		raw = append(raw, backward...)
	}

	return expandNeighboursUniq(raw, stencil)
}
