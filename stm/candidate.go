package stm

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// generateCandidates takes the Cartesian product of each kept group's
// per-camera ray lists (spec.md §4.7), merges in any caller-supplied seed
// candidates, deduplicates globally, and returns the result sorted
// lexicographically by RayKey.
func generateCandidates(groups []cellGroup, seeds []CandidateKey) []CandidateKey {
	seen := make(map[string]CandidateKey)

	add := func(keys []RayKey) {
		ck := newCandidateKey(keys)
		seen[ck.encode()] = ck
	}

	for _, group := range groups {
		cartesianProduct(group, add)
	}
	for _, s := range seeds {
		add(s)
	}

	out := make([]CandidateKey, 0, len(seen))
	for _, ck := range seen {
		out = append(out, ck)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].less(out[j]) })
	return out
}

// cartesianProduct calls emit once per combination picking exactly one
// RayKey from each camera's list in group.
func cartesianProduct(group cellGroup, emit func([]RayKey)) {
	if len(group) == 0 {
		return
	}
	combo := make([]RayKey, len(group))
	var recurse func(i int)
	recurse = func(i int) {
		if i == len(group) {
			emit(append([]RayKey(nil), combo...))
			return
		}
		for _, key := range group[i] {
			combo[i] = key
			recurse(i + 1)
		}
	}
	recurse(0)
}

// scoreCandidates triangulates each candidate (spec.md §4.1/§4.7). A
// candidate whose rays yield a singular or near-parallel geometry is
// silently dropped (DegenerateGeometry, spec.md §7) and counted.
func scoreCandidates(keys []CandidateKey, db RayDB, counters *Counters) []ScoredCandidate {
	out := make([]ScoredCandidate, 0, len(keys))
	for _, key := range keys {
		points := make([]mgl64.Vec3, len(key))
		dirs := make([]mgl64.Vec3, len(key))
		missing := false
		for i, rk := range key {
			cr, ok := db[rk]
			if !ok {
				missing = true
				break
			}
			points[i] = cr.EntryPoint
			dirs[i] = cr.UnitDir
		}
		if missing {
			continue
		}

		var pos mgl64.Vec3
		var residual float64
		var ok bool
		if len(key) == 2 {
			pos, residual, ok = closestPointPair(points[0], dirs[0], points[1], dirs[1])
		} else {
			pos, residual, ok = closestPointMany(points, dirs)
		}
		if !ok {
			counters.DegenerateCandidates++
			continue
		}
		out = append(out, ScoredCandidate{Key: key, Position: pos, Residual: residual})
	}
	return out
}
