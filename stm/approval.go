package stm

import "sort"

// approve runs the greedy admission pass of spec.md §4.8: candidates are
// ordered by descending camera count then ascending residual, and a
// candidate is admitted only if its residual is below maxDistance and
// none of its RayKeys have already reached maxMatchesPerRay admissions.
func approve(candidates []ScoredCandidate, maxDistance float64, maxMatchesPerRay int) []ApprovedMatch {
	ordered := append([]ScoredCandidate(nil), candidates...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if len(ordered[i].Key) != len(ordered[j].Key) {
			return len(ordered[i].Key) > len(ordered[j].Key)
		}
		return ordered[i].Residual < ordered[j].Residual
	})

	matchCount := make(map[RayKey]int)
	approved := make([]ApprovedMatch, 0, len(ordered))

	for _, cand := range ordered {
		if cand.Residual >= maxDistance {
			continue
		}
		fits := true
		for _, rk := range cand.Key {
			if matchCount[rk] >= maxMatchesPerRay {
				fits = false
				break
			}
		}
		if !fits {
			continue
		}
		for _, rk := range cand.Key {
			matchCount[rk]++
		}
		approved = append(approved, cand)
	}
	return approved
}
