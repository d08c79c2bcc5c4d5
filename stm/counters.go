package stm

import (
	"fmt"
	"sort"
	"strings"
)

// Counters tallies per-run statistics surfaced by the pipeline
// orchestrator (spec.md §2.9, §7). It holds no behavior of its own; the
// pipeline mutates it as each stage runs.
type Counters struct {
	ValidRaysByCamera  map[int32]int
	MissedRaysByCamera map[int32]int

	CellsAfterExpansion  int
	GroupsKept           int
	CandidatesGenerated  int
	CandidatesDeduped    int
	DegenerateCandidates int
	ApprovedMatches      int
}

func newCounters() *Counters {
	return &Counters{
		ValidRaysByCamera:  make(map[int32]int),
		MissedRaysByCamera: make(map[int32]int),
	}
}

// PrometheusText renders the counters in a minimal Prometheus text
// exposition format, suitable for scraping or appending to a log.
func (c *Counters) PrometheusText() string {
	var b strings.Builder
	writeGauge := func(name string, byCam map[int32]int) {
		fmt.Fprintf(&b, "# TYPE %s gauge\n", name)
		cams := make([]int32, 0, len(byCam))
		for cam := range byCam {
			cams = append(cams, cam)
		}
		sort.Slice(cams, func(i, j int) bool { return cams[i] < cams[j] })
		for _, cam := range cams {
			fmt.Fprintf(&b, "%s{camera=\"%d\"} %d\n", name, cam, byCam[cam])
		}
	}
	writeGauge("stm_valid_rays", c.ValidRaysByCamera)
	writeGauge("stm_missed_rays", c.MissedRaysByCamera)

	fmt.Fprintf(&b, "# TYPE stm_cells_after_expansion gauge\nstm_cells_after_expansion %d\n", c.CellsAfterExpansion)
	fmt.Fprintf(&b, "# TYPE stm_groups_kept gauge\nstm_groups_kept %d\n", c.GroupsKept)
	fmt.Fprintf(&b, "# TYPE stm_candidates_generated gauge\nstm_candidates_generated %d\n", c.CandidatesGenerated)
	fmt.Fprintf(&b, "# TYPE stm_candidates_deduped gauge\nstm_candidates_deduped %d\n", c.CandidatesDeduped)
	fmt.Fprintf(&b, "# TYPE stm_degenerate_candidates gauge\nstm_degenerate_candidates %d\n", c.DegenerateCandidates)
	fmt.Fprintf(&b, "# TYPE stm_approved_matches gauge\nstm_approved_matches %d\n", c.ApprovedMatches)
	return b.String()
}
