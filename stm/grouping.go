package stm

import "sort"

// cellGroup is the per-camera bucketing of the rays that share one kept
// cell (spec.md §4.6 step 4): group[i] holds every RayKey from the i-th
// distinct camera present in the cell.
type cellGroup [][]RayKey

// cellRow pairs a CellRay with its packed cell key for sorting.
type cellRow struct {
	key int64
	cr  CellRay
}

// groupByCellCam sorts cellRays by cell key, partitions them into maximal
// equal-key runs, keeps runs with at least camMatch rays from at least
// camMatch distinct cameras, and buckets each kept run by camera.
func groupByCellCam(cellRays []CellRay, camMatch int) ([]cellGroup, error) {
	rows := make([]cellRow, len(cellRays))
	for i, cr := range cellRays {
		k, err := encodeCell(cr.Cell)
		if err != nil {
			return nil, err
		}
		rows[i] = cellRow{key: k, cr: cr}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].key < rows[j].key })

	var groups []cellGroup
	start := 0
	for start < len(rows) {
		end := start + 1
		for end < len(rows) && rows[end].key == rows[start].key {
			end++
		}
		if g, ok := buildKeptGroup(rows[start:end], camMatch); ok {
			groups = append(groups, g)
		}
		start = end
	}
	return groups, nil
}

func buildKeptGroup(run []cellRow, camMatch int) (cellGroup, bool) {
	if len(run) < camMatch {
		return nil, false
	}

	byCam := make(map[int32][]RayKey)
	for _, r := range run {
		cam := r.cr.Key.CamID
		byCam[cam] = append(byCam[cam], r.cr.Key)
	}
	if len(byCam) < camMatch {
		return nil, false
	}

	cams := make([]int32, 0, len(byCam))
	for cam := range byCam {
		cams = append(cams, cam)
	}
	sort.Slice(cams, func(i, j int) bool { return cams[i] < cams[j] })

	group := make(cellGroup, len(cams))
	for i, cam := range cams {
		group[i] = byCam[cam]
	}
	return group, true
}
