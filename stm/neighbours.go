package stm

import (
	"fmt"
	"sort"
)

// Neighbours6, Neighbours18, Neighbours26 are the preset connectivity
// stencils of spec.md §4.4, each including the zero offset as a
// self-inclusion safety measure. Order matches the reference
// implementation and is otherwise immaterial (the expander dedups and
// sorts its output).
var (
	Neighbours0 = [][3]int32{{0, 0, 0}}

	Neighbours6 = [][3]int32{
		{-1, 0, 0}, {0, -1, 0}, {0, 0, -1}, {0, 0, 1}, {0, 1, 0},
		{1, 0, 0}, {0, 0, 0},
	}

	Neighbours18 = [][3]int32{
		{-1, -1, 0}, {-1, 0, -1}, {-1, 0, 0}, {-1, 0, 1}, {-1, 1, 0},
		{0, -1, -1}, {0, -1, 0}, {0, -1, 1}, {0, 0, -1}, {0, 0, 1},
		{0, 1, -1}, {0, 1, 0}, {0, 1, 1}, {1, -1, 0}, {1, 0, -1},
		{1, 0, 0}, {1, 0, 1}, {1, 1, 0}, {0, 0, 0},
	}

	Neighbours26 = [][3]int32{
		{-1, -1, -1}, {-1, -1, 0}, {-1, -1, 1}, {-1, 0, -1}, {-1, 0, 0},
		{-1, 0, 1}, {-1, 1, -1}, {-1, 1, 0}, {-1, 1, 1}, {0, -1, -1},
		{0, -1, 0}, {0, -1, 1}, {0, 0, -1}, {0, 0, 1}, {0, 1, -1},
		{0, 1, 0}, {0, 1, 1}, {1, -1, -1}, {1, -1, 0}, {1, -1, 1},
		{1, 0, -1}, {1, 0, 0}, {1, 0, 1}, {1, 1, -1}, {1, 1, 0},
		{1, 1, 1}, {0, 0, 0},
	}
)

// stencilByPreset resolves a connectivity preset (0, 6, 18, 26) to its
// stencil, or reports a ConfigError for any other value.
func stencilByPreset(n int) ([][3]int32, error) {
	switch n {
	case 0:
		return Neighbours0, nil
	case 6:
		return Neighbours6, nil
	case 18:
		return Neighbours18, nil
	case 26:
		return Neighbours26, nil
	default:
		return nil, &ConfigError{Reason: fmt.Sprintf("unrecognized neighbour preset %d, want 0, 6, 18, or 26", n)}
	}
}

// expandNeighboursUniq inflates cells by every offset in stencil and
// returns the unique, lexicographically sorted result.
func expandNeighboursUniq(cells []Cell, stencil [][3]int32) ([]Cell, error) {
	seen := make(map[int64]Cell, len(cells)*len(stencil))
	for _, p := range cells {
		for _, d := range stencil {
			c := Cell{IX: p.IX + d[0], IY: p.IY + d[1], IZ: p.IZ + d[2]}
			key, err := encodeCell(c)
			if err != nil {
				return nil, err
			}
			if _, ok := seen[key]; !ok {
				seen[key] = c
			}
		}
	}

	keys := make([]int64, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	out := make([]Cell, len(keys))
	for i, k := range keys {
		out[i] = seen[k]
	}
	return out, nil
}
