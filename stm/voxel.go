package stm

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Grid holds strictly increasing per-axis cell boundaries, length n+1.
type Grid struct {
	X, Y, Z []float64
}

// NewGrid builds a Grid with boundaries linearly spaced across box, with
// nx, ny, nz cells per axis.
func NewGrid(box AABB, nx, ny, nz int) Grid {
	return Grid{
		X: linspace(box.XMin, box.XMax, nx+1),
		Y: linspace(box.YMin, box.YMax, ny+1),
		Z: linspace(box.ZMin, box.ZMax, nz+1),
	}
}

func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + step*float64(i)
	}
	out[n-1] = hi
	return out
}

func (g Grid) bounds() [3][]float64 { return [3][]float64{g.X, g.Y, g.Z} }

// startCell locates the cell containing point, or returns ok=false if
// point lies outside the grid on any axis.
func (g Grid) startCell(point mgl64.Vec3) (cell Cell, ok bool) {
	bounds := g.bounds()
	idx := [3]int{}
	for axis := 0; axis < 3; axis++ {
		i := findBin(bounds[axis], point[axis])
		if i == -1 {
			return Cell{}, false
		}
		idx[axis] = i
	}
	return Cell{IX: int32(idx[0]), IY: int32(idx[1]), IZ: int32(idx[2])}, true
}

type axisCrossing struct {
	axis int
	t    float64
}

// directionalVoxelTraversal returns the ordered sequence of cells a ray
// starting at point and moving along unit dir crosses within grid,
// starting with the cell containing point.
func directionalVoxelTraversal(point, dir mgl64.Vec3, grid Grid) ([]Cell, error) {
	if dir.Len() == 0 {
		return nil, fmt.Errorf("stm: zero-length ray direction")
	}
	start, ok := grid.startCell(point)
	if !ok {
		return nil, fmt.Errorf("stm: ray starts outside grid bounds: point=%v", point)
	}

	bounds := grid.bounds()
	var axisTimes [3][]float64
	for axis := 0; axis < 3; axis++ {
		v := dir[axis]
		if v == 0 {
			continue
		}
		p := point[axis]
		times := make([]float64, 0, len(bounds[axis]))
		for _, b := range bounds[axis] {
			t := (b - p) / v
			if t > 0 {
				times = append(times, t)
			}
		}
		axisTimes[axis] = times
	}

	exitTime := make([]float64, 0, 3)
	for axis := 0; axis < 3; axis++ {
		if len(axisTimes[axis]) == 0 {
			continue
		}
		maxT := axisTimes[axis][0]
		for _, t := range axisTimes[axis][1:] {
			if t > maxT {
				maxT = t
			}
		}
		exitTime = append(exitTime, maxT)
	}
	if len(exitTime) == 0 {
		return []Cell{start}, nil
	}
	exit := exitTime[0]
	for _, t := range exitTime[1:] {
		if t < exit {
			exit = t
		}
	}

	var events []axisCrossing
	for axis := 0; axis < 3; axis++ {
		for _, t := range axisTimes[axis] {
			if t < exit {
				events = append(events, axisCrossing{axis: axis, t: t})
			}
		}
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].t < events[j].t })

	dirSign := [3]float64{sign(dir[0]), sign(dir[1]), sign(dir[2])}

	out := make([]Cell, 0, len(events)+1)
	out = append(out, start)
	cell := start
	for _, ev := range events {
		switch ev.axis {
		case 0:
			cell.IX += int32(dirSign[0])
		case 1:
			cell.IY += int32(dirSign[1])
		case 2:
			cell.IZ += int32(dirSign[2])
		}
		out = append(out, cell)
	}
	return out, nil
}
