package stm

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB is an axis-aligned bounding box, [min,max] per axis.
type AABB struct {
	XMin, XMax float64
	YMin, YMax float64
	ZMin, ZMax float64
}

// Valid reports whether every axis has min strictly less than max.
func (b AABB) Valid() bool {
	return b.XMin < b.XMax && b.YMin < b.YMax && b.ZMin < b.ZMax
}

// specialDivision divides a by b, returning -Inf instead of NaN/Inf sign
// ambiguity when b is zero, so a zero-length ray direction component can
// never be selected as the earliest face hit.
func specialDivision(a, b float64) float64 {
	if b == 0 {
		return math.Inf(-1)
	}
	return a / b
}

func atFace(lo, hi, v float64) bool {
	return lo <= v && v <= hi
}

// clippedEntry is the result of projecting a ray onto an AABB.
type clippedEntry struct {
	Hit     bool
	Inside  bool
	Point   mgl64.Vec3
	UnitDir mgl64.Vec3
}

// prepareRay clips ray (origin, dir) to box, classifying it as missing,
// starting inside, or entering through one of the six faces. dir need not
// be unit length; the returned UnitDir always is.
func prepareRay(origin, dir mgl64.Vec3, box AABB) clippedEntry {
	unit := normalizeVec3(dir)
	x, y, z := origin[0], origin[1], origin[2]
	vx, vy, vz := unit[0], unit[1], unit[2]

	if box.XMin < x && x < box.XMax && box.YMin < y && y < box.YMax && box.ZMin < z && z < box.ZMax {
		return clippedEntry{Hit: true, Inside: true, Point: origin, UnitDir: unit}
	}

	// Six candidate face-intersection times, in a fixed iteration order:
	// xmin, xmax, ymin, ymax, zmin, zmax.
	times := [6]float64{
		specialDivision(box.XMin-x, vx),
		specialDivision(box.XMax-x, vx),
		specialDivision(box.YMin-y, vy),
		specialDivision(box.YMax-y, vy),
		specialDivision(box.ZMin-z, vz),
		specialDivision(box.ZMax-z, vz),
	}

	bestIdx := -1
	var bestT float64
	var bestPoint mgl64.Vec3
	for i, t := range times {
		if math.IsInf(t, 0) {
			continue
		}
		p := mgl64.Vec3{x + vx*t, y + vy*t, z + vz*t}

		var onFace bool
		switch i {
		case 0, 1: // x faces: check y,z in range
			onFace = atFace(box.YMin, box.YMax, p[1]) && atFace(box.ZMin, box.ZMax, p[2])
		case 2, 3: // y faces: check x,z in range
			onFace = atFace(box.XMin, box.XMax, p[0]) && atFace(box.ZMin, box.ZMax, p[2])
		case 4, 5: // z faces: check x,y in range
			onFace = atFace(box.XMin, box.XMax, p[0]) && atFace(box.YMin, box.YMax, p[1])
		}
		if !onFace {
			continue
		}
		if bestIdx == -1 || t < bestT {
			bestIdx, bestT, bestPoint = i, t, p
		}
	}

	if bestIdx == -1 {
		return clippedEntry{Hit: false, UnitDir: unit}
	}
	return clippedEntry{Hit: true, Inside: false, Point: bestPoint, UnitDir: unit}
}
