package stm

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// RayKey uniquely identifies one input ray by the camera that produced it.
type RayKey struct {
	CamID, RayID int32
}

// Ray is one detected 2D particle's projection into the shared 3D volume.
type Ray struct {
	CamID, RayID int32
	Origin       mgl64.Vec3
	Direction    mgl64.Vec3
}

func (r Ray) Key() RayKey { return RayKey{CamID: r.CamID, RayID: r.RayID} }

// ClippedRay is a Ray after AABB projection: either its unmodified origin
// (if inside the box) or its entry point on the box surface, plus a unit
// direction.
type ClippedRay struct {
	Key        RayKey
	Inside     bool
	EntryPoint mgl64.Vec3
	UnitDir    mgl64.Vec3
}

// RayDB maps a RayKey to its clipped geometry. Read-only after buildRayDB.
type RayDB map[RayKey]ClippedRay

// Cell is an integer grid index.
type Cell struct {
	IX, IY, IZ int32
}

// CellRay associates a traversed cell with the ray that crossed it.
type CellRay struct {
	Cell Cell
	Key  RayKey
}

// CandidateKey is a sorted, deduplicated set of RayKeys from distinct
// cameras proposed as one 3D particle.
type CandidateKey []RayKey

func newCandidateKey(keys []RayKey) CandidateKey {
	out := append(CandidateKey(nil), keys...)
	sort.Slice(out, func(i, j int) bool { return rayKeyLess(out[i], out[j]) })
	return out
}

func rayKeyLess(a, b RayKey) bool {
	if a.CamID != b.CamID {
		return a.CamID < b.CamID
	}
	return a.RayID < b.RayID
}

// encode returns a deterministic string encoding used as a dedup/sort key.
func (k CandidateKey) encode() string {
	buf := make([]byte, 0, len(k)*8)
	for _, rk := range k {
		buf = append(buf,
			byte(rk.CamID>>24), byte(rk.CamID>>16), byte(rk.CamID>>8), byte(rk.CamID),
			byte(rk.RayID>>24), byte(rk.RayID>>16), byte(rk.RayID>>8), byte(rk.RayID),
		)
	}
	return string(buf)
}

func (k CandidateKey) less(other CandidateKey) bool {
	for i := 0; i < len(k) && i < len(other); i++ {
		if k[i] != other[i] {
			return rayKeyLess(k[i], other[i])
		}
	}
	return len(k) < len(other)
}

// ScoredCandidate is a CandidateKey with its triangulated position and
// residual. ApprovedMatch is the same shape after admission.
type ScoredCandidate struct {
	Key      CandidateKey
	Position mgl64.Vec3
	Residual float64
}

// ApprovedMatch is a ScoredCandidate accepted by the approval stage.
type ApprovedMatch = ScoredCandidate
