package stm

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"
)

// binEpsilon is the tolerance used when deciding whether a value coincides
// with a grid boundary.
const binEpsilon = 1e-8

// parallelEpsilon bounds how close two unit ray directions may be to
// parallel before closestPointPair refuses to solve (Design Note 9(b)).
const parallelEpsilon = 1e-9

// sign returns -1 for negative x and +1 otherwise, including for x == 0.
func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

// normalizeVec3 returns v scaled to unit length. The caller guarantees
// v is nonzero; a zero vector is returned unchanged to avoid a NaN.
func normalizeVec3(v mgl64.Vec3) mgl64.Vec3 {
	n := v.Len()
	if n == 0 {
		return v
	}
	return v.Mul(1 / n)
}

// findBin locates the index of the bin in a strictly increasing boundary
// sequence (length n+1) that contains value, using a greedy-left binary
// search. Returns -1 when value lies strictly outside the full range.
func findBin(boundaries []float64, value float64) int {
	mn, mx := 0, len(boundaries)-1
	if math.Abs(boundaries[0]-value) < binEpsilon {
		return 0
	}
	if value < boundaries[mn] || value > boundaries[mx] {
		return -1
	}
	for mx-mn > 1 {
		trial := (mn + mx + 1) / 2 // round-half-up, matches Python's round() on ties here
		if value > boundaries[trial] {
			mn = trial
		} else {
			mx = trial
		}
	}
	return mn
}

// closestPointPair solves the two-line closest-point problem for two unit
// direction vectors. It returns ok=false when v1 and v2 are too close to
// parallel for the analytic solution to be numerically meaningful
// (Design Note 9(b)) — the caller treats this as degenerate geometry.
func closestPointPair(p1, v1, p2, v2 mgl64.Vec3) (point mgl64.Vec3, residual float64, ok bool) {
	b := 2 * p1.Sub(p2).Dot(v1)
	c := 2 * v1.Dot(v2)
	d := 2 * p2.Sub(p1).Dot(v2)

	denom := c*c - 4
	if math.Abs(denom) < parallelEpsilon {
		return mgl64.Vec3{}, 0, false
	}

	s := (2*d + b*c) / denom
	t := (c*s - b) / 2

	sol := p1.Add(v1.Mul(t)).Add(p2).Add(v2.Mul(s)).Mul(0.5)
	residual = v1.Cross(p1.Sub(sol)).Len()
	return sol, residual, true
}

// closestPointMany solves the N-line (N>=3) least-squares closest-point
// problem. points and dirs must be the same length and dirs must be unit
// vectors. ok is false when the normal-equations matrix is singular
// (collinear direction set) — the caller treats this as degenerate
// geometry and excludes the candidate.
func closestPointMany(points, dirs []mgl64.Vec3) (point mgl64.Vec3, residual float64, ok bool) {
	n := len(points)

	lhs := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		lhs.Set(i, i, float64(n))
	}
	rhs := make([]float64, 3)

	for i := 0; i < n; i++ {
		p, v := points[i], dirs[i]
		pv := p.Dot(v)
		r := p.Sub(v.Mul(pv))
		rhs[0] += r[0]
		rhs[1] += r[1]
		rhs[2] += r[2]

		outer := [3][3]float64{
			{v[0] * v[0], v[0] * v[1], v[0] * v[2]},
			{v[1] * v[0], v[1] * v[1], v[1] * v[2]},
			{v[2] * v[0], v[2] * v[1], v[2] * v[2]},
		}
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				lhs.Set(r, c, lhs.At(r, c)-outer[r][c])
			}
		}
	}

	var x mat.VecDense
	if err := x.SolveVec(lhs, mat.NewVecDense(3, rhs)); err != nil {
		return mgl64.Vec3{}, 0, false
	}
	sol := mgl64.Vec3{x.AtVec(0), x.AtVec(1), x.AtVec(2)}

	var sumSq float64
	for i := 0; i < n; i++ {
		d := sol.Sub(points[i]).Cross(dirs[i])
		sumSq += d.Dot(d)
	}
	residual = math.Sqrt(sumSq / float64(n))
	return sol, residual, true
}
