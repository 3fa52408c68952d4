package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

// parallelEpsilon is the sine of the angle below which two directions are
// treated as parallel.
const parallelEpsilon = 1e-9

// Edge is a line segment from A to B.
type Edge struct {
	A cp.Vector
	B cp.Vector
}

func NewEdge(ax, ay, bx, by float64) Edge {
	return Edge{A: cp.Vector{X: ax, Y: ay}, B: cp.Vector{X: bx, Y: by}}
}

// Direction returns B - A.
func (e Edge) Direction() cp.Vector {
	return e.B.Sub(e.A)
}

// SegmentIntersection returns the point where segments a and b cross.
// Parallel and collinear segments never intersect.
func SegmentIntersection(a, b Edge) (cp.Vector, bool) {
	r := a.Direction()
	s := b.Direction()

	rxs := r.Cross(s)
	if math.Abs(rxs) <= parallelEpsilon*r.Length()*s.Length() {
		return cp.Vector{}, false
	}

	qp := b.A.Sub(a.A)
	t := qp.Cross(s) / rxs
	u := qp.Cross(r) / rxs
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return cp.Vector{}, false
	}

	return a.A.Add(r.Mult(t)), true
}

// PolylineIntersects reports whether e crosses any consecutive segment of
// points.
func PolylineIntersects(e Edge, points []cp.Vector) bool {
	for i := 0; i+1 < len(points); i++ {
		if _, ok := SegmentIntersection(Edge{A: points[i], B: points[i+1]}, e); ok {
			return true
		}
	}
	return false
}
