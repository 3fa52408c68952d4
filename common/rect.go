package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	Pos  cp.Vector
	Size cp.Vector
}

func NewRect(x, y, w, h float64) Rect {
	return Rect{Pos: cp.Vector{X: x, Y: y}, Size: cp.Vector{X: w, Y: h}}
}

// Centre returns the midpoint of the rectangle.
func (r Rect) Centre() cp.Vector {
	return r.Pos.Add(r.Size.Mult(0.5))
}

// BB converts the rectangle to a chipmunk bounding box.
func (r Rect) BB() cp.BB {
	return cp.BB{L: r.Pos.X, B: r.Pos.Y, R: r.Pos.X + r.Size.X, T: r.Pos.Y + r.Size.Y}
}

// AABBOverlap returns how far two rectangles overlap on each axis. ok is
// false unless both overlaps are strictly positive, so touching edges do not
// count.
func AABBOverlap(a, b Rect) (overlap cp.Vector, ok bool) {
	ca := a.Centre()
	cb := b.Centre()

	dx := math.Abs(ca.X - cb.X)
	dy := math.Abs(ca.Y - cb.Y)
	overlap.X = a.Size.X/2 + b.Size.X/2 - dx
	overlap.Y = a.Size.Y/2 + b.Size.Y/2 - dy

	if overlap.X > 0 && overlap.Y > 0 {
		return overlap, true
	}
	return cp.Vector{}, false
}
