package component

import "github.com/jakecoffman/cp"

// MaxColliderPoints is the capacity of a collider polyline.
const MaxColliderPoints = 32

// Collider is an open polyline relative to the entity's sprite origin. Only
// the first NumPoints entries of Points are meaningful.
type Collider struct {
	NumPoints int32
	Points    [MaxColliderPoints]cp.Vector
}

// SetPoints replaces the polyline, keeping at most MaxColliderPoints points.
func (c *Collider) SetPoints(points ...cp.Vector) {
	c.Points = [MaxColliderPoints]cp.Vector{}
	n := copy(c.Points[:], points)
	c.NumPoints = int32(n)
}

// PointSlice returns the meaningful points.
func (c *Collider) PointSlice() []cp.Vector {
	n := int(c.NumPoints)
	if n < 0 {
		n = 0
	}
	if n > MaxColliderPoints {
		n = MaxColliderPoints
	}
	return c.Points[:n]
}

var ColliderComponent = newComponent[Collider](ColliderID)
