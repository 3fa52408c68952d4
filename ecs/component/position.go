package component

import "github.com/jakecoffman/cp"

// Position is a world-space location. Z orders overlapping entities when
// rendering.
type Position struct {
	X float64
	Y float64
	Z int32
}

func (p Position) Vector() cp.Vector {
	return cp.Vector{X: p.X, Y: p.Y}
}

func (p *Position) SetVector(v cp.Vector) {
	p.X = v.X
	p.Y = v.Y
}

var PositionComponent = newComponent[Position](PositionID)
