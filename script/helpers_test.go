package script

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/isocore/ecs"
)

// flatGrid is a 128x128 isometric grid.
type flatGrid struct{}

func (flatGrid) GridToWorld(g cp.Vector) cp.Vector {
	return cp.Vector{X: (g.X - g.Y) * 64, Y: (g.X + g.Y) * 32}
}

type noEntities struct{}

func (noEntities) Entities() []ecs.Entity { return nil }
