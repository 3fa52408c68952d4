package scene

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/isocore/nav"
)

const (
	DefaultTileWidth  = 128
	DefaultTileHeight = 128
)

// IsometricGrid maps a diamond isometric grid onto world space. TileHeight is
// the full sprite height; the floor diamond occupies its lower half.
type IsometricGrid struct {
	TileWidth  float64
	TileHeight float64
}

func NewIsometricGrid(tileWidth, tileHeight float64) IsometricGrid {
	if tileWidth <= 0 {
		tileWidth = DefaultTileWidth
	}
	if tileHeight <= 0 {
		tileHeight = DefaultTileHeight
	}
	return IsometricGrid{TileWidth: tileWidth, TileHeight: tileHeight}
}

// GridToWorld returns the world position of the top corner of grid cell g.
func (ig IsometricGrid) GridToWorld(g cp.Vector) cp.Vector {
	return cp.Vector{
		X: (g.X - g.Y) * (ig.TileWidth / 2),
		Y: (g.X + g.Y) * (ig.TileHeight / 4),
	}
}

// WorldToGrid is the inverse of GridToWorld. With floor set the result is
// the cell containing w.
func (ig IsometricGrid) WorldToGrid(w cp.Vector, floor bool) cp.Vector {
	halfHeight := ig.TileHeight / 2
	g := cp.Vector{
		X: w.X/ig.TileWidth + w.Y/halfHeight,
		Y: w.Y/halfHeight - w.X/ig.TileWidth,
	}
	if floor {
		g.X = math.Floor(g.X)
		g.Y = math.Floor(g.Y)
	}
	return g
}

// CellCentre returns the navigation node at the middle of the floor diamond
// of cell g.
func (ig IsometricGrid) CellCentre(g cp.Vector) nav.Node {
	w := ig.GridToWorld(g)
	return nav.NodeOf(w.Add(cp.Vector{Y: ig.TileHeight / 4}))
}
