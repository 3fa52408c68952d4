package component

import "github.com/jakecoffman/cp"

// Pathfinding stores a navigation goal in grid coordinates.
type Pathfinding struct {
	// HasCurrent reports whether Current holds a grid cell.
	HasCurrent bool
	Current    cp.Vector
	Goal       cp.Vector
}

var PathfindingComponent = newComponent[Pathfinding](PathfindingID)
