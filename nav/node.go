package nav

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Node is a navigation position in integer world coordinates, normally the
// centre of a grid cell.
type Node struct {
	X int
	Y int
}

// NodeOf rounds v to the nearest node.
func NodeOf(v cp.Vector) Node {
	return Node{X: int(math.Round(v.X)), Y: int(math.Round(v.Y))}
}

func (n Node) Vector() cp.Vector {
	return cp.Vector{X: float64(n.X), Y: float64(n.Y)}
}

// Less orders nodes by X, then Y.
func (n Node) Less(o Node) bool {
	if n.X != o.X {
		return n.X < o.X
	}
	return n.Y < o.Y
}

func manhattan(a, b Node) float64 {
	return math.Abs(float64(a.X-b.X)) + math.Abs(float64(a.Y-b.Y))
}

// PredecessorMap maps every node reached by a search to the node it was
// reached from. The start node maps to itself.
type PredecessorMap map[Node]Node
