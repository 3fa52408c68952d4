package nav

import (
	"container/heap"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/isocore/common"
	"github.com/milk9111/isocore/ecs"
	"github.com/milk9111/isocore/ecs/component"
	"go.uber.org/zap"
)

const (
	DefaultMaxDistance = 1024.0
	DefaultReach       = 2.0
)

// Directions are the eight grid steps a node connects to, in grid space.
var Directions = [8]cp.Vector{
	{X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: -1}, {X: -1, Y: 1},
	{X: 0, Y: -1}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 1, Y: 0},
}

// Grid converts grid offsets into world offsets.
type Grid interface {
	GridToWorld(g cp.Vector) cp.Vector
}

// EntitySource supplies the live entities that may block movement.
type EntitySource interface {
	Entities() []ecs.Entity
}

// CostFunc returns the cost of moving from one node to an adjacent one.
type CostFunc func(from, to Node) float64

func UnitCost(Node, Node) float64 {
	return 1
}

type Option func(*Graph)

// WithMaxDistance bounds how far from the origin nodes are expanded.
func WithMaxDistance(d float64) Option {
	return func(g *Graph) {
		if d > 0 {
			g.maxDistance = d
		}
	}
}

// WithOrigin moves the point the distance bound is measured from.
func WithOrigin(n Node) Option {
	return func(g *Graph) {
		g.origin = n
	}
}

// WithReach sets, in grid steps, how close a collider has to be to a node to
// be tested. Values below one step would miss obstacles and are ignored.
func WithReach(steps float64) Option {
	return func(g *Graph) {
		if steps >= 1 {
			g.reach = steps
		}
	}
}

// WithCost replaces the unit step cost.
func WithCost(fn CostFunc) Option {
	return func(g *Graph) {
		if fn != nil {
			g.cost = fn
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(g *Graph) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// Graph is an 8-connected navigation graph over a grid. Edges are not
// stored: every query re-derives them from the colliders of the current
// entities, so obstacles may move between queries.
//
// A Graph only reads from its entity source. Queries may run concurrently
// with each other but not with entity creation or destruction.
type Graph struct {
	grid        Grid
	entities    EntitySource
	maxDistance float64
	origin      Node
	reach       float64
	cost        CostFunc
	logger      *zap.Logger
}

func NewGraph(grid Grid, entities EntitySource, opts ...Option) *Graph {
	g := &Graph{
		grid:        grid,
		entities:    entities,
		maxDistance: DefaultMaxDistance,
		reach:       DefaultReach,
		cost:        UnitCost,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Graph) Origin() Node { return g.origin }

// offsets returns the world-space offset of each direction.
func (g *Graph) offsets() [len(Directions)]cp.Vector {
	var out [len(Directions)]cp.Vector
	for i, d := range Directions {
		out[i] = g.grid.GridToWorld(d)
	}
	return out
}

// Neighbours returns the adjacent nodes reachable from node in a straight
// line without crossing a collider. Nodes beyond the distance bound have no
// neighbours.
func (g *Graph) Neighbours(node Node) []Node {
	centre := node.Vector()
	if centre.Distance(g.origin.Vector()) > g.maxDistance {
		return nil
	}

	offsets := g.offsets()
	candidates := make([]Node, 0, len(offsets))
	step := 0.0
	for _, off := range offsets {
		candidates = append(candidates, NodeOf(centre.Add(off)))
		step = math.Max(step, off.Length())
	}
	area := cp.NewBBForCircle(centre, step*g.reach)

	var points []cp.Vector
	for _, e := range g.entities.Entities() {
		if !e.Has(component.PositionComponent.Kind(), component.ColliderComponent.Kind(), component.SpriteComponent.Kind()) {
			continue
		}

		points = worldPolyline(e, points[:0])
		if len(points) < 2 || !boundsOf(points).Intersects(area) {
			continue
		}

		kept := candidates[:0]
		for _, c := range candidates {
			edge := common.Edge{A: c.Vector(), B: centre}
			if !common.PolylineIntersects(edge, points) {
				kept = append(kept, c)
			}
		}
		candidates = kept
		if len(candidates) == 0 {
			return candidates
		}
	}

	return candidates
}

// worldPolyline appends the collider points of e moved into world space.
func worldPolyline(e ecs.Entity, dst []cp.Vector) []cp.Vector {
	pos := ecs.Get(e, component.PositionComponent.Kind()).Vector()
	pivot := ecs.Get(e, component.SpriteComponent.Kind()).PivotOffset
	for _, p := range ecs.Get(e, component.ColliderComponent.Kind()).PointSlice() {
		dst = append(dst, p.Add(pos).Sub(pivot))
	}
	return dst
}

func boundsOf(points []cp.Vector) cp.BB {
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		lo = cp.Vector{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y)}
		hi = cp.Vector{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y)}
	}
	return common.Rect{Pos: lo, Size: hi.Sub(lo)}.BB()
}

// Cost returns the cost of stepping from current to neighbour. Costs below
// one are raised to one so the search heuristic never overestimates.
func (g *Graph) Cost(current, neighbour Node) float64 {
	c := g.cost(current, neighbour)
	if math.IsNaN(c) || c < 1 {
		return 1
	}
	return c
}

// BreadthFirstSearch floods outwards from start and returns every node
// reached. If goal is non-nil the search stops once goal is dequeued.
func (g *Graph) BreadthFirstSearch(start Node, goal *Node) PredecessorMap {
	cameFrom := PredecessorMap{start: start}
	queue := []Node{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if goal != nil && current == *goal {
			break
		}

		for _, next := range g.Neighbours(current) {
			if _, seen := cameFrom[next]; seen {
				continue
			}
			queue = append(queue, next)
			cameFrom[next] = current
		}
	}

	return cameFrom
}

// AStar searches from start towards goal. It returns an empty map when goal
// cannot be reached.
func (g *Graph) AStar(start, goal Node) PredecessorMap {
	scale := g.heuristicScale()
	cameFrom := PredecessorMap{start: start}
	costSoFar := map[Node]float64{start: 0}

	open := &frontier{}
	heap.Init(open)
	heap.Push(open, &queueItem{node: start, priority: manhattan(start, goal) * scale})

	for open.Len() > 0 {
		current := heap.Pop(open).(*queueItem)
		if current.node == goal {
			break
		}
		if current.cost > costSoFar[current.node] {
			continue
		}

		for _, next := range g.Neighbours(current.node) {
			newCost := current.cost + g.Cost(current.node, next)
			if old, seen := costSoFar[next]; seen && newCost >= old {
				continue
			}
			costSoFar[next] = newCost
			cameFrom[next] = current.node
			heap.Push(open, &queueItem{
				node:     next,
				cost:     newCost,
				priority: newCost + manhattan(next, goal)*scale,
			})
		}
	}

	if _, ok := cameFrom[goal]; !ok {
		g.logger.Debug("goal unreachable",
			zap.Int("start_x", start.X), zap.Int("start_y", start.Y),
			zap.Int("goal_x", goal.X), zap.Int("goal_y", goal.Y),
			zap.Int("explored", len(cameFrom)))
		return PredecessorMap{}
	}
	return cameFrom
}

// heuristicScale turns a Manhattan distance into a lower bound on the number
// of steps, since one step covers at most the longest step's Manhattan
// length.
func (g *Graph) heuristicScale() float64 {
	longest := 0.0
	for _, off := range g.offsets() {
		longest = math.Max(longest, math.Abs(off.X)+math.Abs(off.Y))
	}
	if longest == 0 {
		return 0
	}
	return 1 / longest
}

// ConstructPath walks cameFrom back from goal and returns the nodes from
// start to goal inclusive. It returns an empty path if goal is not connected
// to start.
func ConstructPath(cameFrom PredecessorMap, start, goal Node) []Node {
	path := []Node{}
	current := goal
	for {
		prev, ok := cameFrom[current]
		if !ok || len(path) > len(cameFrom) {
			return []Node{}
		}
		path = append(path, current)
		if current == start {
			break
		}
		current = prev
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Connections floods outwards from start and returns every directed edge
// between reachable nodes, in discovery order.
func (g *Graph) Connections(start Node) []common.Edge {
	var edges []common.Edge
	seen := map[[2]Node]struct{}{}
	expanded := map[Node]struct{}{start: {}}
	queue := []Node{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, next := range g.Neighbours(current) {
			key := [2]Node{current, next}
			if _, ok := seen[key]; !ok {
				seen[key] = struct{}{}
				edges = append(edges, common.Edge{A: current.Vector(), B: next.Vector()})
			}
			if _, ok := expanded[next]; !ok {
				expanded[next] = struct{}{}
				queue = append(queue, next)
			}
		}
	}

	return edges
}
