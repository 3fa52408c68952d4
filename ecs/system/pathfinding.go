package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/isocore/ecs"
	"github.com/milk9111/isocore/ecs/component"
	"github.com/milk9111/isocore/nav"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultPathSpeed   = 256.0
	DefaultPathWorkers = 4
)

// PathGrid converts between world positions and navigation nodes.
type PathGrid interface {
	WorldToGrid(w cp.Vector, floor bool) cp.Vector
	CellCentre(g cp.Vector) nav.Node
}

// Navigator finds routes between nodes.
type Navigator interface {
	AStar(start, goal nav.Node) nav.PredecessorMap
}

// PathfindingSystem steers entities with a Pathfinding goal one step along
// the shortest route to it. Searches only read the entity store, so they run
// on a bounded worker group; velocities are written once all have finished.
type PathfindingSystem struct {
	grid    PathGrid
	graph   Navigator
	workers int
	speed   float64
	logger  *zap.Logger
}

type PathfindingOption func(*PathfindingSystem)

func WithWorkers(n int) PathfindingOption {
	return func(ps *PathfindingSystem) {
		if n > 0 {
			ps.workers = n
		}
	}
}

func WithSpeed(speed float64) PathfindingOption {
	return func(ps *PathfindingSystem) {
		ps.speed = speed
	}
}

func WithLogger(logger *zap.Logger) PathfindingOption {
	return func(ps *PathfindingSystem) {
		if logger != nil {
			ps.logger = logger
		}
	}
}

func NewPathfindingSystem(grid PathGrid, graph Navigator, opts ...PathfindingOption) *PathfindingSystem {
	ps := &PathfindingSystem{
		grid:    grid,
		graph:   graph,
		workers: DefaultPathWorkers,
		speed:   DefaultPathSpeed,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(ps)
	}
	return ps
}

type pathJob struct {
	vel   *component.Velocity
	start nav.Node
	goal  nav.Node

	explored int
	path     []nav.Node
}

func (ps *PathfindingSystem) Update(m *ecs.Manager, _ float64) {
	if ps == nil || ps.grid == nil || ps.graph == nil {
		return
	}

	var jobs []*pathJob
	ecs.ForEach3(m, component.PositionComponent.Kind(), component.VelocityComponent.Kind(), component.PathfindingComponent.Kind(),
		func(_ ecs.Entity, pos *component.Position, vel *component.Velocity, pf *component.Pathfinding) {
			cell := ps.grid.WorldToGrid(pos.Vector(), true)
			pf.Current = cell
			pf.HasCurrent = true
			jobs = append(jobs, &pathJob{
				vel:   vel,
				start: ps.grid.CellCentre(cell),
				goal:  ps.grid.CellCentre(pf.Goal),
			})
		})
	if len(jobs) == 0 {
		return
	}

	var g errgroup.Group
	g.SetLimit(ps.workers)
	for _, job := range jobs {
		g.Go(func() error {
			cameFrom := ps.graph.AStar(job.start, job.goal)
			job.explored = len(cameFrom)
			job.path = nav.ConstructPath(cameFrom, job.start, job.goal)
			return nil
		})
	}
	_ = g.Wait()

	for _, job := range jobs {
		if job.explored <= 1 || len(job.path) < 2 {
			job.vel.Speed = 0
			continue
		}
		job.vel.Speed = ps.speed
		job.vel.Direction = job.path[1].Vector().Sub(job.path[0].Vector())
	}

	ps.logger.Debug("paths updated", zap.Int("agents", len(jobs)))
}
