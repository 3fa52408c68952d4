package system

import (
	"math"
	"sync/atomic"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/isocore/ecs"
	"github.com/milk9111/isocore/ecs/component"
	"github.com/milk9111/isocore/nav"
)

func near(a, b cp.Vector) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestMovementSystem(t *testing.T) {
	cases := []struct {
		name  string
		start cp.Vector
		vel   component.Velocity
		dt    float64
		want  cp.Vector
	}{
		{"normalised", cp.Vector{X: 1, Y: 1}, component.Velocity{Speed: 10, Direction: cp.Vector{X: 3, Y: 4}}, 0.5, cp.Vector{X: 4, Y: 5}},
		{"zero_direction", cp.Vector{X: 1, Y: 1}, component.Velocity{Speed: 10}, 0.5, cp.Vector{X: 1, Y: 1}},
		{"zero_speed", cp.Vector{X: 2, Y: 3}, component.Velocity{Direction: cp.Vector{X: 1}}, 1, cp.Vector{X: 2, Y: 3}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m := ecs.NewManager(ecs.NewPool(4))
			e := m.MustAddEntity("")
			ecs.Add(e, component.PositionComponent.Kind()).SetVector(c.start)
			*ecs.Add(e, component.VelocityComponent.Kind()) = c.vel
			m.Update()

			NewMovementSystem().Update(m, c.dt)

			if got := ecs.Get(e, component.PositionComponent.Kind()).Vector(); !near(got, c.want) {
				t.Fatalf("expected %v, got %v", c.want, got)
			}
		})
	}
}

func TestAnimationRow(t *testing.T) {
	a := NewAnimationSystem()
	cases := []struct {
		dir  cp.Vector
		want int
	}{
		{cp.Vector{X: 0, Y: -1}, 0},
		{cp.Vector{X: 1, Y: -1}, 1},
		{cp.Vector{X: 1, Y: 0}, 2},
		{cp.Vector{X: 0, Y: 1}, 4},
		{cp.Vector{X: -1, Y: 0}, 6},
		{cp.Vector{X: -1, Y: -1}, 7},
	}
	for _, c := range cases {
		if got := a.row(c.dir.X, c.dir.Y); got != c.want {
			t.Errorf("row(%v): expected %d, got %d", c.dir, c.want, got)
		}
	}
}

func TestAnimationSystem(t *testing.T) {
	cases := []struct {
		name    string
		speed   float64
		dt      float64
		wantCol int32
	}{
		{"moving", 256, 0.1, 4},
		{"wraps_loop", 256, 0.45, 2},
		{"idle", 0, 0.1, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m := ecs.NewManager(ecs.NewPool(4))
			e := m.MustAddEntity("")
			*ecs.Add(e, component.VelocityComponent.Kind()) = component.Velocity{Speed: c.speed, Direction: cp.Vector{X: 1}}
			ecs.Add(e, component.SpriteComponent.Kind()).Source = component.SourceRect{W: 128, H: 128}
			ecs.Add(e, component.AnimationComponent.Kind())
			m.Update()

			NewAnimationSystem().Update(m, c.dt)

			src := ecs.Get(e, component.SpriteComponent.Kind()).Source
			if src.X != c.wantCol*128 {
				t.Fatalf("expected column %d, got x %d", c.wantCol, src.X)
			}
			if src.Y != 2*128 {
				t.Fatalf("expected row 2 for a rightward heading, got y %d", src.Y)
			}
		})
	}
}

// tenGrid has square cells ten units wide with centres on the corners.
type tenGrid struct{}

func (tenGrid) WorldToGrid(w cp.Vector, floor bool) cp.Vector {
	g := w.Mult(0.1)
	if floor {
		g = cp.Vector{X: math.Floor(g.X), Y: math.Floor(g.Y)}
	}
	return g
}

func (tenGrid) CellCentre(g cp.Vector) nav.Node {
	return nav.NodeOf(g.Mult(10))
}

// directNavigator routes straight from start to goal.
type directNavigator struct {
	calls atomic.Int32
}

func (d *directNavigator) AStar(start, goal nav.Node) nav.PredecessorMap {
	d.calls.Add(1)
	cameFrom := nav.PredecessorMap{start: start}
	if goal != start {
		cameFrom[goal] = start
	}
	return cameFrom
}

func TestPathfindingSystem(t *testing.T) {
	m := ecs.NewManager(ecs.NewPool(16))
	addAgent := func(pos, goal cp.Vector) ecs.Entity {
		e := m.MustAddEntity("Agent")
		ecs.Add(e, component.PositionComponent.Kind()).SetVector(pos)
		ecs.Add(e, component.VelocityComponent.Kind())
		ecs.Add(e, component.PathfindingComponent.Kind()).Goal = goal
		return e
	}
	walker := addAgent(cp.Vector{X: 12, Y: 3}, cp.Vector{X: 4, Y: 1})
	arrived := addAgent(cp.Vector{X: 41, Y: 15}, cp.Vector{X: 4, Y: 1})
	others := make([]ecs.Entity, 6)
	for i := range others {
		others[i] = addAgent(cp.Vector{X: float64(i) * 10}, cp.Vector{X: 0, Y: 5})
	}
	m.Update()

	navigator := &directNavigator{}
	NewPathfindingSystem(tenGrid{}, navigator, WithWorkers(2), WithSpeed(64)).Update(m, 0.1)

	if got := navigator.calls.Load(); got != 8 {
		t.Fatalf("expected one search per agent, got %d", got)
	}

	pf := ecs.Get(walker, component.PathfindingComponent.Kind())
	if !pf.HasCurrent || pf.Current != (cp.Vector{X: 1, Y: 0}) {
		t.Fatalf("unexpected current cell %+v", pf)
	}
	vel := ecs.Get(walker, component.VelocityComponent.Kind())
	if vel.Speed != 64 || vel.Direction != (cp.Vector{X: 30, Y: 10}) {
		t.Fatalf("unexpected walker velocity %+v", vel)
	}

	if vel := ecs.Get(arrived, component.VelocityComponent.Kind()); vel.Speed != 0 {
		t.Fatalf("agent at its goal should stop, got %+v", vel)
	}

	for i, e := range others {
		vel := ecs.Get(e, component.VelocityComponent.Kind())
		want := cp.Vector{X: -float64(i) * 10, Y: 50}
		if vel.Speed != 64 || vel.Direction != want {
			t.Fatalf("agent %d: expected direction %v, got %+v", i, want, vel)
		}
	}
}
