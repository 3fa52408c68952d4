package world

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/isocore/config"
	"github.com/milk9111/isocore/ecs"
	"github.com/milk9111/isocore/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var demoGoal = cp.Vector{X: 6, Y: 0}

func newWorld(t *testing.T, cfg *config.Config) *World {
	t.Helper()
	if cfg == nil {
		cfg = config.Defaults()
	}
	w, err := New(cfg, nil, cp.Vector{X: 800, Y: 600})
	require.NoError(t, err)
	return w
}

func TestSeedDemo(t *testing.T) {
	w := newWorld(t, nil)
	require.NoError(t, w.SeedDemo(demoGoal))

	player, ok := w.Player()
	require.True(t, ok)
	assert.True(t, player.Has(
		component.PositionComponent.Kind(),
		component.VelocityComponent.Kind(),
		component.AnimationComponent.Kind(),
		component.PathfindingComponent.Kind(),
		component.SpriteComponent.Kind(),
	))
	assert.Equal(t, demoGoal, ecs.Get(player, component.PathfindingComponent.Kind()).Goal)
	assert.Equal(t, cp.Vector{X: 0, Y: 32}, ecs.Get(player, component.PositionComponent.Kind()).Vector())
	assert.Equal(t, PlayerSkin, ecs.Get(player, component.SpriteComponent.Kind()).Texture())

	assert.Len(t, w.Scene.Entities().EntitiesByTag(WallTag), len(DemoWalls))
	assert.False(t, w.History.CanUndo(), "seeding should not be undoable")
}

func TestRouteAvoidsWalls(t *testing.T) {
	w := newWorld(t, nil)
	require.NoError(t, w.SeedDemo(demoGoal))

	grid := w.Scene.Grid()
	route := w.Route()
	require.NotEmpty(t, route)
	assert.Equal(t, grid.CellCentre(cp.Vector{}), route[0])
	assert.Equal(t, grid.CellCentre(demoGoal), route[len(route)-1])

	for _, n := range route {
		cell := grid.WorldToGrid(n.Vector(), true)
		_, blocked := w.WallAt(cell)
		assert.False(t, blocked, "route passes through wall cell %v", cell)
	}
}

func TestPlayerReachesGoal(t *testing.T) {
	w := newWorld(t, nil)
	player, err := w.AddPlayer(cp.Vector{})
	require.NoError(t, err)

	// Straight down the screen: the only shortest route is along the
	// diagonal of the grid.
	goal := cp.Vector{X: 4, Y: 4}
	require.True(t, w.SetGoal(goal))

	dt := config.Defaults().TickSeconds()
	for i := 0; i < 2000; i++ {
		w.Scene.Update(dt)
		if i > 0 && ecs.Get(player, component.VelocityComponent.Kind()).Speed == 0 {
			break
		}
	}

	pf := ecs.Get(player, component.PathfindingComponent.Kind())
	require.True(t, pf.HasCurrent)
	assert.Equal(t, goal, pf.Current)
	assert.InDelta(t, 0, ecs.Get(player, component.PositionComponent.Kind()).X, 1e-6)
}

func TestToggleWall(t *testing.T) {
	w := newWorld(t, nil)
	cell := cp.Vector{X: 1, Y: 1}

	require.NoError(t, w.ToggleWall(cell))
	w.Scene.Entities().Update()
	wall, ok := w.WallAt(cell)
	require.True(t, ok)
	assert.Equal(t, w.Scene.Grid().GridToWorld(cell), ecs.Get(wall, component.PositionComponent.Kind()).Vector())
	assert.Equal(t, int32(5), ecs.Get(wall, component.ColliderComponent.Kind()).NumPoints)

	require.NoError(t, w.ToggleWall(cell))
	_, ok = w.WallAt(cell)
	assert.False(t, ok)

	undone, err := w.History.Undo()
	require.NoError(t, err)
	require.True(t, undone)
	w.Scene.Entities().Update()
	_, ok = w.WallAt(cell)
	assert.True(t, ok, "undoing the removal should restore the wall")

	undone, err = w.History.Undo()
	require.NoError(t, err)
	require.True(t, undone)
	_, ok = w.WallAt(cell)
	assert.False(t, ok, "undoing the placement should remove the wall")
}

func TestWallBlocksItsCell(t *testing.T) {
	w := newWorld(t, nil)
	_, err := w.AddWall(cp.Vector{X: 1, Y: 0})
	require.NoError(t, err)
	w.Scene.Entities().Update()

	grid := w.Scene.Grid()
	blocked := grid.CellCentre(cp.Vector{X: 1, Y: 0})
	assert.NotContains(t, w.Scene.Graph().Neighbours(grid.CellCentre(cp.Vector{})), blocked)
}

func TestSetGoalWithoutPlayer(t *testing.T) {
	w := newWorld(t, nil)
	assert.False(t, w.SetGoal(demoGoal))
	assert.Nil(t, w.Route())
}

func TestCostScriptFromConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cost.tengo")
	require.NoError(t, os.WriteFile(path, []byte(`cost := func(from, to) { return 3 }`), 0o644))

	cfg := config.Defaults()
	cfg.Navigation.CostScript = path
	w := newWorld(t, cfg)
	require.NotNil(t, w.Cost)
	assert.Equal(t, path, w.Cost.Path())
	assert.Equal(t, 3.0, w.Scene.Graph().Cost(w.Scene.Grid().CellCentre(cp.Vector{}), w.Scene.Grid().CellCentre(cp.Vector{X: 1})))

	cfg.Navigation.CostScript = filepath.Join(t.TempDir(), "missing.tengo")
	_, err := New(cfg, nil, cp.Vector{})
	assert.Error(t, err)
}
