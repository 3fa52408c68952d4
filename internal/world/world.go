// Package world assembles a scene from configuration and seeds the demo
// layout shared by the binaries.
package world

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/isocore/command"
	"github.com/milk9111/isocore/config"
	"github.com/milk9111/isocore/ecs"
	"github.com/milk9111/isocore/ecs/component"
	"github.com/milk9111/isocore/nav"
	"github.com/milk9111/isocore/scene"
	"github.com/milk9111/isocore/script"
	"go.uber.org/zap"
)

const (
	PlayerTag  = "Player"
	WallTag    = "Wall"
	PlayerSkin = "AnimationSheet.png"
	WallSkin   = "Wall.png"
)

// World is a configured scene plus the collaborators the binaries drive it
// with.
type World struct {
	Scene   *scene.Scene
	History *command.Manager
	Cost    *script.CostScript
	logger  *zap.Logger
}

// New builds a scene from cfg. The cost script is loaded when configured.
func New(cfg *config.Config, logger *zap.Logger, viewport cp.Vector) (*World, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	navOpts := []nav.Option{
		nav.WithMaxDistance(cfg.Navigation.MaxDistance),
		nav.WithReach(cfg.Navigation.Reach),
	}

	var cost *script.CostScript
	if cfg.Navigation.CostScript != "" {
		var err error
		cost, err = script.LoadCostScript(cfg.Navigation.CostScript, script.WithLogger(logger.Named("script")))
		if err != nil {
			return nil, err
		}
		navOpts = append(navOpts, nav.WithCost(cost.CostFunc()))
	}

	s, err := scene.New(scene.Options{
		Capacity:    cfg.Pool.Capacity,
		Grid:        scene.NewIsometricGrid(cfg.Grid.TileWidth, cfg.Grid.TileHeight),
		Viewport:    viewport,
		Nav:         navOpts,
		PathWorkers: cfg.Navigation.Workers,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}

	return &World{
		Scene:   s,
		History: command.NewManager(command.WithLogger(logger.Named("command"))),
		Cost:    cost,
		logger:  logger,
	}, nil
}

// AddPlayer creates the pathfinding character at the centre of cell.
func (w *World) AddPlayer(cell cp.Vector) (ecs.Entity, error) {
	grid := w.Scene.Grid()
	e, err := w.Scene.Entities().AddEntity(PlayerTag)
	if err != nil {
		return ecs.Entity{}, fmt.Errorf("world: add player: %w", err)
	}

	ecs.Add(e, component.PositionComponent.Kind()).SetVector(grid.CellCentre(cell).Vector())
	ecs.Add(e, component.VelocityComponent.Kind())
	ecs.Add(e, component.AnimationComponent.Kind())
	ecs.Add(e, component.PathfindingComponent.Kind()).Goal = cell

	sprite := ecs.Add(e, component.SpriteComponent.Kind())
	sprite.SetTexture(PlayerSkin)
	sprite.Source = component.SourceRect{W: int32(grid.TileWidth), H: int32(grid.TileHeight)}
	sprite.PivotOffset = cp.Vector{X: grid.TileWidth / 2, Y: grid.TileHeight / 1.5}
	return e, nil
}

// Player returns the first player entity.
func (w *World) Player() (ecs.Entity, bool) {
	players := w.Scene.Entities().EntitiesByTag(PlayerTag)
	if len(players) == 0 {
		return ecs.Entity{}, false
	}
	return players[0], true
}

// SetGoal sends the player towards cell.
func (w *World) SetGoal(cell cp.Vector) bool {
	player, ok := w.Player()
	if !ok {
		return false
	}
	pf, ok := ecs.Lookup(player, component.PathfindingComponent.Kind())
	if !ok {
		return false
	}
	pf.HasCurrent = false
	pf.Goal = cell
	return true
}

// WallSlice returns the components of a wall filling the floor diamond of
// cell.
func WallSlice(grid scene.IsometricGrid, cell cp.Vector) (ecs.Slice, component.Mask) {
	var s ecs.Slice
	s.Position.SetVector(grid.GridToWorld(cell))
	s.Position.Z = 1
	s.Sprite.SetTexture(WallSkin)
	s.Sprite.Source = component.SourceRect{W: int32(grid.TileWidth), H: int32(grid.TileHeight)}
	s.Sprite.PivotOffset = cp.Vector{X: grid.TileWidth / 2}

	// Points are relative to the sprite's top-left corner, so shift the
	// diamond by the pivot.
	hw, qh := grid.TileWidth/2, grid.TileHeight/4
	s.Collider.SetPoints(
		cp.Vector{X: hw, Y: 0},
		cp.Vector{X: 2 * hw, Y: qh},
		cp.Vector{X: hw, Y: 2 * qh},
		cp.Vector{X: 0, Y: qh},
		cp.Vector{X: hw, Y: 0},
	)

	mask := component.MaskOf(
		component.PositionComponent.Kind(),
		component.SpriteComponent.Kind(),
		component.ColliderComponent.Kind(),
	)
	return s, mask
}

// AddWall places a wall on cell through the undo history.
func (w *World) AddWall(cell cp.Vector) (ecs.Entity, error) {
	slice, mask := WallSlice(w.Scene.Grid(), cell)
	cmd := command.NewCreateEntity(w.Scene.Entities(), WallTag, slice, mask)
	if err := w.History.Do(cmd); err != nil {
		return ecs.Entity{}, err
	}
	return cmd.Created(), nil
}

// WallAt returns the wall occupying cell, if any.
func (w *World) WallAt(cell cp.Vector) (ecs.Entity, bool) {
	grid := w.Scene.Grid()
	want := grid.GridToWorld(cell)
	for _, e := range w.Scene.Entities().EntitiesByTag(WallTag) {
		if !e.Alive() {
			continue
		}
		if ecs.Get(e, component.PositionComponent.Kind()).Vector().Distance(want) < 1e-6 {
			return e, true
		}
	}
	return ecs.Entity{}, false
}

// ToggleWall adds a wall on cell, or removes the one already there.
func (w *World) ToggleWall(cell cp.Vector) error {
	if e, ok := w.WallAt(cell); ok {
		return w.History.Do(command.NewDeleteEntity(w.Scene.Entities(), e))
	}
	_, err := w.AddWall(cell)
	return err
}

// DemoWalls is a line of walls between the origin and cells further along
// the x axis.
var DemoWalls = []cp.Vector{
	{X: 3, Y: -3}, {X: 3, Y: -2}, {X: 3, Y: -1}, {X: 3, Y: 0}, {X: 3, Y: 1}, {X: 3, Y: 2},
}

// SeedDemo creates a player at the origin cell heading to goal, behind the
// demo walls.
func (w *World) SeedDemo(goal cp.Vector) error {
	if _, err := w.AddPlayer(cp.Vector{}); err != nil {
		return err
	}
	for _, cell := range DemoWalls {
		if _, err := w.AddWall(cell); err != nil {
			return err
		}
	}
	w.SetGoal(goal)
	w.Scene.Entities().Update()
	w.History.Clear()
	w.logger.Info("seeded demo",
		zap.Int("walls", len(DemoWalls)),
		zap.Float64("goal_x", goal.X), zap.Float64("goal_y", goal.Y))
	return nil
}

// Route returns the player's current A* route to its goal.
func (w *World) Route() []nav.Node {
	player, ok := w.Player()
	if !ok {
		return nil
	}
	pos, ok := ecs.Lookup(player, component.PositionComponent.Kind())
	if !ok {
		return nil
	}
	pf, ok := ecs.Lookup(player, component.PathfindingComponent.Kind())
	if !ok {
		return nil
	}

	grid := w.Scene.Grid()
	start := grid.CellCentre(grid.WorldToGrid(pos.Vector(), true))
	goal := grid.CellCentre(pf.Goal)
	return nav.ConstructPath(w.Scene.Graph().AStar(start, goal), start, goal)
}
