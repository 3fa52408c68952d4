package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/isocore/common"
	"github.com/milk9111/isocore/config"
	"github.com/milk9111/isocore/ecs"
	"github.com/milk9111/isocore/ecs/component"
	"github.com/milk9111/isocore/internal/world"
	"github.com/milk9111/isocore/nav"
	"go.uber.org/zap"
	"golang.org/x/image/colornames"
)

const (
	cameraSpeed = 600.0
	minZoom     = 0.5
	maxZoom     = 2.0
	gridRadius  = 10
)

type Game struct {
	world    *world.World
	cfg      *config.Config
	logger   *zap.Logger
	savePath string

	showEdges bool
	edges     []common.Edge
	route     []nav.Node
	status    string
}

func NewGame(w *world.World, cfg *config.Config, logger *zap.Logger, savePath string) *Game {
	g := &Game{world: w, cfg: cfg, logger: logger, savePath: savePath}
	g.refresh()
	return g
}

func (g *Game) Update() error {
	s := g.world.Scene
	dt := g.cfg.TickSeconds()

	g.moveCamera(dt)

	x, y := ebiten.CursorPosition()
	cursor := s.ScreenToGrid(cp.Vector{X: float64(x), Y: float64(y)}, true)

	changed := false
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		changed = g.world.SetGoal(cursor)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		if err := g.world.ToggleWall(cursor); err != nil {
			g.fail("toggle wall", err)
		}
		changed = true
	}

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl)
	if ctrl && inpututil.IsKeyJustPressed(ebiten.KeyZ) {
		if _, err := g.world.History.Undo(); err != nil {
			g.fail("undo", err)
		}
		changed = true
	}
	if ctrl && inpututil.IsKeyJustPressed(ebiten.KeyY) {
		if _, err := g.world.History.Redo(); err != nil {
			g.fail("redo", err)
		}
		changed = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		if err := s.Save(g.savePath); err != nil {
			g.fail("save", err)
		} else {
			g.status = "saved " + g.savePath
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		if err := s.Load(g.savePath); err != nil {
			g.fail("load", err)
		} else {
			g.status = "loaded " + g.savePath
			g.world.History.Clear()
		}
		changed = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.showEdges = !g.showEdges
		changed = true
	}

	s.Update(dt)
	if changed || s.Ticks()%uint64(max(g.cfg.Simulation.TickRate/10, 1)) == 0 {
		g.refresh()
	}
	return nil
}

func (g *Game) moveCamera(dt float64) {
	s := g.world.Scene
	camera := s.Camera()
	pos, ok := ecs.Lookup(camera, component.PositionComponent.Kind())
	if !ok {
		return
	}

	var dir cp.Vector
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		dir.Y--
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		dir.Y++
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		dir.X--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		dir.X++
	}
	zoom := ecs.Get(camera, component.ZoomComponent.Kind())
	if dir.LengthSq() > 0 {
		pos.SetVector(pos.Vector().Add(dir.Normalize().Mult(cameraSpeed * dt / zoom.Value)))
	}

	if _, wy := ebiten.Wheel(); wy != 0 {
		zoom.Value = common.Clamp(zoom.Value*math.Pow(1.1, wy), minZoom, maxZoom)
	}
}

func (g *Game) refresh() {
	g.route = g.world.Route()
	g.edges = nil
	if g.showEdges {
		g.edges = g.world.Scene.Graph().Connections(g.world.Scene.Graph().Origin())
	}
}

func (g *Game) fail(action string, err error) {
	g.status = action + ": " + err.Error()
	g.logger.Warn(action+" failed", zap.Error(err))
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)
	g.drawGrid(screen)

	for _, e := range g.edges {
		g.line(screen, e.A, e.B, 1, colornames.Darkslategray)
	}
	g.drawColliders(screen)
	for i := 1; i < len(g.route); i++ {
		g.line(screen, g.route[i-1].Vector(), g.route[i].Vector(), 3, colornames.Lightgrey)
	}
	g.drawEntities(screen)

	help := "LMB goal  RMB wall  WASD pan  wheel zoom  ctrl+z/y undo/redo  F5/F9 save/load  C edges"
	ebitenutil.DebugPrint(screen, help)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("tick %d  route %d  %s", g.world.Scene.Ticks(), len(g.route), g.status), 0, 16)
}

func (g *Game) drawGrid(screen *ebiten.Image) {
	grid := g.world.Scene.Grid()
	for i := -gridRadius; i <= gridRadius+1; i++ {
		f := float64(i)
		g.line(screen,
			grid.GridToWorld(cp.Vector{X: f, Y: -gridRadius}),
			grid.GridToWorld(cp.Vector{X: f, Y: gridRadius + 1}),
			1, colornames.Dimgray)
		g.line(screen,
			grid.GridToWorld(cp.Vector{X: -gridRadius, Y: f}),
			grid.GridToWorld(cp.Vector{X: gridRadius + 1, Y: f}),
			1, colornames.Dimgray)
	}
}

func (g *Game) drawColliders(screen *ebiten.Image) {
	required := component.MaskOf(
		component.PositionComponent.Kind(),
		component.SpriteComponent.Kind(),
		component.ColliderComponent.Kind(),
	)
	ecs.Each(g.world.Scene.Entities(), required, func(e ecs.Entity) {
		pos := ecs.Get(e, component.PositionComponent.Kind()).Vector()
		pivot := ecs.Get(e, component.SpriteComponent.Kind()).PivotOffset
		points := ecs.Get(e, component.ColliderComponent.Kind()).PointSlice()
		for i := 1; i < len(points); i++ {
			g.line(screen, points[i-1].Add(pos).Sub(pivot), points[i].Add(pos).Sub(pivot), 2, colornames.Crimson)
		}
	})
}

func (g *Game) drawEntities(screen *ebiten.Image) {
	s := g.world.Scene
	for _, e := range s.Renderables() {
		if e.Tag() != world.PlayerTag {
			continue
		}
		p := g.toScreen(ecs.Get(e, component.PositionComponent.Kind()).Vector())
		const size = 10
		vector.FillRect(screen, float32(p.X-size/2), float32(p.Y-size/2), size, size, colornames.Gold, false)
	}
}

func (g *Game) toScreen(v cp.Vector) cp.Vector {
	return g.world.Scene.WorldToScreen(v)
}

func (g *Game) line(screen *ebiten.Image, a, b cp.Vector, width float32, clr color.Color) {
	a, b = g.toScreen(a), g.toScreen(b)
	vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), width, clr, true)
}

// Layout keeps the scene viewport in step with the window so clicks and
// drawing share one camera transform.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.world.Scene.SetViewport(cp.Vector{X: float64(outsideWidth), Y: float64(outsideHeight)})
	return outsideWidth, outsideHeight
}
