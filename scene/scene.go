package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/isocore/ecs"
	"github.com/milk9111/isocore/ecs/component"
	"github.com/milk9111/isocore/ecs/system"
	"github.com/milk9111/isocore/nav"
	"go.uber.org/zap"
)

const CameraTag = "Camera"

var ErrNoCamera = errors.New("scene: no camera entity")

// Options configures a Scene. Zero values fall back to defaults.
type Options struct {
	Capacity    int
	Grid        IsometricGrid
	Viewport    cp.Vector
	Nav         []nav.Option
	PathWorkers int
	Logger      *zap.Logger
}

// Scene owns an entity directory, the navigation graph over it and the
// systems that advance it.
type Scene struct {
	grid      IsometricGrid
	entities  *ecs.Manager
	graph     *nav.Graph
	scheduler *ecs.Scheduler
	camera    ecs.Entity
	viewport  cp.Vector
	logger    *zap.Logger
	ticks     uint64
}

func New(opts Options) (*Scene, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	grid := NewIsometricGrid(opts.Grid.TileWidth, opts.Grid.TileHeight)

	s := &Scene{
		grid:     grid,
		entities: ecs.NewManager(ecs.NewPool(opts.Capacity), ecs.WithLogger(logger.Named("ecs"))),
		viewport: opts.Viewport,
		logger:   logger,
	}
	navOpts := append([]nav.Option{nav.WithLogger(logger.Named("nav"))}, opts.Nav...)
	s.graph = nav.NewGraph(s.grid, s.entities, navOpts...)
	s.scheduler = ecs.NewScheduler(
		system.NewMovementSystem(),
		system.NewAnimationSystem(),
		system.NewPathfindingSystem(s.grid, s.graph,
			system.WithWorkers(opts.PathWorkers),
			system.WithLogger(logger.Named("pathfinding"))),
	)

	camera, err := s.entities.AddEntity(CameraTag)
	if err != nil {
		return nil, fmt.Errorf("scene: create camera: %w", err)
	}
	ecs.Add(camera, component.PositionComponent.Kind())
	ecs.Add(camera, component.VelocityComponent.Kind())
	ecs.Add(camera, component.ZoomComponent.Kind()).Value = 1
	s.camera = camera
	s.entities.Update()

	return s, nil
}

func (s *Scene) Grid() IsometricGrid { return s.grid }

func (s *Scene) Entities() *ecs.Manager { return s.entities }

func (s *Scene) Graph() *nav.Graph { return s.graph }

func (s *Scene) Camera() ecs.Entity { return s.camera }

// Ticks returns how many times Update has run.
func (s *Scene) Ticks() uint64 { return s.ticks }

func (s *Scene) SetViewport(size cp.Vector) {
	s.viewport = size
}

// Update makes pending entities live and runs every system once.
func (s *Scene) Update(dt float64) {
	s.entities.Update()
	s.scheduler.Update(s.entities, dt)
	s.ticks++
	if ce := s.logger.Check(zap.DebugLevel, "tick"); ce != nil {
		ce.Write(zap.Uint64("tick", s.ticks), zap.Int("entities", len(s.entities.Entities())))
	}
}

// Load replaces the scene's entities with those saved at path and rebinds
// the camera.
func (s *Scene) Load(path string) error {
	if err := s.entities.Load(path); err != nil {
		return err
	}
	cameras := s.entities.EntitiesByTag(CameraTag)
	if len(cameras) == 0 {
		return ErrNoCamera
	}
	s.camera = cameras[0]
	return nil
}

func (s *Scene) Save(path string) error {
	return s.entities.Save(path)
}

func (s *Scene) zoom() float64 {
	z, ok := ecs.Lookup(s.camera, component.ZoomComponent.Kind())
	if !ok || z.Value <= 0 {
		return 1
	}
	return z.Value
}

func (s *Scene) cameraPosition() cp.Vector {
	if pos, ok := ecs.Lookup(s.camera, component.PositionComponent.Kind()); ok {
		return pos.Vector()
	}
	return cp.Vector{}
}

// ScreenToWorld converts a pixel position in the viewport to world space.
// The camera position is at the centre of the viewport.
func (s *Scene) ScreenToWorld(screen cp.Vector) cp.Vector {
	return screen.Sub(s.viewport.Mult(0.5)).Mult(1 / s.zoom()).Add(s.cameraPosition())
}

// WorldToScreen is the inverse of ScreenToWorld.
func (s *Scene) WorldToScreen(world cp.Vector) cp.Vector {
	return world.Sub(s.cameraPosition()).Mult(s.zoom()).Add(s.viewport.Mult(0.5))
}

// ScreenToGrid returns the grid cell under a viewport pixel.
func (s *Scene) ScreenToGrid(screen cp.Vector, floor bool) cp.Vector {
	return s.grid.WorldToGrid(s.ScreenToWorld(screen), floor)
}

// Renderables returns the entities with a position and sprite inside the
// viewport, in draw order.
func (s *Scene) Renderables() []ecs.Entity {
	lower := s.ScreenToWorld(cp.Vector{})
	upper := s.ScreenToWorld(s.viewport)

	var out []ecs.Entity
	ecs.Each(s.entities, component.MaskOf(component.PositionComponent.Kind(), component.SpriteComponent.Kind()), func(e ecs.Entity) {
		pos := ecs.Get(e, component.PositionComponent.Kind())
		if pos.X > lower.X && pos.X < upper.X && pos.Y > lower.Y && pos.Y < upper.Y {
			out = append(out, e)
		}
	})
	SortEntities(out)
	return out
}

// SortEntities orders entities for drawing: by Z layer, then by Y within a
// layer so that sprites nearer the top of the screen are drawn first.
func SortEntities(entities []ecs.Entity) {
	sort.SliceStable(entities, func(i, j int) bool {
		a := ecs.Get(entities[i], component.PositionComponent.Kind())
		b := ecs.Get(entities[j], component.PositionComponent.Kind())
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		return a.Y < b.Y
	})
}
