package system

import (
	"math"

	"github.com/milk9111/isocore/ecs"
	"github.com/milk9111/isocore/ecs/component"
)

const (
	// DefaultLoopMillis is one loop of a 24 frame animation at 60 FPS.
	DefaultLoopMillis = 400
	DefaultDirections = 8
	DefaultFrames     = 13
)

// AnimationSystem picks the sprite sheet cell for moving entities. Rows hold
// headings clockwise from up, columns hold frames; column 0 is the idle pose.
type AnimationSystem struct {
	LoopMillis int32
	Directions int
	Frames     int32
}

func NewAnimationSystem() *AnimationSystem {
	return &AnimationSystem{
		LoopMillis: DefaultLoopMillis,
		Directions: DefaultDirections,
		Frames:     DefaultFrames,
	}
}

func (a *AnimationSystem) Update(m *ecs.Manager, dt float64) {
	if a.LoopMillis <= 0 || a.Directions <= 0 || a.Frames <= 0 {
		return
	}

	ecs.ForEach3(m, component.VelocityComponent.Kind(), component.SpriteComponent.Kind(), component.AnimationComponent.Kind(),
		func(_ ecs.Entity, vel *component.Velocity, sprite *component.Sprite, anim *component.Animation) {
			row := a.row(vel.Direction.X, vel.Direction.Y)

			anim.Time += int32(dt * 1000)
			anim.Time %= a.LoopMillis

			var column int32
			if vel.Speed > 0 {
				frameMillis := max(a.LoopMillis/a.Frames, 1)
				column = min(max(anim.Time/frameMillis+1, 1), a.Frames)
			}

			sprite.Source.X = column * sprite.Source.W
			sprite.Source.Y = int32(row) * sprite.Source.H
		})
}

// row snaps a heading to one of the sheet's directions. Up (negative Y) is
// row 0.
func (a *AnimationSystem) row(x, y float64) int {
	increment := 360 / float64(a.Directions)
	degrees := math.Atan2(x, y) * 180 / math.Pi
	angle := math.Abs(degrees - 180)
	snapped := math.Round(angle / increment)
	return int(snapped) % a.Directions
}
