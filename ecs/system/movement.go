package system

import (
	"github.com/milk9111/isocore/ecs"
	"github.com/milk9111/isocore/ecs/component"
)

// MovementSystem moves every entity with a velocity along its direction.
type MovementSystem struct{}

func NewMovementSystem() *MovementSystem {
	return &MovementSystem{}
}

func (ms *MovementSystem) Update(m *ecs.Manager, dt float64) {
	ecs.ForEach2(m, component.PositionComponent.Kind(), component.VelocityComponent.Kind(), func(_ ecs.Entity, pos *component.Position, vel *component.Velocity) {
		if vel.Direction.LengthSq() == 0 {
			return
		}
		vel.Direction = vel.Direction.Normalize()
		pos.SetVector(pos.Vector().Add(vel.Direction.Mult(vel.Speed * dt)))
	})
}
