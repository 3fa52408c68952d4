package ecs

import "github.com/milk9111/isocore/ecs/component"

// Slice is a copy of every component of one entity, used when an entity has
// to be treated as a unit (save files, undo snapshots).
type Slice struct {
	Position    component.Position
	Velocity    component.Velocity
	Zoom        component.Zoom
	Sprite      component.Sprite
	Animation   component.Animation
	Collider    component.Collider
	Pathfinding component.Pathfinding
}

// RefSlice points at every component of one entity in place.
type RefSlice struct {
	Position    *component.Position
	Velocity    *component.Velocity
	Zoom        *component.Zoom
	Sprite      *component.Sprite
	Animation   *component.Animation
	Collider    *component.Collider
	Pathfinding *component.Pathfinding
}

// RefSlice returns pointers to the storage of id.
func (p *Pool) RefSlice(id int) RefSlice {
	return RefSlice{
		Position:    GetComponent(p, id, component.PositionComponent.Kind()),
		Velocity:    GetComponent(p, id, component.VelocityComponent.Kind()),
		Zoom:        GetComponent(p, id, component.ZoomComponent.Kind()),
		Sprite:      GetComponent(p, id, component.SpriteComponent.Kind()),
		Animation:   GetComponent(p, id, component.AnimationComponent.Kind()),
		Collider:    GetComponent(p, id, component.ColliderComponent.Kind()),
		Pathfinding: GetComponent(p, id, component.PathfindingComponent.Kind()),
	}
}

// Slice copies every component of id.
func (p *Pool) Slice(id int) Slice {
	return p.RefSlice(id).Copy()
}

// SetSlice writes every component of s into id.
func (p *Pool) SetSlice(id int, s Slice) {
	r := p.RefSlice(id)
	*r.Position = s.Position
	*r.Velocity = s.Velocity
	*r.Zoom = s.Zoom
	*r.Sprite = s.Sprite
	*r.Animation = s.Animation
	*r.Collider = s.Collider
	*r.Pathfinding = s.Pathfinding
}

// Copy dereferences every pointer into an owned Slice.
func (r RefSlice) Copy() Slice {
	return Slice{
		Position:    *r.Position,
		Velocity:    *r.Velocity,
		Zoom:        *r.Zoom,
		Sprite:      *r.Sprite,
		Animation:   *r.Animation,
		Collider:    *r.Collider,
		Pathfinding: *r.Pathfinding,
	}
}
