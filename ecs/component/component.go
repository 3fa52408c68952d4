package component

import "errors"

var ErrInvalidComponentKind = errors.New("ecs: invalid component kind")

// ComponentID is the bit index of a component type in a Mask. The values are
// written to save files, so existing ids must never be renumbered.
type ComponentID uint8

const (
	PositionID ComponentID = iota
	VelocityID
	ZoomID
	SpriteID
	AnimationID
	ColliderID
	PathfindingID

	// Count is the number of component types.
	Count
)

var componentNames = [Count]string{
	PositionID:    "Position",
	VelocityID:    "Velocity",
	ZoomID:        "Zoom",
	SpriteID:      "Sprite",
	AnimationID:   "Animation",
	ColliderID:    "Collider",
	PathfindingID: "Pathfinding",
}

func (id ComponentID) String() string {
	if id >= Count {
		return "Unknown"
	}
	return componentNames[id]
}

// Valid reports whether id names one of the built-in component types.
func (id ComponentID) Valid() bool {
	return id < Count
}

// Kind is satisfied by every ComponentKind regardless of its type parameter,
// which lets mixed kinds be passed together.
type Kind interface {
	ID() ComponentID
}

type ComponentKind[T any] struct {
	id ComponentID
}

func (k ComponentKind[T]) ID() ComponentID {
	return k.id
}

func (k ComponentKind[T]) Mask() Mask {
	return Mask(0).With(k.id)
}

type ComponentHandle[T any] struct {
	kind ComponentKind[T]
}

func newComponent[T any](id ComponentID) ComponentHandle[T] {
	return ComponentHandle[T]{kind: ComponentKind[T]{id: id}}
}

func (h ComponentHandle[T]) Kind() ComponentKind[T] {
	return h.kind
}
