package ecs

import (
	"strconv"

	"github.com/milk9111/isocore/ecs/component"
)

// Entity is a handle to one slot of a Pool. Handles are values and compare
// equal when they name the same slot of the same pool.
type Entity struct {
	id   int
	pool *Pool
}

func (e Entity) ID() int {
	return e.id
}

// Valid reports whether the handle was produced by a Manager.
func (e Entity) Valid() bool {
	return e.pool != nil
}

// Alive reports whether the slot is still allocated.
func (e Entity) Alive() bool {
	return e.pool.IsAlive(e.id)
}

func (e Entity) Tag() string {
	return e.pool.Tag(e.id)
}

// Enabled returns the component bitset of the entity.
func (e Entity) Enabled() component.Mask {
	return e.pool.Enabled(e.id)
}

// Has reports whether every kind is enabled on the entity.
func (e Entity) Has(kinds ...component.Kind) bool {
	return e.pool.HasComponents(e.id, kinds...)
}

// Slice copies every component of the entity.
func (e Entity) Slice() Slice {
	return e.pool.Slice(e.id)
}

// Refs points at every component of the entity.
func (e Entity) Refs() RefSlice {
	return e.pool.RefSlice(e.id)
}

func (e Entity) String() string {
	return strconv.Itoa(e.id)
}

// Add enables T on e and returns its storage for initialisation.
func Add[T any](e Entity, kind component.ComponentKind[T]) *T {
	ptr, err := EnableComponent(e.pool, e.id, kind)
	if err != nil {
		panic("ecs: add " + kind.ID().String() + ": " + err.Error())
	}
	return ptr
}

// Get returns the storage of T on e without checking the enabled bit.
func Get[T any](e Entity, kind component.ComponentKind[T]) *T {
	return GetComponent(e.pool, e.id, kind)
}

// Lookup returns the storage of T on e if it is enabled.
func Lookup[T any](e Entity, kind component.ComponentKind[T]) (*T, bool) {
	return LookupComponent(e.pool, e.id, kind)
}

func Has[T any](e Entity, kind component.ComponentKind[T]) bool {
	return HasComponent(e.pool, e.id, kind)
}
