package ecs

import (
	"errors"
	"fmt"

	"github.com/milk9111/isocore/ecs/component"
)

// DefaultCapacity is the number of entity slots used when none is configured.
const DefaultCapacity = 16384

var (
	ErrPoolExhausted = errors.New("ecs: entity pool exhausted")
	ErrInvalidEntity = errors.New("ecs: invalid entity")
)

type column interface {
	reset(id int)
}

type denseColumn[T any] struct {
	data []T
}

func newColumn[T any](capacity int) *denseColumn[T] {
	return &denseColumn[T]{data: make([]T, capacity)}
}

func (c *denseColumn[T]) reset(id int) {
	var zero T
	c.data[id] = zero
}

// Pool is fixed-capacity columnar storage for every component type. Each
// component type owns one dense column indexed by entity id.
type Pool struct {
	columns  [component.Count]column
	enabled  []component.Mask
	tags     []string
	alive    []bool
	free     []int
	capacity int
	count    int
}

// NewPool preallocates storage for capacity entities. The free list is seeded
// so that id 0 is handed out first.
func NewPool(capacity int) *Pool {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	p := &Pool{
		enabled:  make([]component.Mask, capacity),
		tags:     make([]string, capacity),
		alive:    make([]bool, capacity),
		free:     make([]int, 0, capacity),
		capacity: capacity,
	}

	p.columns[component.PositionID] = newColumn[component.Position](capacity)
	p.columns[component.VelocityID] = newColumn[component.Velocity](capacity)
	p.columns[component.ZoomID] = newColumn[component.Zoom](capacity)
	p.columns[component.SpriteID] = newColumn[component.Sprite](capacity)
	p.columns[component.AnimationID] = newColumn[component.Animation](capacity)
	p.columns[component.ColliderID] = newColumn[component.Collider](capacity)
	p.columns[component.PathfindingID] = newColumn[component.Pathfinding](capacity)

	for i := capacity - 1; i >= 0; i-- {
		p.free = append(p.free, i)
	}
	return p
}

// Capacity returns the fixed number of slots.
func (p *Pool) Capacity() int {
	if p == nil {
		return 0
	}
	return p.capacity
}

// AliveCount returns the number of allocated slots.
func (p *Pool) AliveCount() int {
	if p == nil {
		return 0
	}
	return p.count
}

// Allocate pops the most recently freed id, resets every component at that
// id and stores tag. It fails with ErrPoolExhausted when no slot is free.
func (p *Pool) Allocate(tag string) (int, error) {
	if p == nil {
		return 0, ErrInvalidEntity
	}
	if len(p.free) == 0 {
		return 0, fmt.Errorf("%w: capacity %d", ErrPoolExhausted, p.capacity)
	}

	// Ids must be reused last-freed-first so that undo of a delete gets the
	// deleted id back.
	id := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]

	for _, c := range p.columns {
		c.reset(id)
	}
	p.enabled[id] = 0
	p.tags[id] = tag
	p.alive[id] = true
	p.count++
	return id, nil
}

// Destroy clears the enabled bits of id and returns it to the free list.
// Component values are left in place until the id is allocated again.
func (p *Pool) Destroy(id int) error {
	if !p.IsAlive(id) {
		return fmt.Errorf("%w: destroy %d", ErrInvalidEntity, id)
	}
	p.enabled[id] = 0
	p.alive[id] = false
	p.free = append(p.free, id)
	p.count--
	return nil
}

// IsAlive reports whether id is allocated.
func (p *Pool) IsAlive(id int) bool {
	return p != nil && id >= 0 && id < p.capacity && p.alive[id]
}

func (p *Pool) Tag(id int) string {
	if !p.inRange(id) {
		return ""
	}
	return p.tags[id]
}

// Enabled returns the component bitset of id.
func (p *Pool) Enabled(id int) component.Mask {
	if !p.inRange(id) {
		return 0
	}
	return p.enabled[id]
}

// SetEnabled overwrites the component bitset of id.
func (p *Pool) SetEnabled(id int, m component.Mask) error {
	if !p.IsAlive(id) {
		return fmt.Errorf("%w: set enabled %d", ErrInvalidEntity, id)
	}
	p.enabled[id] = m & component.AllMask
	return nil
}

// Enable marks a component as attached to id.
func (p *Pool) Enable(id int, cid component.ComponentID) error {
	if !cid.Valid() {
		return component.ErrInvalidComponentKind
	}
	if !p.IsAlive(id) {
		return fmt.Errorf("%w: enable %s on %d", ErrInvalidEntity, cid, id)
	}
	p.enabled[id] = p.enabled[id].With(cid)
	return nil
}

// HasComponents reports whether every given kind is enabled on id.
func (p *Pool) HasComponents(id int, kinds ...component.Kind) bool {
	return p.HasMask(id, component.MaskOf(kinds...))
}

// HasMask reports whether every bit of required is enabled on id.
func (p *Pool) HasMask(id int, required component.Mask) bool {
	if !p.inRange(id) {
		return false
	}
	return p.enabled[id].Contains(required)
}

func (p *Pool) inRange(id int) bool {
	return p != nil && id >= 0 && id < p.capacity
}

func columnOf[T any](p *Pool, kind component.ComponentKind[T]) []T {
	return p.columns[kind.ID()].(*denseColumn[T]).data
}

// GetComponent returns a pointer into the column of T at id. The enabled bit
// is not consulted; check it first or use LookupComponent.
func GetComponent[T any](p *Pool, id int, kind component.ComponentKind[T]) *T {
	return &columnOf(p, kind)[id]
}

// LookupComponent combines HasComponent and GetComponent.
func LookupComponent[T any](p *Pool, id int, kind component.ComponentKind[T]) (*T, bool) {
	if !HasComponent(p, id, kind) {
		return nil, false
	}
	return GetComponent(p, id, kind), true
}

func HasComponent[T any](p *Pool, id int, kind component.ComponentKind[T]) bool {
	return p.HasMask(id, kind.Mask())
}

// EnableComponent sets the bit of T on id and returns its storage.
func EnableComponent[T any](p *Pool, id int, kind component.ComponentKind[T]) (*T, error) {
	if err := p.Enable(id, kind.ID()); err != nil {
		return nil, err
	}
	return GetComponent(p, id, kind), nil
}
