package command

import (
	"fmt"

	"github.com/milk9111/isocore/ecs"
	"github.com/milk9111/isocore/ecs/component"
)

// DefaultTag is given to entities created without a tag.
const DefaultTag = "TileSet"

// CreateEntity adds an entity with the given components. Undo destroys it.
type CreateEntity struct {
	entities *ecs.Manager
	tag      string
	slice    ecs.Slice
	enabled  component.Mask

	created ecs.Entity
}

func NewCreateEntity(entities *ecs.Manager, tag string, slice ecs.Slice, enabled component.Mask) *CreateEntity {
	if tag == "" {
		tag = DefaultTag
	}
	return &CreateEntity{entities: entities, tag: tag, slice: slice, enabled: enabled}
}

func (c *CreateEntity) Execute() error {
	e, err := restore(c.entities, c.tag, c.slice, c.enabled)
	if err != nil {
		return err
	}
	c.created = e
	return nil
}

// Undo destroys the created entity. Because ids are reused last-freed-first,
// the handle stays valid even if a later delete was undone in between.
func (c *CreateEntity) Undo() error {
	if !c.created.Valid() {
		return fmt.Errorf("%w: nothing created", ecs.ErrInvalidEntity)
	}
	if err := c.entities.Destroy(c.created); err != nil {
		return err
	}
	c.created = ecs.Entity{}
	return nil
}

// Created returns the entity from the last Execute.
func (c *CreateEntity) Created() ecs.Entity {
	return c.created
}

func (c *CreateEntity) String() string {
	return fmt.Sprintf("create %s entity %s with %d components", c.tag, c.created, c.enabled.Len())
}

// DeleteEntity destroys an entity, keeping a copy of its components so that
// Undo can recreate it.
type DeleteEntity struct {
	entities *ecs.Manager
	target   ecs.Entity
	tag      string
	slice    ecs.Slice
	enabled  component.Mask
}

// NewDeleteEntity snapshots e. The snapshot is taken now, not at Execute.
func NewDeleteEntity(entities *ecs.Manager, e ecs.Entity) *DeleteEntity {
	return &DeleteEntity{
		entities: entities,
		target:   e,
		tag:      e.Tag(),
		slice:    e.Slice(),
		enabled:  e.Enabled(),
	}
}

func (d *DeleteEntity) Execute() error {
	return d.entities.Destroy(d.target)
}

func (d *DeleteEntity) Undo() error {
	e, err := restore(d.entities, d.tag, d.slice, d.enabled)
	if err != nil {
		return err
	}
	d.target = e
	return nil
}

func (d *DeleteEntity) String() string {
	return fmt.Sprintf("delete %s entity %s with %d components", d.tag, d.target, d.enabled.Len())
}

func restore(entities *ecs.Manager, tag string, slice ecs.Slice, enabled component.Mask) (ecs.Entity, error) {
	e, err := entities.AddEntity(tag)
	if err != nil {
		return ecs.Entity{}, err
	}
	pool := entities.Pool()
	pool.SetSlice(e.ID(), slice)
	if err := pool.SetEnabled(e.ID(), enabled); err != nil {
		return ecs.Entity{}, err
	}
	return e, nil
}
