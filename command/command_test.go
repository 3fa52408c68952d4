package command

import (
	"errors"
	"testing"

	"github.com/milk9111/isocore/ecs"
	"github.com/milk9111/isocore/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func positionSlice(x, y float64) (ecs.Slice, component.Mask) {
	var s ecs.Slice
	s.Position = component.Position{X: x, Y: y}
	return s, component.PositionComponent.Kind().Mask()
}

func newEntities() *ecs.Manager {
	return ecs.NewManager(ecs.NewPool(16))
}

func TestCreateEntityExecute(t *testing.T) {
	entities := newEntities()
	history := NewManager()

	slice, mask := positionSlice(5, 10)
	require.NoError(t, history.Do(NewCreateEntity(entities, "", slice, mask)))
	entities.Update()

	require.Len(t, entities.Entities(), 1)
	e := entities.Entities()[0]
	assert.True(t, ecs.Has(e, component.PositionComponent.Kind()))
	assert.False(t, ecs.Has(e, component.SpriteComponent.Kind()))
	assert.Equal(t, DefaultTag, e.Tag())
	assert.Equal(t, 5.0, ecs.Get(e, component.PositionComponent.Kind()).X)
}

func TestDeleteEntityExecute(t *testing.T) {
	entities := newEntities()
	history := NewManager()

	slice, mask := positionSlice(5, 10)
	require.NoError(t, history.Do(NewCreateEntity(entities, "Tile", slice, mask)))
	entities.Update()
	require.Len(t, entities.Entities(), 1)

	require.NoError(t, history.Do(NewDeleteEntity(entities, entities.Entities()[0])))
	entities.Update()
	assert.Empty(t, entities.Entities())
}

func TestEntityCommandDescriptions(t *testing.T) {
	entities := newEntities()

	slice, mask := positionSlice(1, 2)
	mask = mask.With(component.SpriteID)
	create := NewCreateEntity(entities, "Wall", slice, mask)
	require.NoError(t, create.Execute())
	assert.Equal(t, "create Wall entity 0 with 2 components", describe(create))

	del := NewDeleteEntity(entities, create.Created())
	assert.Equal(t, "delete Wall entity 0 with 2 components", describe(del))
}

func TestUndoRedo(t *testing.T) {
	entities := newEntities()
	history := NewManager()

	slice, mask := positionSlice(5, 10)
	require.NoError(t, history.Do(NewCreateEntity(entities, "Tile", slice, mask)))
	entities.Update()
	require.Len(t, entities.Entities(), 1)

	ok, err := history.Undo()
	require.NoError(t, err)
	assert.True(t, ok)
	entities.Update()
	assert.Empty(t, entities.Entities())
	assert.True(t, history.CanRedo())

	ok, err = history.Redo()
	require.NoError(t, err)
	assert.True(t, ok)
	entities.Update()
	require.Len(t, entities.Entities(), 1)
	assert.Equal(t, 5.0, ecs.Get(entities.Entities()[0], component.PositionComponent.Kind()).X)
}

func TestEmptyHistory(t *testing.T) {
	history := NewManager()

	ok, err := history.Undo()
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = history.Redo()
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, history.Do(nil), ErrNilCommand)
}

func TestCreateDeleteUndoRestoresID(t *testing.T) {
	entities := newEntities()
	history := NewManager()

	slice, mask := positionSlice(5, 10)
	require.NoError(t, history.Do(NewCreateEntity(entities, "Tile", slice, mask)))
	entities.Update()
	want := entities.Entities()[0].ID()

	require.NoError(t, history.Do(NewDeleteEntity(entities, entities.Entities()[0])))
	entities.Update()
	require.Empty(t, entities.Entities())

	_, err := history.Undo()
	require.NoError(t, err)
	entities.Update()
	require.Len(t, entities.Entities(), 1)
	assert.Equal(t, want, entities.Entities()[0].ID())
	assert.Equal(t, "Tile", entities.Entities()[0].Tag())
	assert.Equal(t, mask, entities.Entities()[0].Enabled())

	// Undoing the create must remove the recreated entity, leaving nothing.
	_, err = history.Undo()
	require.NoError(t, err)
	entities.Update()
	assert.Empty(t, entities.Entities())
	assert.Zero(t, entities.Pool().AliveCount())

	// And both redo cleanly.
	for i := 0; i < 2; i++ {
		ok, err := history.Redo()
		require.NoError(t, err)
		require.True(t, ok)
	}
	entities.Update()
	assert.Empty(t, entities.Entities())
}

func TestCreateUndoUndo(t *testing.T) {
	entities := newEntities()
	history := NewManager()

	slice, mask := positionSlice(1, 2)
	require.NoError(t, history.Do(NewCreateEntity(entities, "Tile", slice, mask)))
	entities.Update()

	_, err := history.Undo()
	require.NoError(t, err)
	ok, err := history.Undo()
	require.NoError(t, err)
	assert.False(t, ok)

	entities.Update()
	assert.Empty(t, entities.Entities())
}

func TestDoClearsRedo(t *testing.T) {
	entities := newEntities()
	history := NewManager()

	slice, mask := positionSlice(1, 2)
	require.NoError(t, history.Do(NewCreateEntity(entities, "a", slice, mask)))
	_, err := history.Undo()
	require.NoError(t, err)
	require.True(t, history.CanRedo())

	require.NoError(t, history.Do(NewCreateEntity(entities, "b", slice, mask)))
	assert.False(t, history.CanRedo())
}

type recordingCommand struct {
	name string
	log  *[]string
	fail bool
}

func (r *recordingCommand) Execute() error {
	if r.fail {
		return errors.New("boom")
	}
	*r.log = append(*r.log, "do "+r.name)
	return nil
}

func (r *recordingCommand) Undo() error {
	*r.log = append(*r.log, "undo "+r.name)
	return nil
}

func TestHistoryLimitAndOrder(t *testing.T) {
	var log []string
	history := NewManager(WithLimit(2))
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, history.Do(&recordingCommand{name: name, log: &log}))
	}

	for history.CanUndo() {
		_, err := history.Undo()
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"do a", "do b", "do c", "undo c", "undo b"}, log)
}

func TestFailedExecuteIsNotRecorded(t *testing.T) {
	var log []string
	history := NewManager()
	err := history.Do(&recordingCommand{name: "x", log: &log, fail: true})
	require.Error(t, err)
	assert.False(t, history.CanUndo())
}

func TestCreateEntityPoolExhausted(t *testing.T) {
	entities := ecs.NewManager(ecs.NewPool(1))
	history := NewManager()
	slice, mask := positionSlice(0, 0)

	require.NoError(t, history.Do(NewCreateEntity(entities, "a", slice, mask)))
	err := history.Do(NewCreateEntity(entities, "b", slice, mask))
	assert.ErrorIs(t, err, ecs.ErrPoolExhausted)
}
