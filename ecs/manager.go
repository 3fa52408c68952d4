package ecs

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// TagLength is the longest tag an entity may carry; tags are stored in a
// fixed buffer of this size in save files.
const TagLength = 32

var ErrTagTooLong = errors.New("ecs: tag too long")

// Manager tracks the live entities of one simulation scope.
//
// New entities are held in a pending list until Update so that systems
// ranging over Entities never see the list change mid-tick.
type Manager struct {
	pool     *Pool
	entities []Entity
	pending  []Entity
	byTag    map[string][]Entity
	logger   *zap.Logger
}

type ManagerOption func(*Manager)

func WithLogger(logger *zap.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a directory backed by pool.
func NewManager(pool *Pool, opts ...ManagerOption) *Manager {
	if pool == nil {
		pool = NewPool(DefaultCapacity)
	}
	m := &Manager{
		pool:   pool,
		byTag:  make(map[string][]Entity),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Pool returns the backing component store.
func (m *Manager) Pool() *Pool {
	if m == nil {
		return nil
	}
	return m.pool
}

// AddEntity allocates a slot and queues its handle. The handle is visible in
// EntitiesByTag at once and in Entities after the next Update.
func (m *Manager) AddEntity(tag string) (Entity, error) {
	if len(tag) > TagLength {
		return Entity{}, fmt.Errorf("%w: %q exceeds %d bytes", ErrTagTooLong, tag, TagLength)
	}
	id, err := m.pool.Allocate(tag)
	if err != nil {
		return Entity{}, err
	}
	e := Entity{id: id, pool: m.pool}
	m.pending = append(m.pending, e)
	m.byTag[tag] = append(m.byTag[tag], e)
	return e, nil
}

// MustAddEntity is AddEntity for setup code, where running out of slots is a
// configuration error.
func (m *Manager) MustAddEntity(tag string) Entity {
	e, err := m.AddEntity(tag)
	if err != nil {
		panic(err)
	}
	return e
}

// Update makes pending entities live. Call once per tick before systems run.
func (m *Manager) Update() {
	if m == nil || len(m.pending) == 0 {
		return
	}
	m.entities = append(m.entities, m.pending...)
	m.pending = m.pending[:0]
}

// Destroy removes e from the live list, the pending list and its tag bucket
// and frees its slot.
func (m *Manager) Destroy(e Entity) error {
	if e.pool != m.pool || !m.pool.IsAlive(e.id) {
		return fmt.Errorf("%w: %d", ErrInvalidEntity, e.id)
	}

	m.entities = without(m.entities, e)
	m.pending = without(m.pending, e)

	tag := m.pool.Tag(e.id)
	if bucket, ok := m.byTag[tag]; ok {
		m.byTag[tag] = without(bucket, e)
	}

	return m.pool.Destroy(e.id)
}

// Entities returns the live entities. The slice belongs to the manager.
func (m *Manager) Entities() []Entity {
	if m == nil {
		return nil
	}
	return m.entities
}

// PendingCount returns the number of entities waiting for Update.
func (m *Manager) PendingCount() int {
	if m == nil {
		return 0
	}
	return len(m.pending)
}

// EntitiesByTag returns every entity created with tag, live or pending. An
// unseen tag gets an empty bucket so callers can hold on to it before any
// entity with that tag exists.
func (m *Manager) EntitiesByTag(tag string) []Entity {
	bucket, ok := m.byTag[tag]
	if !ok {
		bucket = []Entity{}
		m.byTag[tag] = bucket
	}
	return bucket
}

// Reset destroys every live and pending entity.
func (m *Manager) Reset() {
	if m == nil {
		return
	}
	for _, list := range [][]Entity{m.entities, m.pending} {
		for _, e := range list {
			if m.pool.IsAlive(e.id) {
				_ = m.pool.Destroy(e.id)
			}
		}
	}
	m.entities = nil
	m.pending = nil
	m.byTag = make(map[string][]Entity)
}

// without returns list minus e. A fresh slice is built so callers still
// ranging over the old one keep a consistent view.
func without(list []Entity, e Entity) []Entity {
	idx := -1
	for i, other := range list {
		if other == e {
			idx = i
			break
		}
	}
	if idx < 0 {
		return list
	}
	out := make([]Entity, 0, len(list)-1)
	out = append(out, list[:idx]...)
	return append(out, list[idx+1:]...)
}
