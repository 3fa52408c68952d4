package ecs

import "github.com/milk9111/isocore/ecs/component"

// Each calls fn for every live entity whose bitset contains required. fn may
// add or destroy entities; the iteration covers the live list as it was when
// Each was called.
func Each(m *Manager, required component.Mask, fn func(Entity)) {
	if m == nil || fn == nil {
		return
	}
	for _, e := range m.Entities() {
		if e.Alive() && e.pool.HasMask(e.id, required) {
			fn(e)
		}
	}
}

// Query collects the live entities carrying every kind.
func Query(m *Manager, kinds ...component.Kind) []Entity {
	var out []Entity
	Each(m, component.MaskOf(kinds...), func(e Entity) {
		out = append(out, e)
	})
	return out
}

// ForEach calls fn with the storage of T for every live entity that has it.
func ForEach[T any](m *Manager, kind component.ComponentKind[T], fn func(Entity, *T)) {
	Each(m, kind.Mask(), func(e Entity) {
		fn(e, GetComponent(e.pool, e.id, kind))
	})
}

func ForEach2[A, B any](m *Manager, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	Each(m, ka.Mask()|kb.Mask(), func(e Entity) {
		fn(e, GetComponent(e.pool, e.id, ka), GetComponent(e.pool, e.id, kb))
	})
}

func ForEach3[A, B, C any](m *Manager, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	Each(m, ka.Mask()|kb.Mask()|kc.Mask(), func(e Entity) {
		fn(e, GetComponent(e.pool, e.id, ka), GetComponent(e.pool, e.id, kb), GetComponent(e.pool, e.id, kc))
	})
}
