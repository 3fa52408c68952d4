package component

import (
	"testing"

	"github.com/jakecoffman/cp"
)

func TestMask(t *testing.T) {
	m := MaskOf(PositionComponent.Kind(), ColliderComponent.Kind())
	if !m.Has(PositionID) || !m.Has(ColliderID) {
		t.Fatalf("expected position and collider bits in %v", m)
	}
	if m.Has(SpriteID) {
		t.Fatalf("sprite bit should not be set in %v", m)
	}
	if !m.Contains(PositionComponent.Kind().Mask()) {
		t.Fatalf("mask should contain its own bit")
	}
	if m.Contains(MaskOf(PositionComponent.Kind(), SpriteComponent.Kind())) {
		t.Fatalf("mask should not contain a superset")
	}
	if got := m.Without(PositionID); got.Has(PositionID) || got.Len() != 1 {
		t.Fatalf("unexpected mask after Without: %v", got)
	}
	if got := m.String(); got != "[Position Collider]" {
		t.Fatalf("unexpected string %q", got)
	}
	if AllMask.Len() != int(Count) {
		t.Fatalf("AllMask should have %d bits, got %d", Count, AllMask.Len())
	}
}

func TestSpriteTexture(t *testing.T) {
	var s Sprite
	s.SetTexture("AnimationSheet.png")
	if got := s.Texture(); got != "AnimationSheet.png" {
		t.Fatalf("unexpected texture %q", got)
	}
	s.SetTexture("a")
	if got := s.Texture(); got != "a" {
		t.Fatalf("stale bytes after shorter name: %q", got)
	}
}

func TestColliderPoints(t *testing.T) {
	var c Collider
	c.SetPoints(cp.Vector{X: 0, Y: 0}, cp.Vector{X: 10, Y: 0})
	if got := c.PointSlice(); len(got) != 2 || got[1].X != 10 {
		t.Fatalf("unexpected points %v", got)
	}

	many := make([]cp.Vector, MaxColliderPoints+5)
	c.SetPoints(many...)
	if c.NumPoints != MaxColliderPoints {
		t.Fatalf("expected points capped at %d, got %d", MaxColliderPoints, c.NumPoints)
	}
}
