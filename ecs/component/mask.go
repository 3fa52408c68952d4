package component

import (
	"math/bits"
	"strings"
)

// MaxComponents is the width of a Mask.
const MaxComponents = 64

// Mask records which components are enabled on an entity, one bit per
// ComponentID.
type Mask uint64

// AllMask has a bit set for every built-in component type.
const AllMask Mask = 1<<Count - 1

// MaskOf builds a mask with the bits of every kind set.
func MaskOf(kinds ...Kind) Mask {
	var m Mask
	for _, k := range kinds {
		m = m.With(k.ID())
	}
	return m
}

func (m Mask) With(id ComponentID) Mask {
	return m | 1<<id
}

func (m Mask) Without(id ComponentID) Mask {
	return m &^ (1 << id)
}

func (m Mask) Has(id ComponentID) bool {
	return m&(1<<id) != 0
}

// Contains reports whether every bit set in sub is also set in m.
func (m Mask) Contains(sub Mask) bool {
	return m&sub == sub
}

func (m Mask) Len() int {
	return bits.OnesCount64(uint64(m))
}

func (m Mask) String() string {
	if m == 0 {
		return "[]"
	}
	var sb strings.Builder
	sb.WriteByte('[')
	first := true
	for id := ComponentID(0); id < MaxComponents; id++ {
		if !m.Has(id) {
			continue
		}
		if !first {
			sb.WriteByte(' ')
		}
		first = false
		sb.WriteString(id.String())
	}
	sb.WriteByte(']')
	return sb.String()
}
