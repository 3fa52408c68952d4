package component

import (
	"bytes"

	"github.com/jakecoffman/cp"
)

// TextureNameLength is the size of the fixed texture name buffer.
const TextureNameLength = 64

// SourceRect is the sub-rectangle of a texture to draw, in pixels.
type SourceRect struct {
	X int32
	Y int32
	W int32
	H int32
}

// Sprite holds static render data. PivotOffset moves the entity origin, e.g.
// to the tip of an isometric floor diamond or a character's feet.
type Sprite struct {
	TextureName [TextureNameLength]byte
	Source      SourceRect
	PivotOffset cp.Vector
}

// SetTexture stores name, truncating it to the buffer size.
func (s *Sprite) SetTexture(name string) {
	s.TextureName = [TextureNameLength]byte{}
	copy(s.TextureName[:], name)
}

func (s Sprite) Texture() string {
	name := s.TextureName[:]
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	return string(name)
}

var SpriteComponent = newComponent[Sprite](SpriteID)
