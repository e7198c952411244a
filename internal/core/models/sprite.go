package models

import "github.com/zeusync/snakecore/internal/core/platform"

// Sprite draws the owner's texture at the owner's position, size and
// rotation. Entities without a texture are skipped.
type Sprite struct {
	BaseComponent
	layer int
}

func NewSprite(layer int) *Sprite { return &Sprite{layer: layer} }

func (s *Sprite) Layer() int { return s.layer }

func (s *Sprite) Render(surface platform.Surface) {
	owner := s.Owner()
	if owner == nil || owner.Texture() == nil {
		return
	}
	surface.DrawSprite(owner.Texture(), owner.Position(), owner.Size(), owner.Rotation())
}

// BoundingBox gives an entity without a physics body a box for overlap
// checks. A zero Half falls back to half the owner's size.
type BoundingBox struct {
	BaseComponent
	Half Vec2
}

func NewBoundingBox(halfW, halfH float64) *BoundingBox {
	return &BoundingBox{Half: Vec2{halfW, halfH}}
}

func (b *BoundingBox) Bounds() AABB {
	owner := b.Owner()
	half := b.Half
	if half == (Vec2{}) {
		half = owner.Size().Mul(0.5)
	}
	return AABB{Center: owner.Position(), Half: half}
}
