package models

import (
	"github.com/zeusync/snakecore/internal/core/platform"
	"github.com/zeusync/snakecore/internal/core/systems/physics"
)

// Capability flags are derived from the attached components when they are
// attached, so dispatchers never type-switch on entities per frame.
type Capability uint16

const (
	CapCollidable Capability = 1 << iota
	CapMovable
	CapRenderable
	CapDisposable
	CapBounded
	CapEmbodied
)

func (c Capability) Has(other Capability) bool { return c&other == other }

// Collidable components receive collision notifications for their owner.
type Collidable interface {
	OnCollision(other *Entity)
}

// Disposable components release resources when their owner is disposed.
type Disposable interface {
	Dispose()
}

// Renderable components draw their owner.
type Renderable interface {
	Render(s platform.Surface)
}

// Layered renderables are drawn in ascending layer order.
type Layered interface {
	Layer() int
}

// Movable components are driven by the movement manager.
type Movable interface {
	Move(force Vec2)
	Stop()
}

// Bounded components expose an axis-aligned box for the overlap fallback scan.
type Bounded interface {
	Bounds() AABB
}

// Embodied components tie their owner to a physics body. Those entities get
// collisions from contact callbacks, not from the overlap scan.
type Embodied interface {
	Body() physics.Body
}

func capabilitiesOf(c Component) Capability {
	var caps Capability
	if _, ok := c.(Collidable); ok {
		caps |= CapCollidable
	}
	if _, ok := c.(Movable); ok {
		caps |= CapMovable
	}
	if _, ok := c.(Renderable); ok {
		caps |= CapRenderable
	}
	if _, ok := c.(Disposable); ok {
		caps |= CapDisposable
	}
	if _, ok := c.(Bounded); ok {
		caps |= CapBounded
	}
	if _, ok := c.(Embodied); ok {
		caps |= CapEmbodied
	}
	return caps
}

// CollisionFilter restricts which entities may collide. Two entities collide
// when each one's category is accepted by the other's mask.
type CollisionFilter struct {
	Category uint32
	Mask     uint32
}

// DefaultCollisionFilter collides with everything.
var DefaultCollisionFilter = CollisionFilter{Category: 1, Mask: ^uint32(0)}

func (f CollisionFilter) Accepts(other CollisionFilter) bool {
	return f.Mask&other.Category != 0 && other.Mask&f.Category != 0
}
