package box2d

import (
	b2 "github.com/ByteArena/box2d"

	"github.com/zeusync/snakecore/internal/core/systems/physics"
)

var _ physics.Body = (*Body)(nil)

// Body is a handle onto a Box2D body owned by World. Once the world
// destroys it every accessor returns zero values and every mutator is a
// no-op.
type Body struct {
	raw      *b2.B2Body
	typ      physics.BodyType
	userData any
}

func (b *Body) Type() physics.BodyType { return b.typ }
func (b *Body) Valid() bool            { return b.raw != nil }

func (b *Body) Position() physics.Vec2 {
	if b.raw == nil {
		return physics.Vec2{}
	}
	return fromB2(b.raw.GetPosition())
}

func (b *Body) SetPosition(p physics.Vec2) {
	if b.raw == nil {
		return
	}
	b.raw.SetTransform(toB2(p), b.raw.GetAngle())
}

func (b *Body) Velocity() physics.Vec2 {
	if b.raw == nil {
		return physics.Vec2{}
	}
	return fromB2(b.raw.GetLinearVelocity())
}

func (b *Body) SetVelocity(v physics.Vec2) {
	if b.raw == nil {
		return
	}
	b.raw.SetLinearVelocity(toB2(v))
}

func (b *Body) Angle() float64 {
	if b.raw == nil {
		return 0
	}
	return b.raw.GetAngle()
}

func (b *Body) SetAngle(a float64) {
	if b.raw == nil {
		return
	}
	b.raw.SetTransform(b.raw.GetPosition(), a)
}

func (b *Body) ApplyForce(f physics.Vec2) {
	if b.raw == nil {
		return
	}
	b.raw.ApplyForce(toB2(f), b.raw.GetWorldCenter(), true)
}

func (b *Body) ApplyImpulse(i physics.Vec2) {
	if b.raw == nil {
		return
	}
	b.raw.ApplyLinearImpulse(toB2(i), b.raw.GetWorldCenter(), true)
}

func (b *Body) ApplyTorque(t float64) {
	if b.raw == nil {
		return
	}
	b.raw.ApplyTorque(t, true)
}

// Mass reports the simulated mass, zero for static and kinematic bodies.
func (b *Body) Mass() float64 {
	if b.raw == nil {
		return 0
	}
	return b.raw.GetMass()
}

func (b *Body) UserData() any        { return b.userData }
func (b *Body) SetUserData(data any) { b.userData = data }
