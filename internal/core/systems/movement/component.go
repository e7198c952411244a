package movement

import (
	"github.com/zeusync/snakecore/internal/core/models"
	"github.com/zeusync/snakecore/internal/core/systems/physics"
)

var (
	_ models.Movable    = (*Component)(nil)
	_ models.Disposable = (*Component)(nil)
	_ models.Embodied   = (*Component)(nil)
)

// Component drives its owner through a physics body it does not own. The
// world creates and destroys the body; the component only holds a handle,
// and the handle is dropped on Dispose or Invalidate.
//
// The body position is authoritative. The owner's position is a cache that
// Update refreshes every frame.
type Component struct {
	models.BaseComponent
	body        physics.Body
	invalidated bool
}

func NewComponent(body physics.Body) *Component {
	return &Component{body: body}
}

// Attach creates a dynamic box body matching e's position and size and
// attaches a Component driving it. The body is destroyed again if the
// component cannot be attached.
func Attach(world physics.World, e *models.Entity, mass float64) (*Component, error) {
	if world == nil {
		return nil, ErrNilWorld
	}
	body, err := world.CreateBody(physics.BodyDef{
		Type:     physics.BodyDynamic,
		Shape:    physics.ShapeBox,
		Position: e.Position(),
		Width:    e.Size()[0],
		Height:   e.Size()[1],
		Mass:     mass,
		UserData: e,
	})
	if err != nil {
		return nil, err
	}
	c := NewComponent(body)
	if err := e.AddComponent(c); err != nil {
		world.DestroyBody(body)
		return nil, err
	}
	return c, nil
}

func (c *Component) Initialize() error {
	if c.body == nil {
		return ErrNilBody
	}
	c.SyncOwner()
	return nil
}

func (c *Component) Update(float64) { c.SyncOwner() }

// Body returns the handle, or nil once it has been dropped.
func (c *Component) Body() physics.Body {
	if !c.Valid() {
		return nil
	}
	return c.body
}

func (c *Component) Valid() bool {
	return c.body != nil && !c.invalidated && c.body.Valid()
}

// Move overrides the body's linear velocity with force. Nothing accumulates
// across frames.
func (c *Component) Move(force physics.Vec2) {
	if c.Valid() {
		c.body.SetVelocity(force)
	}
}

func (c *Component) Stop() {
	if c.Valid() {
		c.body.SetVelocity(physics.Vec2{})
	}
}

// Position reads the body, falling back to the owner's cached position when
// the body is gone.
func (c *Component) Position() physics.Vec2 {
	if c.Valid() {
		return c.body.Position()
	}
	if owner := c.Owner(); owner != nil {
		return owner.Position()
	}
	return physics.Vec2{}
}

func (c *Component) SetPosition(p physics.Vec2) {
	if c.Valid() {
		c.body.SetPosition(p)
	}
	if owner := c.Owner(); owner != nil {
		owner.SetPosition(p)
	}
}

func (c *Component) Velocity() physics.Vec2 {
	if !c.Valid() {
		return physics.Vec2{}
	}
	return c.body.Velocity()
}

func (c *Component) ApplyForce(f physics.Vec2) {
	if c.Valid() {
		c.body.ApplyForce(f)
	}
}

func (c *Component) ApplyImpulse(i physics.Vec2) {
	if c.Valid() {
		c.body.ApplyImpulse(i)
	}
}

func (c *Component) ApplyTorque(t float64) {
	if c.Valid() {
		c.body.ApplyTorque(t)
	}
}

// SetAngle turns the body and mirrors the angle into the owner's rotation.
func (c *Component) SetAngle(rad float64) {
	if c.Valid() {
		c.body.SetAngle(rad)
	}
	if owner := c.Owner(); owner != nil {
		owner.SetRotation(rad)
	}
}

// SyncOwner copies the body's position and angle into the owner.
func (c *Component) SyncOwner() {
	owner := c.Owner()
	if owner == nil || !c.Valid() {
		return
	}
	owner.SetPosition(c.body.Position())
	owner.SetRotation(c.body.Angle())
}

// Invalidate is called when the world destroyed the body out from under the
// component. Every later call becomes a no-op.
func (c *Component) Invalidate() { c.invalidated = true }

// Dispose drops the handle without destroying the body.
func (c *Component) Dispose() { c.body = nil }
