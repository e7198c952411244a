// Package physicstest provides an in-memory physics.World for tests. It
// integrates velocity into position on Step and lets tests inject contacts.
package physicstest

import (
	"errors"

	"github.com/zeusync/snakecore/internal/core/systems/physics"
)

var _ physics.World = (*World)(nil)

type Body struct {
	Def      physics.BodyDef
	pos      physics.Vec2
	vel      physics.Vec2
	angle    float64
	userData any
	valid    bool

	Forces   []physics.Vec2
	Impulses []physics.Vec2
	Torques  []float64
}

func (b *Body) Type() physics.BodyType     { return b.Def.Type }
func (b *Body) Valid() bool                { return b.valid }
func (b *Body) Position() physics.Vec2     { return b.pos }
func (b *Body) SetPosition(p physics.Vec2) { b.pos = p }
func (b *Body) Velocity() physics.Vec2     { return b.vel }
func (b *Body) SetVelocity(v physics.Vec2) { b.vel = v }
func (b *Body) Angle() float64             { return b.angle }
func (b *Body) SetAngle(a float64)         { b.angle = a }
func (b *Body) ApplyForce(f physics.Vec2)  { b.Forces = append(b.Forces, f) }
func (b *Body) ApplyTorque(t float64)      { b.Torques = append(b.Torques, t) }
func (b *Body) UserData() any              { return b.userData }
func (b *Body) SetUserData(data any)       { b.userData = data }
func (b *Body) ApplyImpulse(i physics.Vec2) {
	b.Impulses = append(b.Impulses, i)
	if b.Def.Mass > 0 {
		b.vel = b.vel.Add(i.Mul(1 / b.Def.Mass))
	}
}

type contact struct {
	a, b  *Body
	begin bool
}

type World struct {
	bodies   []*Body
	listener physics.ContactListener
	pending  []contact

	// CreateErr, when set, makes CreateBody fail.
	CreateErr error
	Steps     int
	Destroyed int
}

func New() *World { return &World{} }

func (w *World) CreateBody(def physics.BodyDef) (physics.Body, error) {
	if w.CreateErr != nil {
		return nil, w.CreateErr
	}
	if def.Type == physics.BodyDynamic && def.Mass <= 0 {
		return nil, errors.New("dynamic body needs positive mass")
	}
	b := &Body{Def: def, pos: def.Position, userData: def.UserData, valid: true}
	w.bodies = append(w.bodies, b)
	return b, nil
}

func (w *World) DestroyBody(pb physics.Body) {
	b, ok := pb.(*Body)
	if !ok {
		return
	}
	for i, cur := range w.bodies {
		if cur == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			b.valid = false
			w.Destroyed++
			return
		}
	}
}

func (w *World) SetContactListener(l physics.ContactListener) { w.listener = l }

// Listener returns the currently registered contact listener.
func (w *World) Listener() physics.ContactListener { return w.listener }

// Bodies returns live bodies in creation order.
func (w *World) Bodies() []*Body { return append([]*Body(nil), w.bodies...) }

// BodiesOfType filters live bodies by type.
func (w *World) BodiesOfType(t physics.BodyType) []*Body {
	var out []*Body
	for _, b := range w.bodies {
		if b.Def.Type == t {
			out = append(out, b)
		}
	}
	return out
}

// QueueBegin schedules a contact-begin callback for the next Step.
func (w *World) QueueBegin(a, b physics.Body) {
	w.pending = append(w.pending, contact{a: a.(*Body), b: b.(*Body), begin: true})
}

// QueueEnd schedules a contact-end callback for the next Step.
func (w *World) QueueEnd(a, b physics.Body) {
	w.pending = append(w.pending, contact{a: a.(*Body), b: b.(*Body)})
}

func (w *World) Step(dt float64) {
	w.Steps++
	for _, b := range w.bodies {
		if b.Def.Type == physics.BodyStatic {
			continue
		}
		b.pos = b.pos.Add(b.vel.Mul(dt))
	}

	pending := w.pending
	w.pending = nil
	if w.listener == nil {
		return
	}
	for _, c := range pending {
		if c.begin {
			w.listener.BeginContact(c.a, c.b)
		} else {
			w.listener.EndContact(c.a, c.b)
		}
	}
}
