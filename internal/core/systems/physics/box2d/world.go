// Package box2d implements physics.World on top of the ByteArena Box2D port.
//
// Box2D locks the world while stepping, so contact callbacks are buffered
// and delivered to the listener once Step returns. Listeners are therefore
// free to destroy bodies from their handlers.
package box2d

import (
	"errors"
	"math"

	b2 "github.com/ByteArena/box2d"

	"github.com/zeusync/snakecore/internal/core/observability/log"
	"github.com/zeusync/snakecore/internal/core/systems/physics"
)

const (
	DefaultVelocityIterations = 8
	DefaultPositionIterations = 3
)

var (
	ErrNilLogger    = errors.New("box2d: logger is nil")
	ErrInvalidMass  = errors.New("box2d: dynamic body needs positive mass")
	ErrInvalidShape = errors.New("box2d: body shape has no extent")
	ErrWorldLocked  = errors.New("box2d: world is stepping")
)

var _ physics.World = (*World)(nil)

type contact struct {
	a, b  *Body
	begin bool
}

type World struct {
	log      log.Log
	world    b2.B2World
	bodies   map[*b2.B2Body]*Body
	listener physics.ContactListener
	pending  []contact

	velocityIterations int
	positionIterations int
}

type Option func(*World)

// WithIterations overrides the solver iteration counts.
func WithIterations(velocity, position int) Option {
	return func(w *World) {
		if velocity > 0 {
			w.velocityIterations = velocity
		}
		if position > 0 {
			w.positionIterations = position
		}
	}
}

func NewWorld(logger log.Log, gravity physics.Vec2, opts ...Option) (*World, error) {
	if logger == nil {
		return nil, ErrNilLogger
	}

	w := &World{
		log:                logger.Named("box2d"),
		world:              b2.MakeB2World(toB2(gravity)),
		bodies:             make(map[*b2.B2Body]*Body),
		velocityIterations: DefaultVelocityIterations,
		positionIterations: DefaultPositionIterations,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.world.SetContactListener(&bridge{world: w})
	return w, nil
}

func (w *World) CreateBody(def physics.BodyDef) (physics.Body, error) {
	if w.world.IsLocked() {
		return nil, ErrWorldLocked
	}
	if def.Type == physics.BodyDynamic && def.Mass <= 0 {
		return nil, ErrInvalidMass
	}

	bd := b2.MakeB2BodyDef()
	bd.Type = toBodyType(def.Type)
	bd.Position = toB2(def.Position)
	bd.AllowSleep = false
	bd.Awake = true
	bd.Active = true

	fd := b2.MakeB2FixtureDef()
	fd.IsSensor = def.Sensor

	switch def.Shape {
	case physics.ShapeCircle:
		if def.Radius <= 0 {
			return nil, ErrInvalidShape
		}
		shape := b2.MakeB2CircleShape()
		shape.M_radius = def.Radius
		fd.Shape = &shape
		fd.Density = density(def.Mass, math.Pi*def.Radius*def.Radius)
	default:
		if def.Width <= 0 || def.Height <= 0 {
			return nil, ErrInvalidShape
		}
		shape := b2.MakeB2PolygonShape()
		shape.SetAsBox(def.Width/2, def.Height/2)
		fd.Shape = &shape
		fd.Density = density(def.Mass, def.Width*def.Height)
	}

	raw := w.world.CreateBody(&bd)
	raw.CreateFixtureFromDef(&fd)

	body := &Body{raw: raw, typ: def.Type, userData: def.UserData}
	raw.SetUserData(body)
	w.bodies[raw] = body

	w.log.Debug("body created",
		log.Stringer("type", def.Type),
		log.Float64("x", def.Position[0]),
		log.Float64("y", def.Position[1]),
	)
	return body, nil
}

// DestroyBody invalidates the handle and removes the body. Destroying a
// handle from another world or an already destroyed one is a no-op.
func (w *World) DestroyBody(pb physics.Body) {
	body, ok := pb.(*Body)
	if !ok || body == nil || body.raw == nil {
		return
	}
	if _, owned := w.bodies[body.raw]; !owned {
		return
	}
	if w.world.IsLocked() {
		w.log.Warn("destroy during step ignored")
		return
	}

	raw := body.raw
	w.world.DestroyBody(raw)
	delete(w.bodies, raw)
	body.raw = nil
}

func (w *World) SetContactListener(l physics.ContactListener) { w.listener = l }

// Len reports the number of live bodies.
func (w *World) Len() int { return len(w.bodies) }

func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	w.world.Step(dt, w.velocityIterations, w.positionIterations)
	w.flush()
}

func (w *World) flush() {
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

func (w *World) queue(c b2.B2ContactInterface, begin bool) {
	fa, fb := c.GetFixtureA(), c.GetFixtureB()
	if fa == nil || fb == nil {
		return
	}
	a, okA := w.bodies[fa.GetBody()]
	b, okB := w.bodies[fb.GetBody()]
	if !okA || !okB {
		return
	}
	w.pending = append(w.pending, contact{a: a, b: b, begin: begin})
}

// bridge adapts the Box2D listener interface to the buffered queue.
type bridge struct {
	world *World
}

func (br *bridge) BeginContact(c b2.B2ContactInterface)                      { br.world.queue(c, true) }
func (br *bridge) EndContact(c b2.B2ContactInterface)                        { br.world.queue(c, false) }
func (br *bridge) PreSolve(_ b2.B2ContactInterface, _ b2.B2Manifold)         {}
func (br *bridge) PostSolve(_ b2.B2ContactInterface, _ *b2.B2ContactImpulse) {}

func density(mass, area float64) float64 {
	if mass <= 0 || area <= 0 {
		return 0
	}
	return mass / area
}

func toBodyType(t physics.BodyType) uint8 {
	switch t {
	case physics.BodyDynamic:
		return b2.B2BodyType.B2_dynamicBody
	case physics.BodyKinematic:
		return b2.B2BodyType.B2_kinematicBody
	default:
		return b2.B2BodyType.B2_staticBody
	}
}

func toB2(v physics.Vec2) b2.B2Vec2   { return b2.MakeB2Vec2(v[0], v[1]) }
func fromB2(v b2.B2Vec2) physics.Vec2 { return physics.Vec2{v.X, v.Y} }
