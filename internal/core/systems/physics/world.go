package physics

// Physics is an external collaborator: the engine only drives a World
// through this surface and never simulates rigid bodies itself.

// BodyType selects how the simulation treats a body.
type BodyType uint8

const (
	BodyStatic BodyType = iota
	BodyDynamic
	BodyKinematic
)

func (t BodyType) String() string {
	switch t {
	case BodyStatic:
		return "static"
	case BodyDynamic:
		return "dynamic"
	case BodyKinematic:
		return "kinematic"
	default:
		return "unknown"
	}
}

// ShapeKind is the collision geometry attached to a body.
type ShapeKind uint8

const (
	ShapeBox ShapeKind = iota
	ShapeCircle
)

// BodyDef describes a body to create.
type BodyDef struct {
	Type     BodyType
	Shape    ShapeKind
	Position Vec2
	// Width and Height apply to ShapeBox, Radius to ShapeCircle.
	Width, Height float64
	Radius        float64
	Mass          float64
	Sensor        bool
	// UserData is returned by Body.UserData during contact callbacks.
	UserData any
}

// Body is a non-owning handle to a rigid body. The World owns the body and
// marks the handle invalid when it destroys it.
type Body interface {
	Type() BodyType
	Valid() bool

	Position() Vec2
	SetPosition(Vec2)
	Velocity() Vec2
	SetVelocity(Vec2)
	Angle() float64
	SetAngle(float64)

	ApplyForce(Vec2)
	ApplyImpulse(Vec2)
	ApplyTorque(float64)

	UserData() any
	SetUserData(any)
}

// ContactListener receives contact notifications synchronously from Step.
type ContactListener interface {
	BeginContact(a, b Body)
	EndContact(a, b Body)
}

// World is the rigid-body simulation the engine steps once per frame.
type World interface {
	CreateBody(def BodyDef) (Body, error)
	DestroyBody(b Body)
	// SetContactListener replaces the single listener slot; nil clears it.
	SetContactListener(l ContactListener)
	Step(dt float64)
}
