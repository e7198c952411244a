package models

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/zeusync/snakecore/internal/core/platform"
)

// EntityID is the immutable identity of an entity.
type EntityID string

func NewEntityID() EntityID { return EntityID(uuid.NewString()) }

func (id EntityID) String() string { return string(id) }

// Kind is the closed set of entity variants.
type Kind uint8

const (
	// KindStatic is scenery; with collidable geometry it gets a static body.
	KindStatic Kind = iota
	// KindMovable is driven through a physics body.
	KindMovable
	// KindSegmented moves procedurally, outside the physics engine.
	KindSegmented
	// KindTrigger is a bounding-box-only volume (pickups, zones).
	KindTrigger
)

func (k Kind) String() string {
	switch k {
	case KindStatic:
		return "static"
	case KindMovable:
		return "movable"
	case KindSegmented:
		return "segmented"
	case KindTrigger:
		return "trigger"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Entity is a uniquely identified game object holding a position and a bag
// of components keyed by component type.
type Entity struct {
	id       EntityID
	name     string
	kind     Kind
	position Vec2
	size     Vec2
	rotation float64
	texture  platform.Texture

	active   bool
	disposed bool
	// geometry marks static entities that need a static body in the world.
	geometry bool
	filter   CollisionFilter
	tags     map[string]struct{}

	components map[ComponentKey]Component
	order      []ComponentKey
	caps       Capability

	registry any
}

// EntityOption customises a new entity.
type EntityOption func(*Entity)

func WithID(id EntityID) EntityOption { return func(e *Entity) { e.id = id } }

func WithPosition(p Vec2) EntityOption { return func(e *Entity) { e.position = p } }

func WithSize(w, h float64) EntityOption { return func(e *Entity) { e.size = Vec2{w, h} } }

func WithTexture(t platform.Texture) EntityOption { return func(e *Entity) { e.texture = t } }

// WithGeometry tags a static entity with collidable geometry.
func WithGeometry() EntityOption { return func(e *Entity) { e.geometry = true } }

func WithFilter(f CollisionFilter) EntityOption { return func(e *Entity) { e.filter = f } }

func WithTags(tags ...string) EntityOption {
	return func(e *Entity) {
		for _, t := range tags {
			e.tags[t] = struct{}{}
		}
	}
}

// NewEntity creates an active entity with a fresh UUID identity.
func NewEntity(name string, kind Kind, opts ...EntityOption) *Entity {
	e := &Entity{
		id:         NewEntityID(),
		name:       name,
		kind:       kind,
		active:     true,
		filter:     DefaultCollisionFilter,
		tags:       make(map[string]struct{}),
		components: make(map[ComponentKey]Component),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Entity) ID() EntityID          { return e.id }
func (e *Entity) Name() string          { return e.name }
func (e *Entity) SetName(n string)      { e.name = n }
func (e *Entity) Kind() Kind            { return e.kind }
func (e *Entity) Position() Vec2        { return e.position }
func (e *Entity) SetPosition(p Vec2)    { e.position = p }
func (e *Entity) Size() Vec2            { return e.size }
func (e *Entity) SetSize(s Vec2)        { e.size = s }
func (e *Entity) Rotation() float64     { return e.rotation }
func (e *Entity) SetRotation(r float64) { e.rotation = r }

func (e *Entity) Texture() platform.Texture     { return e.texture }
func (e *Entity) SetTexture(t platform.Texture) { e.texture = t }

func (e *Entity) IsActive() bool              { return e.active && !e.disposed }
func (e *Entity) SetActive(a bool)            { e.active = a }
func (e *Entity) IsDisposed() bool            { return e.disposed }
func (e *Entity) HasGeometry() bool           { return e.geometry }
func (e *Entity) Filter() CollisionFilter     { return e.filter }
func (e *Entity) SetFilter(f CollisionFilter) { e.filter = f }

func (e *Entity) Capabilities() Capability { return e.caps }
func (e *Entity) Can(c Capability) bool    { return e.caps.Has(c) }

func (e *Entity) AddTag(tag string)    { e.tags[tag] = struct{}{} }
func (e *Entity) RemoveTag(tag string) { delete(e.tags, tag) }
func (e *Entity) HasTag(tag string) bool {
	_, ok := e.tags[tag]
	return ok
}

// Bounds is the entity's own box: position plus half its size.
func (e *Entity) Bounds() AABB {
	return AABB{Center: e.position, Half: e.size.Mul(0.5)}
}

// Registry returns the manager the entity is registered with, or nil.
func (e *Entity) Registry() any { return e.registry }

// BindRegistry records the owning manager. An entity lives in at most one.
func (e *Entity) BindRegistry(r any) error {
	if e.registry != nil && e.registry != r {
		return ErrAlreadyRegistered
	}
	e.registry = r
	return nil
}

// UnbindRegistry clears the owning manager if it is r.
func (e *Entity) UnbindRegistry(r any) {
	if e.registry == r {
		e.registry = nil
	}
}

// AddComponent attaches c, sets its owner and initializes it.
func (e *Entity) AddComponent(c Component) error {
	if c == nil {
		return ErrNilComponent
	}
	if e.disposed {
		return ErrEntityDisposed
	}
	key := KeyOf(c)
	if _, exists := e.components[key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateComponent, key)
	}
	if owner := c.Owner(); owner != nil && owner != e {
		return ErrForeignComponent
	}

	c.SetOwner(e)
	if err := c.Initialize(); err != nil {
		c.SetOwner(nil)
		return fmt.Errorf("initialize %s: %w", key, err)
	}
	e.components[key] = c
	e.order = append(e.order, key)
	e.caps |= capabilitiesOf(c)
	return nil
}

// MustAddComponent is AddComponent for setup code where failure is a bug.
func (e *Entity) MustAddComponent(c Component) *Entity {
	if err := e.AddComponent(c); err != nil {
		panic(err)
	}
	return e
}

// RemoveComponent detaches and disposes the component stored under key.
func (e *Entity) RemoveComponent(key ComponentKey) error {
	c, ok := e.components[key]
	if !ok {
		return ErrComponentNotFound
	}
	delete(e.components, key)
	for i, k := range e.order {
		if k == key {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	if d, ok := c.(Disposable); ok {
		d.Dispose()
	}
	e.recomputeCapabilities()
	return nil
}

// Components returns attached components in attach order.
func (e *Entity) Components() []Component {
	out := make([]Component, 0, len(e.order))
	for _, k := range e.order {
		out = append(out, e.components[k])
	}
	return out
}

func (e *Entity) ComponentCount() int { return len(e.order) }

// Update runs every component's per-frame hook.
func (e *Entity) Update(dt float64) {
	if !e.IsActive() {
		return
	}
	for _, k := range e.order {
		e.components[k].Update(dt)
	}
}

// Render draws every renderable component.
func (e *Entity) Render(s platform.Surface) {
	if !e.IsActive() || !e.caps.Has(CapRenderable) {
		return
	}
	for _, k := range e.order {
		if r, ok := e.components[k].(Renderable); ok {
			r.Render(s)
		}
	}
}

// Layer is the lowest layer among the entity's renderables.
func (e *Entity) Layer() int {
	layer, found := 0, false
	for _, k := range e.order {
		if l, ok := e.components[k].(Layered); ok {
			if !found || l.Layer() < layer {
				layer, found = l.Layer(), true
			}
		}
	}
	return layer
}

// OnCollision notifies every collidable component that other touched e.
func (e *Entity) OnCollision(other *Entity) {
	if e.disposed || !e.caps.Has(CapCollidable) {
		return
	}
	for _, k := range e.order {
		if c, ok := e.components[k].(Collidable); ok {
			c.OnCollision(other)
		}
	}
}

// Dispose releases component resources in reverse attach order. Repeated
// calls are no-ops.
func (e *Entity) Dispose() {
	if e.disposed {
		return
	}
	e.disposed = true
	for i := len(e.order) - 1; i >= 0; i-- {
		if d, ok := e.components[e.order[i]].(Disposable); ok {
			d.Dispose()
		}
	}
	e.texture = nil
}

func (e *Entity) String() string {
	return fmt.Sprintf("%s(%s)", e.name, e.id)
}

func (e *Entity) recomputeCapabilities() {
	e.caps = 0
	for _, k := range e.order {
		e.caps |= capabilitiesOf(e.components[k])
	}
}
