package models

import "reflect"

// Component is a unit of per-entity behaviour or state. The owner is set
// once, when the component is attached.
type Component interface {
	Owner() *Entity
	SetOwner(*Entity)
	// Initialize runs once, right after the owner is set.
	Initialize() error
	// Update runs every frame while the owner is active.
	Update(dt float64)
}

// BaseComponent provides no-op lifecycle hooks; embed it and override what
// is needed.
type BaseComponent struct {
	owner *Entity
}

func (c *BaseComponent) Owner() *Entity     { return c.owner }
func (c *BaseComponent) SetOwner(e *Entity) { c.owner = e }
func (c *BaseComponent) Initialize() error  { return nil }
func (c *BaseComponent) Update(float64)     {}

// ComponentKey identifies a component by its dynamic type.
type ComponentKey = reflect.Type

// KeyOf returns the key a component is stored under.
func KeyOf(c Component) ComponentKey { return reflect.TypeOf(c) }

// KeyFor returns the key for component type T.
func KeyFor[T Component]() ComponentKey { return reflect.TypeFor[T]() }

// Get fetches the component of concrete type T.
func Get[T Component](e *Entity) (T, bool) {
	var zero T
	if e == nil {
		return zero, false
	}
	c, ok := e.components[KeyFor[T]()]
	if !ok {
		return zero, false
	}
	t, ok := c.(T)
	return t, ok
}

// Has reports whether a component of concrete type T is attached.
func Has[T Component](e *Entity) bool {
	_, ok := Get[T](e)
	return ok
}

// Find returns the first attached component, in attach order, that
// satisfies T. T is usually a capability interface.
func Find[T any](e *Entity) (T, bool) {
	var zero T
	if e == nil {
		return zero, false
	}
	for _, k := range e.order {
		if t, ok := e.components[k].(T); ok {
			return t, true
		}
	}
	return zero, false
}

// Remove detaches the component of concrete type T.
func Remove[T Component](e *Entity) error {
	return e.RemoveComponent(KeyFor[T]())
}

// CollisionFunc adapts a plain function into a Collidable component.
type CollisionFunc struct {
	BaseComponent
	fn func(self, other *Entity)
}

func OnCollision(fn func(self, other *Entity)) *CollisionFunc {
	return &CollisionFunc{fn: fn}
}

func (c *CollisionFunc) OnCollision(other *Entity) {
	if c.fn != nil {
		c.fn(c.Owner(), other)
	}
}
