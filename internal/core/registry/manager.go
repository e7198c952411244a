// Package registry holds the EntityManager, the single owner of entity
// lifetime within a scene.
package registry

import (
	"fmt"

	"github.com/zeusync/snakecore/internal/core/models"
	"github.com/zeusync/snakecore/internal/core/observability/log"
	"github.com/zeusync/snakecore/internal/core/platform"
	"github.com/zeusync/snakecore/internal/core/systems/physics"
	"github.com/zeusync/snakecore/pkg/sequence"
)

// Filter selects entities for queries.
type Filter func(*models.Entity) bool

// WithCapability keeps entities that declare all of caps.
func WithCapability(caps models.Capability) Filter {
	return func(e *models.Entity) bool { return e.Can(caps) }
}

// WithComponent keeps entities carrying a component of concrete type T.
func WithComponent[T models.Component]() Filter {
	return func(e *models.Entity) bool { return models.Has[T](e) }
}

// WithKind keeps entities of kind k.
func WithKind(k models.Kind) Filter {
	return func(e *models.Entity) bool { return e.Kind() == k }
}

// Active keeps entities that are active and not disposed.
func Active() Filter {
	return func(e *models.Entity) bool { return e.IsActive() }
}

// EntityManager registers entities by identity and dispatches update and
// render to them in insertion order. Removing an entity always disposes it.
type EntityManager struct {
	log   log.Log
	world physics.World

	entities map[models.EntityID]*models.Entity
	order    []models.EntityID
	bodies   map[models.EntityID]physics.Body
}

type Option func(*EntityManager)

// WithWorld lets the manager create static bodies for geometry entities.
func WithWorld(w physics.World) Option {
	return func(m *EntityManager) { m.world = w }
}

func NewEntityManager(logger log.Log, opts ...Option) (*EntityManager, error) {
	if logger == nil {
		return nil, ErrNilLogger
	}
	m := &EntityManager{
		log:      logger.Named("entities"),
		entities: make(map[models.EntityID]*models.Entity),
		bodies:   make(map[models.EntityID]physics.Body),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// World returns the physics world static bodies are created in, if any.
func (m *EntityManager) World() physics.World { return m.world }

// AddEntity registers e. Nil and duplicate entities are rejected with a
// diagnostic and leave the registry unchanged. Static entities tagged with
// geometry get a static body whose user data is e.
func (m *EntityManager) AddEntity(e *models.Entity) error {
	if e == nil {
		m.log.Warn("rejected nil entity")
		return ErrNilEntity
	}
	if _, exists := m.entities[e.ID()]; exists {
		m.log.Warn("rejected duplicate entity",
			log.String("id", e.ID().String()),
			log.String("name", e.Name()))
		return ErrDuplicateEntity
	}
	if err := e.BindRegistry(m); err != nil {
		m.log.Warn("rejected entity owned by another manager",
			log.String("id", e.ID().String()),
			log.String("name", e.Name()))
		return ErrForeignEntity
	}

	if e.Kind() == models.KindStatic && e.HasGeometry() && m.world != nil {
		body, err := m.world.CreateBody(physics.BodyDef{
			Type:     physics.BodyStatic,
			Shape:    physics.ShapeBox,
			Position: e.Position(),
			Width:    e.Size()[0],
			Height:   e.Size()[1],
			UserData: e,
		})
		if err != nil {
			e.UnbindRegistry(m)
			m.log.Error("static body creation failed",
				log.String("id", e.ID().String()),
				log.Error(err))
			return fmt.Errorf("%w for %s: %w", ErrStaticBody, e, err)
		}
		m.bodies[e.ID()] = body
	}

	m.entities[e.ID()] = e
	m.order = append(m.order, e.ID())
	m.log.Debug("entity added",
		log.String("id", e.ID().String()),
		log.String("name", e.Name()),
		log.Stringer("kind", e.Kind()))
	return nil
}

func (m *EntityManager) GetEntityByID(id models.EntityID) (*models.Entity, bool) {
	e, ok := m.entities[id]
	return e, ok
}

func (m *EntityManager) HasEntity(id models.EntityID) bool {
	_, ok := m.entities[id]
	return ok
}

// HasBody reports whether the registered entity id is backed by a physics
// body, either a static body created on add or an Embodied component.
func (m *EntityManager) HasBody(id models.EntityID) bool {
	if _, ok := m.bodies[id]; ok {
		return true
	}
	e, ok := m.entities[id]
	return ok && e.Can(models.CapEmbodied)
}

// FindByName returns the first entity, in insertion order, named name.
func (m *EntityManager) FindByName(name string) (*models.Entity, bool) {
	return sequence.From(m.Entities()).Find(func(e *models.Entity) bool { return e.Name() == name })
}

// RemoveEntity disposes the entity, destroys its bodies in the manager's
// world and unregisters it. Unknown ids are a logged no-op.
func (m *EntityManager) RemoveEntity(id models.EntityID) bool {
	e, ok := m.entities[id]
	if !ok {
		m.log.Debug("remove of unknown entity", log.String("id", id.String()))
		return false
	}
	m.release(e)
	delete(m.entities, id)
	for i, cur := range m.order {
		if cur == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true
}

// ClearEntities disposes every entity exactly once and empties the registry.
func (m *EntityManager) ClearEntities() {
	for _, id := range m.order {
		m.release(m.entities[id])
	}
	cleared := len(m.order)
	m.entities = make(map[models.EntityID]*models.Entity)
	m.order = nil
	if cleared > 0 {
		m.log.Debug("entities cleared", log.Int("count", cleared))
	}
}

// Entities returns registered entities in insertion order.
func (m *EntityManager) Entities() []*models.Entity {
	out := make([]*models.Entity, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.entities[id])
	}
	return out
}

// Query returns entities matching every filter, in insertion order.
func (m *EntityManager) Query(filters ...Filter) []*models.Entity {
	preds := make([]func(*models.Entity) bool, len(filters))
	for i, f := range filters {
		preds[i] = f
	}
	return sequence.From(m.Entities()).Filter(preds...).Collect()
}

func (m *EntityManager) Count() int { return len(m.order) }

// ActiveEntitiesCount counts registered entities that are active.
func (m *EntityManager) ActiveEntitiesCount() int {
	return sequence.From(m.Entities()).Filter(Active()).Count()
}

// UpdateEntities updates every entity. A panicking entity is logged and
// skipped; the rest of the frame still runs.
func (m *EntityManager) UpdateEntities(dt float64) {
	for _, e := range m.Entities() {
		// entities removed by an earlier update this frame are skipped
		if _, ok := m.entities[e.ID()]; !ok {
			continue
		}
		m.isolate("update", e, func() { e.Update(dt) })
	}
}

// Render draws entities in ascending layer order, insertion order within a
// layer.
func (m *EntityManager) Render(s platform.Surface) {
	pq := sequence.NewPriorityQueue[*models.Entity]()
	for _, e := range m.Entities() {
		if !e.Can(models.CapRenderable) {
			continue
		}
		pq.Enqueue(e, -e.Layer())
	}
	for _, e := range pq.Drain() {
		m.isolate("render", e, func() { e.Render(s) })
	}
}

func (m *EntityManager) release(e *models.Entity) {
	if body, ok := m.bodies[e.ID()]; ok {
		if m.world != nil && body.Valid() {
			m.world.DestroyBody(body)
		}
		delete(m.bodies, e.ID())
	}
	if m.world != nil {
		for _, c := range e.Components() {
			if em, ok := c.(models.Embodied); ok && em.Body() != nil {
				m.world.DestroyBody(em.Body())
			}
		}
	}
	m.isolate("dispose", e, e.Dispose)
	e.UnbindRegistry(m)
}

func (m *EntityManager) isolate(phase string, e *models.Entity, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("entity failed",
				log.String("phase", phase),
				log.String("id", e.ID().String()),
				log.String("name", e.Name()),
				log.Any("panic", r))
		}
	}()
	fn()
}
