// Package collision bridges physics contact callbacks and a bounding-box
// fallback scan to entity-level OnCollision notifications and bus events.
package collision

import (
	"time"

	"github.com/zeusync/snakecore/internal/core/events"
	"github.com/zeusync/snakecore/internal/core/events/bus"
	"github.com/zeusync/snakecore/internal/core/models"
	"github.com/zeusync/snakecore/internal/core/observability/log"
	"github.com/zeusync/snakecore/internal/core/registry"
	"github.com/zeusync/snakecore/internal/core/systems/physics"
	"github.com/zeusync/snakecore/pkg/generic"
)

const eventSource = "collision"

var _ physics.ContactListener = (*System)(nil)

// System is stateless per contact apart from the set of pairs currently in
// contact, which turns repeated begin callbacks for the same touching pair
// into a single notification.
type System struct {
	log      log.Log
	bus      bus.EventBus
	entities *registry.EntityManager
	world    physics.World
	now      func() time.Time

	enabled  bool
	contacts map[uint64]Pair
	overlaps map[uint64]Pair
	scratch  *generic.Pool[*[]*models.Entity]
}

type Option func(*System)

// WithBus publishes collision events alongside the direct dispatch.
func WithBus(b bus.EventBus) Option { return func(s *System) { s.bus = b } }

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) Option { return func(s *System) { s.now = now } }

// NewSystem registers the system as world's contact listener.
func NewSystem(logger log.Log, world physics.World, entities *registry.EntityManager, opts ...Option) (*System, error) {
	if logger == nil {
		return nil, ErrNilLogger
	}
	if world == nil {
		return nil, ErrNilWorld
	}
	if entities == nil {
		return nil, ErrNilEntityManager
	}

	s := &System{
		log:      logger.Named("collision"),
		entities: entities,
		now:      time.Now,
		enabled:  true,
		contacts: make(map[uint64]Pair),
		overlaps: make(map[uint64]Pair),
		scratch: generic.NewResettingPool(
			func() *[]*models.Entity { buf := make([]*models.Entity, 0, 32); return &buf },
			func(buf *[]*models.Entity) *[]*models.Entity { clear(*buf); *buf = (*buf)[:0]; return buf },
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.SetPhysicsWorld(world); err != nil {
		return nil, err
	}
	return s, nil
}

// SetPhysicsWorld detaches from the previous world's listener slot before
// attaching to w, and forgets contacts tracked against the old world.
func (s *System) SetPhysicsWorld(w physics.World) error {
	if w == nil {
		return ErrNilWorld
	}
	if s.world == w {
		return nil
	}
	if s.world != nil {
		s.world.SetContactListener(nil)
	}
	s.world = w
	w.SetContactListener(s)
	clear(s.contacts)
	return nil
}

func (s *System) World() physics.World { return s.world }

// SetEntityManager points dispatch at another scene's registry.
func (s *System) SetEntityManager(m *registry.EntityManager) error {
	if m == nil {
		return ErrNilEntityManager
	}
	s.entities = m
	clear(s.contacts)
	clear(s.overlaps)
	return nil
}

func (s *System) SetEnabled(enabled bool) { s.enabled = enabled }
func (s *System) Enabled() bool           { return s.enabled }

// ActiveContacts is the number of pairs currently touching.
func (s *System) ActiveContacts() int { return len(s.contacts) }

// BeginContact notifies A then B when both bodies resolve to registered
// entities. A pair already in contact is not notified again.
func (s *System) BeginContact(a, b physics.Body) {
	if !s.enabled {
		return
	}
	ea, eb, ok := s.resolve(a, b)
	if !ok {
		return
	}
	key := pairKey(ea.ID(), eb.ID())
	if _, touching := s.contacts[key]; touching {
		return
	}
	s.contacts[key] = newPair(ea, eb)

	s.dispatch(ea, eb)
	s.publish(events.CollisionBegin, ea, eb)
}

// EndContact clears the pair so the next begin is reported again. The end
// of a tracked pair is honoured even after one side left the registry, since
// destroying a body on removal ends its contacts one step later.
func (s *System) EndContact(a, b physics.Body) {
	ea, okA := ownerOf(a)
	eb, okB := ownerOf(b)
	if !okA || !okB || ea == eb {
		return
	}
	key := pairKey(ea.ID(), eb.ID())
	p, touching := s.contacts[key]
	if !touching {
		return
	}
	delete(s.contacts, key)
	if s.enabled {
		s.publish(events.CollisionEnd, p.A, p.B)
	}
}

// CheckOverlappingEntities is the fallback for entities with a bounding box
// but no physics body. It tests every pair of candidates, O(n^2), so it is
// meant for a handful of triggers and pickups. Only pairs that start
// overlapping this frame are notified; the returned slice holds every pair
// overlapping now.
func (s *System) CheckOverlappingEntities(filters ...registry.Filter) []Pair {
	if !s.enabled {
		return nil
	}

	buf := s.scratch.Get()
	defer s.scratch.Put(buf)

	candidates := *buf
	for _, e := range s.entities.Entities() {
		if !e.IsActive() || !e.Can(models.CapBounded) || s.entities.HasBody(e.ID()) {
			continue
		}
		if !matches(e, filters) {
			continue
		}
		candidates = append(candidates, e)
	}
	*buf = candidates

	var current []Pair
	seen := make(map[uint64]struct{}, len(s.overlaps))
	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			a, b := candidates[i], candidates[j]
			if !a.Filter().Accepts(b.Filter()) || !AreEntitiesOverlapping(a, b) {
				continue
			}
			key := pairKey(a.ID(), b.ID())
			seen[key] = struct{}{}
			current = append(current, newPair(a, b))
			if _, already := s.overlaps[key]; already {
				continue
			}
			s.overlaps[key] = newPair(a, b)
			s.dispatch(a, b)
			s.publish(events.OverlapBegin, a, b)
		}
	}

	for key, p := range s.overlaps {
		if _, still := seen[key]; !still {
			delete(s.overlaps, key)
			s.publish(events.OverlapEnd, p.A, p.B)
		}
	}
	return current
}

// AreEntitiesOverlapping tests the boxes of a and b with strict
// inequalities, so touching edges do not count.
func AreEntitiesOverlapping(a, b *models.Entity) bool {
	if a == nil || b == nil || a == b {
		return false
	}
	return boundsOf(a).Overlaps(boundsOf(b))
}

func boundsOf(e *models.Entity) models.AABB {
	if bb, ok := models.Find[models.Bounded](e); ok {
		return bb.Bounds()
	}
	return e.Bounds()
}

func matches(e *models.Entity, filters []registry.Filter) bool {
	for _, f := range filters {
		if !f(e) {
			return false
		}
	}
	return true
}

func (s *System) resolve(a, b physics.Body) (*models.Entity, *models.Entity, bool) {
	ea, okA := s.entityOf(a)
	eb, okB := s.entityOf(b)
	if !okA || !okB || ea == eb {
		return nil, nil, false
	}
	if !ea.Filter().Accepts(eb.Filter()) {
		return nil, nil, false
	}
	return ea, eb, true
}

// entityOf resolves body to a registered, active entity.
func (s *System) entityOf(body physics.Body) (*models.Entity, bool) {
	e, ok := ownerOf(body)
	if !ok || !e.IsActive() {
		return nil, false
	}
	registered, ok := s.entities.GetEntityByID(e.ID())
	if !ok || registered != e {
		return nil, false
	}
	return e, true
}

func ownerOf(body physics.Body) (*models.Entity, bool) {
	if body == nil {
		return nil, false
	}
	e, ok := body.UserData().(*models.Entity)
	return e, ok && e != nil
}

func (s *System) dispatch(a, b *models.Entity) {
	if a.Can(models.CapCollidable) {
		s.isolate(a, b)
	}
	if b.Can(models.CapCollidable) {
		s.isolate(b, a)
	}
}

func (s *System) isolate(self, other *models.Entity) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("collision handler failed",
				log.String("id", self.ID().String()),
				log.String("other", other.ID().String()),
				log.Any("panic", r))
		}
	}()
	self.OnCollision(other)
}

func (s *System) publish(typ string, a, b *models.Entity) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(events.NewCollision(typ, eventSource, a.ID(), b.ID(), s.now())); err != nil {
		s.log.Warn("collision event handler failed",
			log.String("type", typ),
			log.Error(err))
	}
}
