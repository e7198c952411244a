package scene

import (
	"fmt"

	"github.com/zeusync/snakecore/internal/core/observability/log"
	"github.com/zeusync/snakecore/internal/core/platform"
	"github.com/zeusync/snakecore/internal/core/registry"
	"github.com/zeusync/snakecore/internal/core/systems/physics"
)

// Hooks customise a Base scene. All are optional.
type Hooks struct {
	// Setup populates the scene's entities. It runs on every Initialize,
	// after the previous entities were cleared.
	Setup func(b *Base) error
	// Update runs after the entities were updated.
	Update func(b *Base, dt float64)
	// Render runs after the entities were drawn.
	Render func(b *Base, s platform.Surface)
	// Teardown runs before the entities are cleared.
	Teardown func(b *Base)
}

// Base is a Scene owning its own EntityManager. Scenes are normally built
// from a Base and Hooks rather than implemented from scratch.
type Base struct {
	name     string
	log      log.Log
	world    physics.World
	hooks    Hooks
	state    State
	entities *registry.EntityManager

	inits    int
	disposes int
}

var (
	_ Scene    = (*Base)(nil)
	_ Stateful = (*Base)(nil)
)

type BaseOption func(*Base)

// WithWorld gives the scene's entity manager a physics world for static
// geometry.
func WithWorld(w physics.World) BaseOption { return func(b *Base) { b.world = w } }

func WithHooks(h Hooks) BaseOption { return func(b *Base) { b.hooks = h } }

func NewBase(name string, logger log.Log, opts ...BaseOption) (*Base, error) {
	if name == "" {
		return nil, ErrEmptySceneName
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	b := &Base{name: name, log: logger.Named("scene").With(log.String("scene", name))}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

func (b *Base) Name() string  { return b.name }
func (b *Base) State() State  { return b.state }
func (b *Base) Log() log.Log  { return b.log }
func (b *Base) Inits() int    { return b.inits }
func (b *Base) Disposes() int { return b.disposes }

// Entities is nil until the first Initialize.
func (b *Base) Entities() *registry.EntityManager { return b.entities }

// Initialize (re)loads the scene. Entities left over from an earlier
// Initialize are cleared first so nothing is registered twice.
func (b *Base) Initialize() error {
	if b.entities == nil {
		var opts []registry.Option
		if b.world != nil {
			opts = append(opts, registry.WithWorld(b.world))
		}
		m, err := registry.NewEntityManager(b.log, opts...)
		if err != nil {
			return err
		}
		b.entities = m
	} else {
		b.entities.ClearEntities()
	}

	if b.hooks.Setup != nil {
		if err := b.hooks.Setup(b); err != nil {
			b.entities.ClearEntities()
			return fmt.Errorf("setup %s: %w", b.name, err)
		}
	}
	b.state = StateInitialized
	b.inits++
	b.log.Debug("scene initialized", log.Int("entities", b.entities.Count()))
	return nil
}

func (b *Base) Update(dt float64) {
	if b.state != StateInitialized {
		return
	}
	b.entities.UpdateEntities(dt)
	if b.hooks.Update != nil {
		b.hooks.Update(b, dt)
	}
}

func (b *Base) Render(s platform.Surface) {
	if b.state != StateInitialized {
		return
	}
	b.entities.Render(s)
	if b.hooks.Render != nil {
		b.hooks.Render(b, s)
	}
}

// Dispose releases the scene's entities once. Calls on a scene that is not
// initialized only mark it disposed.
func (b *Base) Dispose() {
	if b.state != StateInitialized {
		b.state = StateDisposed
		return
	}
	if b.hooks.Teardown != nil {
		b.hooks.Teardown(b)
	}
	b.entities.ClearEntities()
	b.state = StateDisposed
	b.disposes++
	b.log.Debug("scene disposed")
}
