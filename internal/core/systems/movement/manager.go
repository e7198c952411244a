package movement

import (
	"github.com/zeusync/snakecore/internal/config"
	"github.com/zeusync/snakecore/internal/core/events"
	"github.com/zeusync/snakecore/internal/core/events/bus"
	"github.com/zeusync/snakecore/internal/core/models"
	"github.com/zeusync/snakecore/internal/core/observability/log"
	"github.com/zeusync/snakecore/internal/core/platform"
	"github.com/zeusync/snakecore/internal/core/systems/physics"
)

// arrivalRadius is how close the pointer may get to an entity before the
// entity stops chasing it.
const arrivalRadius = 0.25

// ModeSource reports and switches the active control mode. config.Settings
// satisfies it, so a mode chosen in the options menu applies next frame.
type ModeSource interface {
	ControlMode() config.ControlMode
	SetControlMode(config.ControlMode) error
}

// Positioned movers report their authoritative position; others fall back
// to the entity's cached one.
type Positioned interface {
	Position() physics.Vec2
}

// Orientable movers can face the pointer.
type Orientable interface {
	SetAngle(rad float64)
}

// Manager turns the frame's input into a force for every registered mover.
type Manager struct {
	log   log.Log
	input platform.Input
	modes ModeSource
	bus   bus.EventBus
	cfg   config.MovementConfig

	toggleKey platform.Key
	movers    []*models.Entity
	index     map[models.EntityID]struct{}
}

type Option func(*Manager)

func WithBus(b bus.EventBus) Option { return func(m *Manager) { m.bus = b } }

// WithToggleKey sets the key that flips between keyboard and pointer mode.
// platform.KeyUnknown disables toggling.
func WithToggleKey(k platform.Key) Option { return func(m *Manager) { m.toggleKey = k } }

func NewManager(logger log.Log, input platform.Input, modes ModeSource, cfg config.MovementConfig, opts ...Option) (*Manager, error) {
	switch {
	case logger == nil:
		return nil, ErrNilLogger
	case input == nil:
		return nil, ErrNilInput
	case modes == nil:
		return nil, ErrNilModeSource
	}
	m := &Manager{
		log:       logger.Named("movement"),
		input:     input,
		modes:     modes,
		cfg:       cfg,
		toggleKey: platform.KeyM,
		index:     make(map[models.EntityID]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Register adds e to the set driven every frame. The movable capability is
// checked here, once.
func (m *Manager) Register(e *models.Entity) error {
	if e == nil || !e.Can(models.CapMovable) {
		return ErrNotMovable
	}
	if _, ok := m.index[e.ID()]; ok {
		return ErrAlreadyRegistered
	}
	m.index[e.ID()] = struct{}{}
	m.movers = append(m.movers, e)
	m.log.Debug("mover registered", log.String("id", e.ID().String()), log.String("name", e.Name()))
	return nil
}

func (m *Manager) Unregister(id models.EntityID) bool {
	if _, ok := m.index[id]; !ok {
		return false
	}
	delete(m.index, id)
	for i, e := range m.movers {
		if e.ID() == id {
			m.movers = append(m.movers[:i], m.movers[i+1:]...)
			break
		}
	}
	return true
}

// Clear drops every mover, typically on scene teardown.
func (m *Manager) Clear() {
	m.movers = nil
	m.index = make(map[models.EntityID]struct{})
}

func (m *Manager) Count() int { return len(m.movers) }

func (m *Manager) Mode() config.ControlMode { return m.modes.ControlMode() }

// Update runs before the physics step. Disposed movers are dropped; inactive
// ones are skipped.
func (m *Manager) Update(float64) {
	if m.toggleKey != platform.KeyUnknown && m.input.WasPressed(m.toggleKey) {
		m.toggleMode()
	}
	mode := m.modes.ControlMode()

	live := m.movers[:0]
	for _, e := range m.movers {
		if e.IsDisposed() {
			delete(m.index, e.ID())
			continue
		}
		live = append(live, e)
		if e.IsActive() {
			m.drive(mode, e)
		}
	}
	clear(m.movers[len(live):])
	m.movers = live
}

func (m *Manager) drive(mode config.ControlMode, e *models.Entity) {
	mover, ok := models.Find[models.Movable](e)
	if !ok {
		return
	}

	var force physics.Vec2
	switch mode {
	case config.ControlPointer:
		var dir physics.Vec2
		force, dir = m.pointerForce(e)
		if m.cfg.TrackOrientation && force != (physics.Vec2{}) {
			if o, ok := models.Find[Orientable](e); ok {
				o.SetAngle(physics.Angle(dir))
			}
		}
	default:
		force = m.KeyboardForce()
	}

	if force == (physics.Vec2{}) {
		mover.Stop()
		return
	}
	mover.Move(force)
}

// KeyboardForce maps held direction keys to an axis-aligned force in screen
// space (y grows downward). Opposite keys cancel; diagonals add up unless
// NormalizeDiagonal is set.
func (m *Manager) KeyboardForce() physics.Vec2 {
	var dir physics.Vec2
	if m.held(platform.KeyRight, platform.KeyD) {
		dir[0]++
	}
	if m.held(platform.KeyLeft, platform.KeyA) {
		dir[0]--
	}
	if m.held(platform.KeyDown, platform.KeyS) {
		dir[1]++
	}
	if m.held(platform.KeyUp, platform.KeyW) {
		dir[1]--
	}
	if m.cfg.NormalizeDiagonal {
		dir = physics.NormalizeOrZero(dir)
	}
	return dir.Mul(m.cfg.ForceMagnitude)
}

func (m *Manager) pointerForce(e *models.Entity) (force, dir physics.Vec2) {
	target, ok := m.input.Pointer()
	if !ok {
		return physics.Vec2{}, physics.Vec2{}
	}
	pos := e.Position()
	if p, ok := models.Find[Positioned](e); ok {
		pos = p.Position()
	}
	delta := target.Sub(pos)
	if delta.Len() <= arrivalRadius {
		return physics.Vec2{}, physics.Vec2{}
	}
	dir = physics.NormalizeOrZero(delta)
	return dir.Mul(m.cfg.ForceMagnitude), dir
}

func (m *Manager) held(keys ...platform.Key) bool {
	for _, k := range keys {
		if m.input.IsHeld(k) {
			return true
		}
	}
	return false
}

func (m *Manager) toggleMode() {
	from := m.modes.ControlMode()
	to := from.Toggle()
	if err := m.modes.SetControlMode(to); err != nil {
		m.log.Warn("control mode toggle failed", log.Error(err))
		return
	}
	m.log.Info("control mode changed", log.String("from", string(from)), log.String("to", string(to)))
	if m.bus != nil {
		if err := m.bus.Publish(bus.NewEvent(events.ControlModeChanged, "movement", to)); err != nil {
			m.log.Warn("control mode event handler failed", log.Error(err))
		}
	}
}
