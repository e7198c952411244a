package scene

import (
	"github.com/zeusync/snakecore/internal/core/events"
	"github.com/zeusync/snakecore/internal/core/events/bus"
	"github.com/zeusync/snakecore/internal/core/observability/log"
	"github.com/zeusync/snakecore/internal/core/platform"
)

const eventSource = "scene"

// Manager is a LIFO of scenes; the top is current. Pushing suspends the
// current scene without disposing it. Popping disposes the top and
// re-initializes the scene underneath, which reloads its resources.
type Manager struct {
	log   log.Log
	bus   bus.EventBus
	stack []Scene
}

type ManagerOption func(*Manager)

func WithManagerBus(b bus.EventBus) ManagerOption { return func(m *Manager) { m.bus = b } }

func NewManager(logger log.Log, opts ...ManagerOption) (*Manager, error) {
	if logger == nil {
		return nil, ErrNilLogger
	}
	m := &Manager{log: logger.Named("scenes")}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Current returns the top of the stack, or nil.
func (m *Manager) Current() Scene {
	if len(m.stack) == 0 {
		return nil
	}
	return m.stack[len(m.stack)-1]
}

func (m *Manager) Depth() int { return len(m.stack) }

// Push initializes s and makes it current. When Initialize fails the stack
// is left unchanged.
func (m *Manager) Push(s Scene) error {
	if s == nil {
		return ErrNilScene
	}
	if err := s.Initialize(); err != nil {
		m.log.Error("scene push failed", log.String("scene", s.Name()), log.Error(err))
		return err
	}
	from := m.currentName()
	m.stack = append(m.stack, s)
	m.log.Debug("scene pushed", log.String("scene", s.Name()), log.Int("depth", len(m.stack)))
	m.publish(events.ScenePushed, from, s.Name())
	return nil
}

// Pop disposes the current scene and reports whether there was one. The
// scene underneath becomes current and is initialized again; if that fails
// it is logged and the scene stays current.
func (m *Manager) Pop() bool {
	if len(m.stack) == 0 {
		m.log.Debug("pop of empty scene stack")
		return false
	}
	top := m.stack[len(m.stack)-1]
	m.stack[len(m.stack)-1] = nil
	m.stack = m.stack[:len(m.stack)-1]
	top.Dispose()

	next := m.Current()
	if next != nil {
		if err := next.Initialize(); err != nil {
			m.log.Error("scene re-initialize failed", log.String("scene", next.Name()), log.Error(err))
		}
	}
	m.log.Debug("scene popped", log.String("scene", top.Name()), log.Int("depth", len(m.stack)))
	m.publish(events.ScenePopped, top.Name(), m.currentName())
	return true
}

// Replace pops the current scene, if any, without re-initializing the one
// underneath, then pushes s.
func (m *Manager) Replace(s Scene) error {
	if s == nil {
		return ErrNilScene
	}
	if err := s.Initialize(); err != nil {
		m.log.Error("scene replace failed", log.String("scene", s.Name()), log.Error(err))
		return err
	}
	from := ""
	if n := len(m.stack); n > 0 {
		top := m.stack[n-1]
		from = top.Name()
		m.stack = m.stack[:n-1]
		top.Dispose()
	}
	m.stack = append(m.stack, s)
	m.publish(events.SceneChanged, from, s.Name())
	return nil
}

// Clear disposes every scene, top first.
func (m *Manager) Clear() {
	for i := len(m.stack) - 1; i >= 0; i-- {
		m.stack[i].Dispose()
		m.stack[i] = nil
	}
	m.stack = m.stack[:0]
}

func (m *Manager) Update(dt float64) {
	if s := m.Current(); s != nil {
		s.Update(dt)
	}
}

func (m *Manager) Render(surface platform.Surface) {
	if s := m.Current(); s != nil {
		s.Render(surface)
	}
}

func (m *Manager) currentName() string {
	if s := m.Current(); s != nil {
		return s.Name()
	}
	return ""
}

func (m *Manager) publish(typ, from, to string) {
	if m.bus == nil {
		return
	}
	if err := m.bus.Publish(events.NewSceneChange(typ, eventSource, from, to)); err != nil {
		m.log.Warn("scene event handler failed", log.String("type", typ), log.Error(err))
	}
}
