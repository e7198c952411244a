package scene

import (
	"time"

	"github.com/zeusync/snakecore/internal/core/events"
	"github.com/zeusync/snakecore/internal/core/events/bus"
	"github.com/zeusync/snakecore/internal/core/observability/log"
	"github.com/zeusync/snakecore/internal/core/platform"
)

// StateMachine switches between registered scenes by name and remembers one
// previous scene. Switching disposes the outgoing scene once the incoming
// one initialized; with a transition the outgoing scene stays alive, frozen,
// until the transition ends. A scene that is still initialized when it
// becomes current again is not re-initialized.
type StateMachine struct {
	log    log.Log
	bus    bus.EventBus
	scenes map[string]Scene
	names  []string

	current    string
	previous   string
	transition *Transition
	outgoing   Scene

	timeInScene time.Duration
}

type MachineOption func(*StateMachine)

func WithMachineBus(b bus.EventBus) MachineOption { return func(m *StateMachine) { m.bus = b } }

func NewStateMachine(logger log.Log, opts ...MachineOption) (*StateMachine, error) {
	if logger == nil {
		return nil, ErrNilLogger
	}
	m := &StateMachine{
		log:    logger.Named("scenes"),
		scenes: make(map[string]Scene),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func (m *StateMachine) Register(s Scene) error {
	if s == nil {
		return ErrNilScene
	}
	name := s.Name()
	if name == "" {
		return ErrEmptySceneName
	}
	if _, ok := m.scenes[name]; ok {
		return ErrDuplicateScene
	}
	m.scenes[name] = s
	m.names = append(m.names, name)
	return nil
}

// Unregister disposes and forgets a scene that is not current.
func (m *StateMachine) Unregister(name string) error {
	s, ok := m.scenes[name]
	if !ok {
		m.log.Warn("unregister of unknown scene", log.String("scene", name))
		return ErrUnknownScene
	}
	if name == m.current {
		return ErrSceneActive
	}
	if s == m.outgoing {
		m.finishTransition()
	}
	s.Dispose()
	delete(m.scenes, name)
	for i, n := range m.names {
		if n == name {
			m.names = append(m.names[:i], m.names[i+1:]...)
			break
		}
	}
	if m.previous == name {
		m.previous = ""
	}
	return nil
}

// Names lists registered scenes in registration order.
func (m *StateMachine) Names() []string { return append([]string(nil), m.names...) }

func (m *StateMachine) Scene(name string) (Scene, bool) {
	s, ok := m.scenes[name]
	return s, ok
}

// Current returns the current scene, or nil before the first switch.
func (m *StateMachine) Current() Scene { return m.scenes[m.current] }

func (m *StateMachine) CurrentName() string { return m.current }
func (m *StateMachine) Previous() string    { return m.previous }

// TimeInScene is how long the current scene has been current.
func (m *StateMachine) TimeInScene() time.Duration { return m.timeInScene }

// Transition returns the running transition, or nil.
func (m *StateMachine) Transition() *Transition { return m.transition }

// Preload initializes a registered scene without switching to it.
func (m *StateMachine) Preload(name string) error {
	s, ok := m.scenes[name]
	if !ok {
		m.log.Warn("preload of unknown scene", log.String("scene", name))
		return ErrUnknownScene
	}
	if stateOf(s) == StateInitialized {
		return nil
	}
	return s.Initialize()
}

// ChangeScene switches immediately. Unknown names, the current scene and
// failed initializations are logged no-ops that return false.
func (m *StateMachine) ChangeScene(name string) bool {
	return m.ChangeSceneWith(name, TransitionNone, 0)
}

// ChangeSceneWith switches with a transition of the given kind and length.
func (m *StateMachine) ChangeSceneWith(name string, kind TransitionKind, d time.Duration) bool {
	incoming, ok := m.scenes[name]
	if !ok {
		m.log.Warn("change to unknown scene", log.String("scene", name))
		return false
	}
	if name == m.current {
		m.log.Debug("change to current scene ignored", log.String("scene", name))
		return false
	}

	// a switch during a transition completes the running one first
	m.finishTransition()

	if stateOf(incoming) != StateInitialized {
		if err := incoming.Initialize(); err != nil {
			m.log.Error("scene initialize failed", log.String("scene", name), log.Error(err))
			return false
		}
	}

	from := m.current
	outgoing := m.scenes[from]
	m.previous, m.current = from, name
	m.timeInScene = 0

	if outgoing != nil {
		if kind == TransitionNone || d <= 0 {
			outgoing.Dispose()
		} else {
			m.outgoing = outgoing
		}
	}
	if kind != TransitionNone && d > 0 {
		m.transition = NewTransition(kind, d, outgoing, incoming)
	}

	m.log.Info("scene changed",
		log.String("from", from),
		log.String("to", name),
		log.Stringer("transition", kind))
	m.publish(from, name)
	return true
}

// Back switches to the previous scene.
func (m *StateMachine) Back() bool {
	if m.previous == "" {
		m.log.Debug("no previous scene")
		return false
	}
	return m.ChangeScene(m.previous)
}

// Update advances the current scene and any running transition. The
// outgoing scene of a transition is not updated.
func (m *StateMachine) Update(dt float64) {
	if s := m.Current(); s != nil {
		s.Update(dt)
		m.timeInScene += time.Duration(dt * float64(time.Second))
	}
	if m.transition != nil && m.transition.Advance(dt) {
		m.finishTransition()
	}
}

func (m *StateMachine) Render(s platform.Surface) {
	if m.transition != nil {
		m.transition.Render(s)
		return
	}
	if cur := m.Current(); cur != nil {
		cur.Render(s)
	}
}

// Shutdown disposes every registered scene.
func (m *StateMachine) Shutdown() {
	m.finishTransition()
	for _, name := range m.names {
		m.scenes[name].Dispose()
	}
	m.current, m.previous = "", ""
}

func (m *StateMachine) finishTransition() {
	if m.outgoing != nil {
		m.outgoing.Dispose()
		m.outgoing = nil
	}
	m.transition = nil
}

func (m *StateMachine) publish(from, to string) {
	if m.bus == nil {
		return
	}
	if err := m.bus.Publish(events.NewSceneChange(events.SceneChanged, eventSource, from, to)); err != nil {
		m.log.Warn("scene event handler failed", log.Error(err))
	}
}
