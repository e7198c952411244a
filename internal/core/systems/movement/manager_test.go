package movement

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/snakecore/internal/config"
	"github.com/zeusync/snakecore/internal/core/events"
	"github.com/zeusync/snakecore/internal/core/events/bus"
	"github.com/zeusync/snakecore/internal/core/models"
	"github.com/zeusync/snakecore/internal/core/observability/log"
	"github.com/zeusync/snakecore/internal/core/platform"
	"github.com/zeusync/snakecore/internal/core/platform/platformtest"
	"github.com/zeusync/snakecore/internal/core/systems/physics"
)

const magnitude = 8

type spyMover struct {
	models.BaseComponent
	moves []physics.Vec2
	stops int
}

func (s *spyMover) Move(f physics.Vec2) { s.moves = append(s.moves, f) }
func (s *spyMover) Stop()               { s.stops++ }

func (s *spyMover) last() physics.Vec2 {
	if len(s.moves) == 0 {
		return physics.Vec2{}
	}
	return s.moves[len(s.moves)-1]
}

type managerFixture struct {
	input    *platformtest.Input
	settings *config.Settings
	manager  *Manager
}

func newManagerFixture(t *testing.T, cfg config.MovementConfig, opts ...Option) *managerFixture {
	t.Helper()
	if cfg.ForceMagnitude == 0 {
		cfg.ForceMagnitude = magnitude
	}
	f := &managerFixture{
		input:    platformtest.NewInput(),
		settings: config.NewSettings(config.ControlKeyboard),
	}
	m, err := NewManager(log.NewNop(), f.input, f.settings, cfg, opts...)
	require.NoError(t, err)
	f.manager = m
	return f
}

func (f *managerFixture) mover(t *testing.T, pos physics.Vec2) (*models.Entity, *spyMover) {
	t.Helper()
	spy := &spyMover{}
	e := models.NewEntity("mover", models.KindMovable, models.WithPosition(pos))
	require.NoError(t, e.AddComponent(spy))
	require.NoError(t, f.manager.Register(e))
	return e, spy
}

func TestNewManagerValidates(t *testing.T) {
	in := platformtest.NewInput()
	s := config.NewSettings(config.ControlKeyboard)

	_, err := NewManager(nil, in, s, config.MovementConfig{})
	assert.ErrorIs(t, err, ErrNilLogger)
	_, err = NewManager(log.NewNop(), nil, s, config.MovementConfig{})
	assert.ErrorIs(t, err, ErrNilInput)
	_, err = NewManager(log.NewNop(), in, nil, config.MovementConfig{})
	assert.ErrorIs(t, err, ErrNilModeSource)
}

func TestRegisterRequiresMovable(t *testing.T) {
	f := newManagerFixture(t, config.MovementConfig{})

	assert.ErrorIs(t, f.manager.Register(nil), ErrNotMovable)
	assert.ErrorIs(t, f.manager.Register(models.NewEntity("rock", models.KindStatic)), ErrNotMovable)

	e, _ := f.mover(t, physics.Vec2{})
	assert.ErrorIs(t, f.manager.Register(e), ErrAlreadyRegistered)
	assert.Equal(t, 1, f.manager.Count())

	assert.True(t, f.manager.Unregister(e.ID()))
	assert.False(t, f.manager.Unregister(e.ID()))
	assert.Zero(t, f.manager.Count())
}

func TestRightKeyThenRelease(t *testing.T) {
	f := newManagerFixture(t, config.MovementConfig{})
	_, spy := f.mover(t, physics.Vec2{})

	f.input.Hold(platform.KeyRight)
	f.manager.Update(1.0 / 60)
	require.Len(t, spy.moves, 1)
	assert.Equal(t, physics.V(magnitude, 0), spy.last())
	assert.Zero(t, spy.stops)

	f.input.NextFrame()
	f.input.ReleaseAll()
	f.manager.Update(1.0 / 60)
	assert.Len(t, spy.moves, 1)
	assert.Equal(t, 1, spy.stops)
}

func TestKeyboardDirections(t *testing.T) {
	tests := []struct {
		name      string
		keys      []platform.Key
		normalize bool
		want      physics.Vec2
	}{
		{"up", []platform.Key{platform.KeyUp}, false, physics.V(0, -magnitude)},
		{"wasd down", []platform.Key{platform.KeyS}, false, physics.V(0, magnitude)},
		{"left", []platform.Key{platform.KeyA}, false, physics.V(-magnitude, 0)},
		{"diagonal adds", []platform.Key{platform.KeyUp, platform.KeyRight}, false, physics.V(magnitude, -magnitude)},
		{"opposites cancel", []platform.Key{platform.KeyLeft, platform.KeyRight}, false, physics.Vec2{}},
		{"arrow and letter agree", []platform.Key{platform.KeyRight, platform.KeyD}, false, physics.V(magnitude, 0)},
		{"diagonal normalized", []platform.Key{platform.KeyDown, platform.KeyRight}, true,
			physics.V(magnitude/math.Sqrt2, magnitude/math.Sqrt2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newManagerFixture(t, config.MovementConfig{NormalizeDiagonal: tt.normalize})
			f.input.Hold(tt.keys...)
			got := f.manager.KeyboardForce()
			assert.InDelta(t, tt.want[0], got[0], 1e-9)
			assert.InDelta(t, tt.want[1], got[1], 1e-9)
		})
	}
}

func TestCancelledKeysStop(t *testing.T) {
	f := newManagerFixture(t, config.MovementConfig{})
	_, spy := f.mover(t, physics.Vec2{})

	f.input.Hold(platform.KeyUp, platform.KeyDown)
	f.manager.Update(1.0 / 60)

	assert.Empty(t, spy.moves)
	assert.Equal(t, 1, spy.stops)
}

type orientedSpy struct {
	spyMover
	angle float64
}

func (o *orientedSpy) SetAngle(rad float64) { o.angle = rad }

func TestPointerModeChasesPointer(t *testing.T) {
	f := newManagerFixture(t, config.MovementConfig{TrackOrientation: true})
	require.NoError(t, f.settings.SetControlMode(config.ControlPointer))

	spy := &orientedSpy{}
	e := models.NewEntity("mover", models.KindMovable, models.WithPosition(physics.V(1, 1)))
	require.NoError(t, e.AddComponent(spy))
	require.NoError(t, f.manager.Register(e))

	f.input.SetPointer(physics.V(1, 11))
	f.manager.Update(1.0 / 60)

	got := spy.last()
	assert.InDelta(t, 0, got[0], 1e-9)
	assert.InDelta(t, magnitude, got[1], 1e-9)
	assert.InDelta(t, math.Pi/2, spy.angle, 1e-9)
}

func TestPointerModeStopsWithoutPointerOrOnArrival(t *testing.T) {
	f := newManagerFixture(t, config.MovementConfig{})
	require.NoError(t, f.settings.SetControlMode(config.ControlPointer))
	_, spy := f.mover(t, physics.V(5, 5))

	f.manager.Update(1.0 / 60)
	assert.Equal(t, 1, spy.stops, "no pointer seen yet")

	f.input.SetPointer(physics.V(5.1, 5))
	f.manager.Update(1.0 / 60)
	assert.Equal(t, 2, spy.stops)
	assert.Empty(t, spy.moves)
}

func TestPointerModeUsesBodyPosition(t *testing.T) {
	f := newManagerFixture(t, config.MovementConfig{})
	require.NoError(t, f.settings.SetControlMode(config.ControlPointer))

	_, e, c := attached(t)
	require.NoError(t, f.manager.Register(e))
	c.body.SetPosition(physics.V(10, 4))

	f.input.SetPointer(physics.V(3, 4))
	f.manager.Update(1.0 / 60)

	v := c.Velocity()
	assert.InDelta(t, -magnitude, v[0], 1e-9)
	assert.InDelta(t, 0, v[1], 1e-9)
}

func TestToggleKeySwitchesModeAndPublishes(t *testing.T) {
	b := bus.New()
	var got []config.ControlMode
	_, err := b.Subscribe(events.ControlModeChanged, func(ev bus.Event) error {
		got = append(got, ev.Data().(config.ControlMode))
		return nil
	})
	require.NoError(t, err)

	f := newManagerFixture(t, config.MovementConfig{}, WithBus(b))

	f.input.Hold(platform.KeyM)
	f.manager.Update(1.0 / 60)
	assert.Equal(t, config.ControlPointer, f.manager.Mode())

	f.input.NextFrame()
	f.manager.Update(1.0 / 60)
	assert.Equal(t, config.ControlPointer, f.manager.Mode(), "held key toggles once")

	assert.Equal(t, []config.ControlMode{config.ControlPointer}, got)
	assert.True(t, f.settings.Dirty())
}

func TestDisposedMoversAreDropped(t *testing.T) {
	f := newManagerFixture(t, config.MovementConfig{})
	e, spy := f.mover(t, physics.Vec2{})
	sleeping, sleepy := f.mover(t, physics.Vec2{})
	sleeping.SetActive(false)

	e.Dispose()
	f.input.Hold(platform.KeyRight)
	f.manager.Update(1.0 / 60)

	assert.Empty(t, spy.moves)
	assert.Empty(t, sleepy.moves)
	assert.Equal(t, 1, f.manager.Count())
	assert.NoError(t, f.manager.Register(e), "id is free again")
}
