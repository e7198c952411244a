package scene

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/snakecore/internal/core/events"
	"github.com/zeusync/snakecore/internal/core/events/bus"
	"github.com/zeusync/snakecore/internal/core/observability/log"
	"github.com/zeusync/snakecore/internal/core/platform/platformtest"
)

func newStack(t *testing.T, opts ...ManagerOption) (*Manager, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	m, err := NewManager(log.NewWithCore(core, log.LevelDebug), opts...)
	require.NoError(t, err)
	return m, logs
}

func TestNewManagerRequiresLogger(t *testing.T) {
	_, err := NewManager(nil)
	assert.ErrorIs(t, err, ErrNilLogger)
}

func TestPushPushPop(t *testing.T) {
	m, _ := newStack(t)
	a, b := newProbe("A"), newProbe("B")

	require.NoError(t, m.Push(a))
	require.NoError(t, m.Push(b))
	assert.Zero(t, a.disposes, "pushing suspends without disposing")
	assert.Same(t, b, m.Current())

	assert.True(t, m.Pop())

	assert.Same(t, a, m.Current())
	assert.Equal(t, 1, b.disposes)
	assert.Equal(t, 2, a.inits)
	assert.Equal(t, 1, m.Depth())
}

func TestPopEmptyStackIsNoop(t *testing.T) {
	m, logs := newStack(t)

	assert.NotPanics(t, func() { assert.False(t, m.Pop()) })
	assert.Nil(t, m.Current())
	assert.Equal(t, 1, logs.FilterMessage("pop of empty scene stack").Len())
}

func TestPopLastSceneLeavesNoCurrent(t *testing.T) {
	m, _ := newStack(t)
	a := newProbe("A")
	require.NoError(t, m.Push(a))

	assert.True(t, m.Pop())
	assert.Nil(t, m.Current())
	assert.Equal(t, 1, a.disposes)
	assert.False(t, m.Pop())
}

func TestPushFailureLeavesStackUnchanged(t *testing.T) {
	m, logs := newStack(t)
	a, broken := newProbe("A"), newProbe("broken")
	broken.failInit = true
	require.NoError(t, m.Push(a))

	assert.Error(t, m.Push(broken))
	assert.Same(t, a, m.Current())
	assert.Equal(t, 1, m.Depth())
	assert.Equal(t, 1, logs.FilterMessage("scene push failed").Len())
	assert.ErrorIs(t, m.Push(nil), ErrNilScene)
}

func TestStackBalance(t *testing.T) {
	m, _ := newStack(t)
	rng := rand.New(rand.NewPCG(7, 11))
	var all []*probe
	successfulPops := 0

	for i := 0; i < 300; i++ {
		if rng.IntN(2) == 0 {
			p := newProbe("s")
			all = append(all, p)
			require.NoError(t, m.Push(p))
			continue
		}
		before := m.Current()
		if m.Pop() {
			successfulPops++
		} else {
			assert.Equal(t, before, m.Current())
		}
	}

	disposes := 0
	for _, p := range all {
		assert.LessOrEqual(t, p.disposes, 1)
		disposes += p.disposes
	}
	assert.Equal(t, successfulPops, disposes)
	assert.Equal(t, len(all)-successfulPops, m.Depth())
}

func TestReplaceDoesNotReinitializeUnderlying(t *testing.T) {
	m, _ := newStack(t)
	a, b, c := newProbe("A"), newProbe("B"), newProbe("C")
	require.NoError(t, m.Push(a))
	require.NoError(t, m.Push(b))

	require.NoError(t, m.Replace(c))

	assert.Same(t, c, m.Current())
	assert.Equal(t, 1, b.disposes)
	assert.Equal(t, 1, a.inits)
	assert.Equal(t, 2, m.Depth())
}

func TestClearDisposesEveryScene(t *testing.T) {
	m, _ := newStack(t)
	a, b := newProbe("A"), newProbe("B")
	require.NoError(t, m.Push(a))
	require.NoError(t, m.Push(b))

	m.Clear()
	m.Clear()

	assert.Equal(t, 1, a.disposes)
	assert.Equal(t, 1, b.disposes)
	assert.Zero(t, m.Depth())
}

func TestOnlyTopSceneRuns(t *testing.T) {
	m, _ := newStack(t)
	a, b := newProbe("A"), newProbe("B")
	require.NoError(t, m.Push(a))
	require.NoError(t, m.Push(b))

	m.Update(0.016)
	m.Render(platformtest.NewSurface(10, 10))

	assert.Zero(t, a.updates)
	assert.Zero(t, a.renders)
	assert.Equal(t, 1, b.updates)
	assert.Equal(t, 1, b.renders)
}

func TestStackPublishesEvents(t *testing.T) {
	b := bus.New()
	var got []events.SceneChangePayload
	for _, typ := range []string{events.ScenePushed, events.ScenePopped} {
		_, err := b.Subscribe(typ, func(ev bus.Event) error {
			got = append(got, ev.Data().(events.SceneChangePayload))
			return nil
		})
		require.NoError(t, err)
	}
	m, _ := newStack(t, WithManagerBus(b))

	require.NoError(t, m.Push(newProbe("menu")))
	require.NoError(t, m.Push(newProbe("pause")))
	m.Pop()

	assert.Equal(t, []events.SceneChangePayload{
		{From: "", To: "menu"},
		{From: "menu", To: "pause"},
		{From: "pause", To: "menu"},
	}, got)
}
