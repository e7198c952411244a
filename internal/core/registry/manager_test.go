package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/snakecore/internal/core/models"
	"github.com/zeusync/snakecore/internal/core/observability/log"
	"github.com/zeusync/snakecore/internal/core/platform/platformtest"
	"github.com/zeusync/snakecore/internal/core/systems/physics"
	"github.com/zeusync/snakecore/internal/core/systems/physics/physicstest"
)

type probe struct {
	models.BaseComponent
	updates  int
	disposed int
	panicOn  string
}

func (p *probe) Update(float64) {
	if p.panicOn == "update" {
		panic("bad entity")
	}
	p.updates++
}

func (p *probe) Dispose() { p.disposed++ }

func newManager(t *testing.T, opts ...Option) (*EntityManager, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	m, err := NewEntityManager(log.NewWithCore(core, log.LevelDebug), opts...)
	require.NoError(t, err)
	return m, logs
}

func TestNewEntityManagerRequiresLogger(t *testing.T) {
	_, err := NewEntityManager(nil)
	assert.ErrorIs(t, err, ErrNilLogger)
}

func TestAddPlayerAndWallCreatesStaticBody(t *testing.T) {
	world := physicstest.New()
	m, _ := newManager(t, WithWorld(world))

	player := models.NewEntity("Player", models.KindMovable, models.WithID("Player"))
	wall := models.NewEntity("Wall", models.KindStatic, models.WithID("Wall"),
		models.WithSize(10, 1), models.WithGeometry())

	require.NoError(t, m.AddEntity(player))
	require.NoError(t, m.AddEntity(wall))

	assert.Equal(t, 2, m.ActiveEntitiesCount())
	assert.True(t, m.HasEntity("Player"))

	statics := world.BodiesOfType(physics.BodyStatic)
	require.Len(t, statics, 1)
	assert.Same(t, wall, statics[0].UserData())
	assert.Equal(t, 10.0, statics[0].Def.Width)
}

func TestAddRejectsNilAndDuplicates(t *testing.T) {
	m, logs := newManager(t)

	assert.ErrorIs(t, m.AddEntity(nil), ErrNilEntity)

	first := models.NewEntity("a", models.KindStatic, models.WithID("same"))
	second := models.NewEntity("b", models.KindStatic, models.WithID("same"))
	require.NoError(t, m.AddEntity(first))
	assert.ErrorIs(t, m.AddEntity(second), ErrDuplicateEntity)

	got, ok := m.GetEntityByID("same")
	require.True(t, ok)
	assert.Same(t, first, got)
	assert.Equal(t, 1, m.Count())
	assert.Equal(t, 1, logs.FilterMessage("rejected duplicate entity").Len())
	assert.Equal(t, 1, logs.FilterMessage("rejected nil entity").Len())
}

func TestEntityCannotLiveInTwoManagers(t *testing.T) {
	m1, _ := newManager(t)
	m2, _ := newManager(t)
	e := models.NewEntity("e", models.KindStatic)

	require.NoError(t, m1.AddEntity(e))
	assert.ErrorIs(t, m2.AddEntity(e), ErrForeignEntity)
	assert.False(t, m2.HasEntity(e.ID()))

	require.True(t, m1.RemoveEntity(e.ID()))
	assert.Nil(t, e.Registry())
}

func TestStaticBodyFailureIsReturned(t *testing.T) {
	world := physicstest.New()
	world.CreateErr = errors.New("out of shapes")
	m, _ := newManager(t, WithWorld(world))

	wall := models.NewEntity("Wall", models.KindStatic, models.WithGeometry())
	err := m.AddEntity(wall)
	assert.ErrorIs(t, err, ErrStaticBody)
	assert.ErrorIs(t, err, world.CreateErr)
	assert.False(t, m.HasEntity(wall.ID()))
	assert.Nil(t, wall.Registry())
}

func TestRemoveEntityDisposesAndDestroysBody(t *testing.T) {
	world := physicstest.New()
	m, _ := newManager(t, WithWorld(world))

	wall := models.NewEntity("Wall", models.KindStatic, models.WithGeometry())
	p := &probe{}
	require.NoError(t, wall.AddComponent(p))
	require.NoError(t, m.AddEntity(wall))

	assert.True(t, m.RemoveEntity(wall.ID()))
	assert.False(t, m.RemoveEntity(wall.ID()))
	assert.Equal(t, 1, p.disposed)
	assert.Empty(t, world.Bodies())
	assert.Equal(t, 1, world.Destroyed)
}

type bodyComponent struct {
	models.BaseComponent
	body physics.Body
}

func (c *bodyComponent) Body() physics.Body { return c.body }

func TestHasBody(t *testing.T) {
	world := physicstest.New()
	m, _ := newManager(t, WithWorld(world))

	wall := models.NewEntity("Wall", models.KindStatic, models.WithGeometry())
	trigger := models.NewEntity("Gate", models.KindTrigger)
	crate := models.NewEntity("Crate", models.KindMovable)
	body, err := world.CreateBody(physics.BodyDef{Type: physics.BodyDynamic, Mass: 1, UserData: crate})
	require.NoError(t, err)
	require.NoError(t, crate.AddComponent(&bodyComponent{body: body}))
	for _, e := range []*models.Entity{wall, trigger, crate} {
		require.NoError(t, m.AddEntity(e))
	}

	assert.True(t, m.HasBody(wall.ID()))
	assert.True(t, m.HasBody(crate.ID()))
	assert.False(t, m.HasBody(trigger.ID()))
	assert.False(t, m.HasBody("missing"))

	require.True(t, m.RemoveEntity(wall.ID()))
	assert.False(t, m.HasBody(wall.ID()))
}

func TestClearEntitiesDisposesEachOnce(t *testing.T) {
	m, _ := newManager(t)
	probes := make([]*probe, 5)
	ids := make([]models.EntityID, 5)
	for i := range probes {
		probes[i] = &probe{}
		e := models.NewEntity("e", models.KindStatic)
		require.NoError(t, e.AddComponent(probes[i]))
		require.NoError(t, m.AddEntity(e))
		ids[i] = e.ID()
	}

	m.ClearEntities()
	m.ClearEntities()

	for i, p := range probes {
		assert.Equal(t, 1, p.disposed)
		assert.False(t, m.HasEntity(ids[i]))
	}
	assert.Zero(t, m.Count())
}

func TestUpdateIsolatesPanickingEntity(t *testing.T) {
	m, logs := newManager(t)
	bad := &probe{panicOn: "update"}
	good := &probe{}

	e1 := models.NewEntity("bad", models.KindStatic)
	e2 := models.NewEntity("good", models.KindStatic)
	require.NoError(t, e1.AddComponent(bad))
	require.NoError(t, e2.AddComponent(good))
	require.NoError(t, m.AddEntity(e1))
	require.NoError(t, m.AddEntity(e2))

	m.UpdateEntities(0.016)

	assert.Equal(t, 1, good.updates)
	entries := logs.FilterMessage("entity failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "bad", entries[0].ContextMap()["name"])
}

type remover struct {
	models.BaseComponent
	m      *EntityManager
	target models.EntityID
}

func (r *remover) Update(float64) { r.m.RemoveEntity(r.target) }

func TestUpdateSkipsEntitiesRemovedThisFrame(t *testing.T) {
	m, _ := newManager(t)
	victim := &probe{}
	ve := models.NewEntity("victim", models.KindStatic)
	require.NoError(t, ve.AddComponent(victim))

	re := models.NewEntity("remover", models.KindStatic)
	require.NoError(t, re.AddComponent(&remover{m: m, target: ve.ID()}))

	require.NoError(t, m.AddEntity(re))
	require.NoError(t, m.AddEntity(ve))

	m.UpdateEntities(0.016)
	assert.Zero(t, victim.updates)
	assert.Equal(t, 1, victim.disposed)
}

func TestRenderOrdersByLayerThenInsertion(t *testing.T) {
	m, _ := newManager(t)
	add := func(name string, layer int) {
		e := models.NewEntity(name, models.KindStatic, models.WithTexture(platformtest.Texture(name)))
		require.NoError(t, e.AddComponent(models.NewSprite(layer)))
		require.NoError(t, m.AddEntity(e))
	}
	add("snake", 2)
	add("floor", 0)
	add("apple", 1)
	add("wall", 0)
	require.NoError(t, m.AddEntity(models.NewEntity("invisible", models.KindTrigger)))

	s := platformtest.NewSurface(80, 24)
	m.Render(s)
	assert.Equal(t, []string{"floor", "wall", "apple", "snake"}, s.Textures())
}

func TestQueryFilters(t *testing.T) {
	m, _ := newManager(t)
	pickup := models.NewEntity("pickup", models.KindTrigger)
	require.NoError(t, pickup.AddComponent(models.NewBoundingBox(1, 1)))
	wall := models.NewEntity("wall", models.KindStatic)
	inactive := models.NewEntity("ghost", models.KindTrigger)
	require.NoError(t, inactive.AddComponent(models.NewBoundingBox(1, 1)))
	inactive.SetActive(false)

	for _, e := range []*models.Entity{pickup, wall, inactive} {
		require.NoError(t, m.AddEntity(e))
	}

	assert.Equal(t, []*models.Entity{pickup, inactive}, m.Query(WithComponent[*models.BoundingBox]()))
	assert.Equal(t, []*models.Entity{pickup}, m.Query(WithCapability(models.CapBounded), Active()))
	assert.Equal(t, []*models.Entity{wall}, m.Query(WithKind(models.KindStatic)))
	assert.Equal(t, 2, m.ActiveEntitiesCount())

	found, ok := m.FindByName("wall")
	require.True(t, ok)
	assert.Same(t, wall, found)
}
