package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/snakecore/internal/core/platform/platformtest"
)

type counter struct {
	BaseComponent
	inits    int
	updates  int
	disposed int
	hits     []*Entity
	initErr  error
}

func (c *counter) Initialize() error {
	c.inits++
	return c.initErr
}

func (c *counter) Update(float64)            { c.updates++ }
func (c *counter) Dispose()                  { c.disposed++ }
func (c *counter) OnCollision(other *Entity) { c.hits = append(c.hits, other) }

type marker struct{ BaseComponent }

func TestNewEntityHasUniqueIdentity(t *testing.T) {
	a := NewEntity("a", KindStatic)
	b := NewEntity("b", KindStatic)
	assert.NotEqual(t, a.ID(), b.ID())
	assert.NotEmpty(t, a.ID())
	assert.True(t, a.IsActive())

	fixed := NewEntity("Player", KindMovable, WithID("Player"), WithPosition(Vec2{1, 2}), WithTags("hero"))
	assert.Equal(t, EntityID("Player"), fixed.ID())
	assert.Equal(t, Vec2{1, 2}, fixed.Position())
	assert.True(t, fixed.HasTag("hero"))
}

func TestAddComponentSetsOwnerAndCapabilities(t *testing.T) {
	e := NewEntity("e", KindMovable)
	c := &counter{}
	require.NoError(t, e.AddComponent(c))

	assert.Same(t, e, c.Owner())
	assert.Equal(t, 1, c.inits)
	assert.True(t, e.Can(CapCollidable))
	assert.True(t, e.Can(CapDisposable))
	assert.False(t, e.Can(CapRenderable))

	got, ok := Get[*counter](e)
	require.True(t, ok)
	assert.Same(t, c, got)
	assert.False(t, Has[*marker](e))

	col, ok := Find[Collidable](e)
	require.True(t, ok)
	assert.Same(t, c, col)
}

func TestAddComponentRejectsInvalid(t *testing.T) {
	e := NewEntity("e", KindStatic)
	assert.ErrorIs(t, e.AddComponent(nil), ErrNilComponent)

	require.NoError(t, e.AddComponent(&marker{}))
	assert.ErrorIs(t, e.AddComponent(&marker{}), ErrDuplicateComponent)

	other := NewEntity("other", KindStatic)
	owned := &counter{}
	require.NoError(t, other.AddComponent(owned))
	assert.ErrorIs(t, e.AddComponent(owned), ErrForeignComponent)

	boom := errors.New("boom")
	failing := &counter{initErr: boom}
	assert.ErrorIs(t, e.AddComponent(failing), boom)
	assert.Nil(t, failing.Owner())
	assert.Equal(t, 1, e.ComponentCount())
}

func TestRemoveComponentDisposesAndRecomputes(t *testing.T) {
	e := NewEntity("e", KindStatic)
	c := &counter{}
	require.NoError(t, e.AddComponent(c))
	require.NoError(t, e.AddComponent(&marker{}))

	require.NoError(t, Remove[*counter](e))
	assert.Equal(t, 1, c.disposed)
	assert.False(t, e.Can(CapCollidable))
	assert.ErrorIs(t, Remove[*counter](e), ErrComponentNotFound)
	assert.Len(t, e.Components(), 1)
}

func TestUpdateSkipsInactive(t *testing.T) {
	e := NewEntity("e", KindStatic)
	c := &counter{}
	require.NoError(t, e.AddComponent(c))

	e.Update(0.016)
	e.SetActive(false)
	e.Update(0.016)
	assert.Equal(t, 1, c.updates)
}

func TestDisposeIsIdempotent(t *testing.T) {
	e := NewEntity("e", KindStatic, WithTexture(platformtest.Texture("wall")))
	c := &counter{}
	require.NoError(t, e.AddComponent(c))

	e.Dispose()
	e.Dispose()
	assert.Equal(t, 1, c.disposed)
	assert.True(t, e.IsDisposed())
	assert.Nil(t, e.Texture())
	assert.ErrorIs(t, e.AddComponent(&marker{}), ErrEntityDisposed)
}

func TestOnCollisionDispatch(t *testing.T) {
	a := NewEntity("a", KindMovable)
	b := NewEntity("b", KindStatic)
	c := &counter{}
	require.NoError(t, a.AddComponent(c))

	var seen *Entity
	require.NoError(t, b.AddComponent(OnCollision(func(self, other *Entity) { seen = other })))

	a.OnCollision(b)
	b.OnCollision(a)
	assert.Equal(t, []*Entity{b}, c.hits)
	assert.Same(t, a, seen)
}

func TestRegistryBinding(t *testing.T) {
	e := NewEntity("e", KindStatic)
	first, second := new(int), new(int)
	require.NoError(t, e.BindRegistry(first))
	require.NoError(t, e.BindRegistry(first))
	assert.ErrorIs(t, e.BindRegistry(second), ErrAlreadyRegistered)
	e.UnbindRegistry(second)
	assert.Equal(t, first, e.Registry())
	e.UnbindRegistry(first)
	assert.Nil(t, e.Registry())
}

func TestSpriteRendersOnlyWithTexture(t *testing.T) {
	s := platformtest.NewSurface(80, 24)
	e := NewEntity("apple", KindTrigger, WithPosition(Vec2{3, 4}), WithSize(1, 1), WithTexture(platformtest.Texture("apple")))
	require.NoError(t, e.AddComponent(NewSprite(2)))
	assert.Equal(t, 2, e.Layer())

	e.Render(s)
	assert.Equal(t, []string{"apple"}, s.Textures())

	e.SetTexture(nil)
	s.Begin()
	e.Render(s)
	assert.Empty(t, s.Draws)
}

func TestAABBOverlapIsStrict(t *testing.T) {
	a := AABB{Center: Vec2{0, 0}, Half: Vec2{1, 1}}
	touching := AABB{Center: Vec2{2, 0}, Half: Vec2{1, 1}}
	overlapping := AABB{Center: Vec2{1.5, 0.5}, Half: Vec2{1, 1}}

	assert.False(t, a.Overlaps(touching))
	assert.True(t, a.Overlaps(overlapping))
	assert.Equal(t, Vec2{-1, -1}, a.Min())
	assert.Equal(t, Vec2{1, 1}, a.Max())
}

func TestBoundingBoxFallsBackToSize(t *testing.T) {
	e := NewEntity("pickup", KindTrigger, WithPosition(Vec2{5, 5}), WithSize(4, 2))
	bb := &BoundingBox{}
	require.NoError(t, e.AddComponent(bb))
	assert.Equal(t, Vec2{2, 1}, bb.Bounds().Half)
	assert.True(t, e.Can(CapBounded))
}

func TestCollisionFilter(t *testing.T) {
	player := CollisionFilter{Category: 1, Mask: 2}
	food := CollisionFilter{Category: 2, Mask: 1}
	wall := CollisionFilter{Category: 4, Mask: 1}
	assert.True(t, player.Accepts(food))
	assert.False(t, player.Accepts(wall))
	assert.True(t, DefaultCollisionFilter.Accepts(DefaultCollisionFilter))
}
