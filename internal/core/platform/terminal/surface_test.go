package terminal

import (
	"image/color"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/snakecore/internal/core/platform/platformtest"
	"github.com/zeusync/snakecore/internal/core/systems/physics"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(40, 20)
	t.Cleanup(screen.Fini)
	return screen
}

func runeAt(screen tcell.Screen, x, y int) rune {
	r, _, _, _ := screen.GetContent(x, y)
	return r
}

func TestBoundsInWorldUnits(t *testing.T) {
	s := NewSurface(newScreen(t), DefaultScale)
	assert.Equal(t, physics.V(20, 20), s.Bounds())
	assert.Equal(t, physics.V(0.25, 0.5), s.ToWorld(0, 0))
}

func TestDrawSpriteCoversCells(t *testing.T) {
	screen := newScreen(t)
	s := NewSurface(screen, DefaultScale)
	head := NewGlyph("head", '@', color.RGBA{G: 0xff, A: 0xff})

	s.Begin()
	s.DrawSprite(head, physics.V(5, 5), physics.V(1, 1), 0)

	// x from 4.5*2=9 to 5.5*2=11, y from 4.5 to 5.5 rounded to 5..6
	assert.Equal(t, '@', runeAt(screen, 9, 5))
	assert.Equal(t, '@', runeAt(screen, 10, 5))
	assert.NotEqual(t, '@', runeAt(screen, 11, 5))
	assert.NotEqual(t, '@', runeAt(screen, 9, 6))
}

func TestDrawSpriteUsesRegisteredGlyph(t *testing.T) {
	screen := newScreen(t)
	s := NewSurface(screen, DefaultScale)
	s.RegisterGlyph("apple", '*', color.RGBA{R: 0xff, A: 0xff})

	s.DrawSprite(platformtest.Texture("apple"), physics.V(1, 1), physics.V(0.1, 0.1), 0)
	s.DrawSprite(platformtest.Texture("unknown"), physics.V(3, 1), physics.V(0.1, 0.1), 0)
	s.DrawSprite(nil, physics.V(5, 1), physics.V(1, 1), 0)

	assert.Equal(t, '*', runeAt(screen, 2, 1))
	assert.Equal(t, '█', runeAt(screen, 6, 1))
	assert.NotEqual(t, '█', runeAt(screen, 10, 1))
}

func TestDrawSpriteClipsToScreen(t *testing.T) {
	s := NewSurface(newScreen(t), DefaultScale)
	assert.NotPanics(t, func() {
		s.DrawSprite(defaultGlyph, physics.V(-5, -5), physics.V(4, 4), 0)
		s.DrawSprite(defaultGlyph, physics.V(100, 100), physics.V(4, 4), 0)
	})
}

func TestAlphaDimsSprites(t *testing.T) {
	screen := newScreen(t)
	s := NewSurface(screen, DefaultScale)

	s.SetAlpha(0.5)
	s.DrawSprite(NewGlyph("g", 'o', color.RGBA{R: 200, G: 100, A: 0xff}), physics.V(1, 1), physics.V(0.1, 0.1), 0)

	_, _, style, _ := screen.GetContent(2, 1)
	fg, _, _ := style.Decompose()
	r, g, b := fg.RGB()
	assert.Equal(t, []int32{100, 50, 0}, []int32{r, g, b})

	s.SetAlpha(0)
	s.DrawSprite(NewGlyph("g", 'x', color.RGBA{A: 0xff}), physics.V(3, 3), physics.V(0.1, 0.1), 0)
	assert.NotEqual(t, 'x', runeAt(screen, 6, 3))
}

func TestFillRectBlendsOverContent(t *testing.T) {
	screen := newScreen(t)
	s := NewSurface(screen, DefaultScale)
	s.DrawSprite(NewGlyph("g", 'o', color.RGBA{R: 200, G: 200, B: 200, A: 0xff}), physics.V(1, 1), physics.V(0.1, 0.1), 0)

	s.SetAlpha(0.5)
	s.FillRect(s.Bounds().Mul(0.5), s.Bounds(), color.RGBA{A: 0xff})

	r, _, style, _ := screen.GetContent(2, 1)
	assert.Equal(t, 'o', r, "rune survives the overlay")
	fg, _, _ := style.Decompose()
	red, _, _ := fg.RGB()
	assert.Equal(t, int32(100), red)
}

func TestBlend(t *testing.T) {
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	black := color.RGBA{A: 255}
	assert.Equal(t, black, blend(white, black, 1))
	assert.Equal(t, white, blend(white, black, 0))
	assert.Equal(t, color.RGBA{R: 128, G: 128, B: 128, A: 255}, blend(white, black, 0.5))
}
