// Package terminal hosts the engine in a tcell screen: one cell per world
// unit on the y axis and two on the x axis, since cells are about twice as
// tall as they are wide.
package terminal

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/zeusync/snakecore/internal/core/platform"
	"github.com/zeusync/snakecore/internal/core/systems/physics"
)

var _ platform.Surface = (*Surface)(nil)

// Glyph is a texture drawn as a coloured rune.
type Glyph struct {
	name  string
	Rune  rune
	Color color.RGBA
}

func NewGlyph(name string, r rune, c color.RGBA) Glyph {
	return Glyph{name: name, Rune: r, Color: c}
}

func (g Glyph) Name() string { return g.name }

var defaultGlyph = Glyph{name: "default", Rune: '█', Color: color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}}

// Scale maps world units to cells.
type Scale struct {
	X, Y float64
}

var DefaultScale = Scale{X: 2, Y: 1}

type Surface struct {
	screen tcell.Screen
	scale  Scale
	alpha  float64
	glyphs map[string]Glyph
}

func NewSurface(screen tcell.Screen, scale Scale) *Surface {
	if scale.X <= 0 || scale.Y <= 0 {
		scale = DefaultScale
	}
	return &Surface{screen: screen, scale: scale, alpha: 1, glyphs: make(map[string]Glyph)}
}

// RegisterGlyph decides how textures named name are drawn. Textures that
// are not Glyphs and have no registration use a white block.
func (s *Surface) RegisterGlyph(name string, r rune, c color.RGBA) {
	s.glyphs[name] = NewGlyph(name, r, c)
}

func (s *Surface) Begin() {
	s.screen.Clear()
	s.alpha = 1
}

func (s *Surface) End() { s.screen.Show() }

func (s *Surface) SetAlpha(alpha float64) { s.alpha = min(max(alpha, 0), 1) }

// Bounds is the screen size in world units.
func (s *Surface) Bounds() physics.Vec2 {
	w, h := s.screen.Size()
	return physics.V(float64(w)/s.scale.X, float64(h)/s.scale.Y)
}

// ToWorld converts a cell to the world position of its centre.
func (s *Surface) ToWorld(x, y int) physics.Vec2 {
	return physics.V((float64(x)+0.5)/s.scale.X, (float64(y)+0.5)/s.scale.Y)
}

// DrawSprite fills the cells covered by the sprite. Rotation is ignored; a
// cell grid has no useful rotation.
func (s *Surface) DrawSprite(tex platform.Texture, pos, size physics.Vec2, _ float64) {
	if tex == nil || s.alpha <= 0 {
		return
	}
	g := s.glyphFor(tex)
	style := tcell.StyleDefault.Foreground(toColor(scaleRGB(g.Color, s.alpha)))
	s.cells(pos, size, func(x, y int) {
		s.screen.SetContent(x, y, g.Rune, nil, style)
	})
}

// FillRect blends c over what is already in the covered cells, keeping
// their runes.
func (s *Surface) FillRect(pos, size physics.Vec2, c color.RGBA) {
	if s.alpha <= 0 {
		return
	}
	a := s.alpha * float64(c.A) / 0xff
	s.cells(pos, size, func(x, y int) {
		r, _, style, _ := s.screen.GetContent(x, y)
		fg, bg, _ := style.Decompose()
		blended := tcell.StyleDefault.
			Foreground(toColor(blend(fromColor(fg), c, a))).
			Background(toColor(blend(fromColor(bg), c, a)))
		if r == 0 {
			r = ' '
		}
		s.screen.SetContent(x, y, r, nil, blended)
	})
}

// cells calls fn for every on-screen cell whose centre lies in the
// rectangle centred at pos. Rectangles smaller than a cell still cover the
// cell containing pos.
func (s *Surface) cells(pos, size physics.Vec2, fn func(x, y int)) {
	w, h := s.screen.Size()
	minX := int(math.Round((pos[0] - size[0]/2) * s.scale.X))
	maxX := int(math.Round((pos[0] + size[0]/2) * s.scale.X))
	minY := int(math.Round((pos[1] - size[1]/2) * s.scale.Y))
	maxY := int(math.Round((pos[1] + size[1]/2) * s.scale.Y))
	if maxX <= minX {
		minX = int(math.Floor(pos[0] * s.scale.X))
		maxX = minX + 1
	}
	if maxY <= minY {
		minY = int(math.Floor(pos[1] * s.scale.Y))
		maxY = minY + 1
	}
	for y := max(minY, 0); y < min(maxY, h); y++ {
		for x := max(minX, 0); x < min(maxX, w); x++ {
			fn(x, y)
		}
	}
}

func (s *Surface) glyphFor(tex platform.Texture) Glyph {
	if g, ok := tex.(Glyph); ok {
		return g
	}
	if g, ok := s.glyphs[tex.Name()]; ok {
		return g
	}
	return defaultGlyph
}

func toColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func fromColor(c tcell.Color) color.RGBA {
	if c == tcell.ColorDefault {
		return color.RGBA{A: 0xff}
	}
	r, g, b := c.RGB()
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xff}
}

func scaleRGB(c color.RGBA, f float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
		A: c.A,
	}
}

func blend(under, over color.RGBA, a float64) color.RGBA {
	mix := func(u, o uint8) uint8 { return uint8(math.Round(float64(u)*(1-a) + float64(o)*a)) }
	return color.RGBA{R: mix(under.R, over.R), G: mix(under.G, over.G), B: mix(under.B, over.B), A: 0xff}
}
