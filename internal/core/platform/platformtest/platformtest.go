// Package platformtest holds recording doubles for the platform interfaces.
package platformtest

import (
	"image/color"

	"github.com/zeusync/snakecore/internal/core/platform"
	"github.com/zeusync/snakecore/internal/core/systems/physics"
)

type Texture string

func (t Texture) Name() string { return string(t) }

type Draw struct {
	Texture  string
	Pos      physics.Vec2
	Size     physics.Vec2
	Rotation float64
	Alpha    float64
	Fill     bool
	Color    color.RGBA
}

type Surface struct {
	Draws  []Draw
	Begins int
	Ends   int
	alpha  float64
	Width  float64
	Height float64
}

func NewSurface(w, h float64) *Surface {
	return &Surface{Width: w, Height: h, alpha: 1}
}

func (s *Surface) Begin() {
	s.Begins++
	s.Draws = s.Draws[:0]
	s.alpha = 1
}

func (s *Surface) End() { s.Ends++ }

func (s *Surface) DrawSprite(tex platform.Texture, pos, size physics.Vec2, rotation float64) {
	name := ""
	if tex != nil {
		name = tex.Name()
	}
	s.Draws = append(s.Draws, Draw{Texture: name, Pos: pos, Size: size, Rotation: rotation, Alpha: s.alpha})
}

func (s *Surface) FillRect(pos, size physics.Vec2, c color.RGBA) {
	s.Draws = append(s.Draws, Draw{Pos: pos, Size: size, Alpha: s.alpha, Fill: true, Color: c})
}

func (s *Surface) SetAlpha(alpha float64) { s.alpha = alpha }

func (s *Surface) Bounds() physics.Vec2 { return physics.V(s.Width, s.Height) }

// Textures lists drawn sprite names in draw order.
func (s *Surface) Textures() []string {
	var out []string
	for _, d := range s.Draws {
		if !d.Fill {
			out = append(out, d.Texture)
		}
	}
	return out
}

// Input is a scripted input source. Pressed keys reset on NextFrame.
type Input struct {
	held       map[platform.Key]bool
	pressed    map[platform.Key]bool
	queued     map[platform.Key]bool
	pointer    physics.Vec2
	hasPointer bool
}

func NewInput() *Input {
	return &Input{
		held:    map[platform.Key]bool{},
		pressed: map[platform.Key]bool{},
		queued:  map[platform.Key]bool{},
	}
}

func (in *Input) Hold(keys ...platform.Key) {
	for _, k := range keys {
		if !in.held[k] {
			in.pressed[k] = true
		}
		in.held[k] = true
	}
}

func (in *Input) Release(keys ...platform.Key) {
	for _, k := range keys {
		delete(in.held, k)
	}
}

func (in *Input) ReleaseAll() { in.held = map[platform.Key]bool{} }

func (in *Input) SetPointer(p physics.Vec2) {
	in.pointer = p
	in.hasPointer = true
}

// Press queues a tap that WasPressed reports after the next NextFrame, the
// way a host delivers events between frames.
func (in *Input) Press(keys ...platform.Key) {
	for _, k := range keys {
		in.queued[k] = true
	}
}

func (in *Input) NextFrame() {
	in.pressed, in.queued = in.queued, map[platform.Key]bool{}
}

func (in *Input) IsHeld(k platform.Key) bool     { return in.held[k] }
func (in *Input) WasPressed(k platform.Key) bool { return in.pressed[k] }
func (in *Input) Pointer() (physics.Vec2, bool)  { return in.pointer, in.hasPointer }

type Audio struct {
	Sounds []string
	Music  string
	sound  float64
	music  float64
}

func NewAudio() *Audio { return &Audio{sound: 1, music: 1} }

func (a *Audio) PlaySound(id string)      { a.Sounds = append(a.Sounds, id) }
func (a *Audio) PlayMusic(id string)      { a.Music = id }
func (a *Audio) StopMusic()               { a.Music = "" }
func (a *Audio) SetSoundVolume(v float64) { a.sound = platform.ClampVolume(v) }
func (a *Audio) SetMusicVolume(v float64) { a.music = platform.ClampVolume(v) }
func (a *Audio) SoundVolume() float64     { return a.sound }
func (a *Audio) MusicVolume() float64     { return a.music }

var (
	_ platform.Surface = (*Surface)(nil)
	_ platform.Input   = (*Input)(nil)
	_ platform.Audio   = (*Audio)(nil)
)
