// Package platform declares the narrow host interfaces the engine renders,
// reads input and plays audio through. Implementations live in the terminal
// and sound subpackages; platformtest has recording doubles.
package platform

import (
	"image/color"

	"github.com/zeusync/snakecore/internal/core/systems/physics"
)

// Texture is an opaque visual handle owned by the host.
type Texture interface {
	Name() string
}

// Surface is the render target for one frame.
type Surface interface {
	Begin()
	End()
	// DrawSprite draws tex centred at pos. A nil texture is skipped by callers.
	DrawSprite(tex Texture, pos, size physics.Vec2, rotation float64)
	// FillRect fills a size rectangle centred at pos.
	FillRect(pos, size physics.Vec2, c color.RGBA)
	// SetAlpha sets the opacity multiplier for subsequent draws, in [0,1].
	SetAlpha(alpha float64)
	Bounds() physics.Vec2
}

type Key uint8

const (
	KeyUnknown Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyW
	KeyA
	KeyS
	KeyD
	KeyEnter
	KeyEscape
	KeySpace
	KeyP
	KeyM
)

var keyNames = map[Key]string{
	KeyUnknown: "unknown",
	KeyUp:      "up",
	KeyDown:    "down",
	KeyLeft:    "left",
	KeyRight:   "right",
	KeyW:       "w",
	KeyA:       "a",
	KeyS:       "s",
	KeyD:       "d",
	KeyEnter:   "enter",
	KeyEscape:  "escape",
	KeySpace:   "space",
	KeyP:       "p",
	KeyM:       "m",
}

func (k Key) String() string {
	if n, ok := keyNames[k]; ok {
		return n
	}
	return "unknown"
}

// Input is polled once per frame.
type Input interface {
	IsHeld(k Key) bool
	// WasPressed is edge-triggered: true only on the frame the key went down.
	WasPressed(k Key) bool
	// Pointer returns the cursor position in world space and whether the
	// host has seen a pointer at all.
	Pointer() (physics.Vec2, bool)
}

// Audio plays one-shot sounds and a single looping music track.
type Audio interface {
	PlaySound(id string)
	PlayMusic(id string)
	StopMusic()
	SetSoundVolume(v float64)
	SetMusicVolume(v float64)
	SoundVolume() float64
	MusicVolume() float64
}

// ClampVolume keeps a volume inside [0,1].
func ClampVolume(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
