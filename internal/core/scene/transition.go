package scene

import (
	"image/color"
	"time"

	"github.com/zeusync/snakecore/internal/core/platform"
)

type TransitionKind uint8

const (
	// TransitionNone switches immediately.
	TransitionNone TransitionKind = iota
	// FadeIn reveals the incoming scene from black.
	FadeIn
	// FadeOut darkens the outgoing scene, then cuts to the incoming one.
	FadeOut
	// FadeThrough fades the outgoing scene to black and the incoming one
	// back in, each over half the duration.
	FadeThrough
	// Crossfade blends the outgoing scene into the incoming one.
	Crossfade
)

func (k TransitionKind) String() string {
	switch k {
	case TransitionNone:
		return "none"
	case FadeIn:
		return "fade-in"
	case FadeOut:
		return "fade-out"
	case FadeThrough:
		return "fade-through"
	case Crossfade:
		return "crossfade"
	default:
		return "unknown"
	}
}

var black = color.RGBA{A: 0xff}

// Transition blends two scenes over a fixed duration. It owns no entities
// and only interpolates a progress value; either scene may be nil.
type Transition struct {
	kind     TransitionKind
	duration time.Duration
	elapsed  time.Duration
	from, to Scene
}

func NewTransition(kind TransitionKind, d time.Duration, from, to Scene) *Transition {
	return &Transition{kind: kind, duration: max(d, 0), from: from, to: to}
}

func (t *Transition) Kind() TransitionKind { return t.kind }
func (t *Transition) From() Scene          { return t.from }
func (t *Transition) To() Scene            { return t.to }

// Advance moves the transition forward by dt seconds and reports whether it
// has finished.
func (t *Transition) Advance(dt float64) bool {
	if dt > 0 {
		t.elapsed = min(t.elapsed+time.Duration(dt*float64(time.Second)), t.duration)
	}
	return t.Done()
}

func (t *Transition) Done() bool { return t.elapsed >= t.duration }

// Progress is in [0,1]; a zero-length transition is already complete.
func (t *Transition) Progress() float64 {
	if t.duration <= 0 {
		return 1
	}
	return float64(t.elapsed) / float64(t.duration)
}

func (t *Transition) Render(s platform.Surface) {
	p := t.Progress()
	switch t.kind {
	case FadeIn:
		draw(s, t.to, 1)
		overlay(s, 1-p)
	case FadeOut:
		draw(s, t.from, 1)
		overlay(s, p)
	case FadeThrough:
		if p < 0.5 {
			draw(s, t.from, 1)
			overlay(s, p*2)
		} else {
			draw(s, t.to, 1)
			overlay(s, (1-p)*2)
		}
	case Crossfade:
		draw(s, t.from, 1-p)
		draw(s, t.to, p)
	default:
		draw(s, t.to, 1)
	}
}

func draw(s platform.Surface, sc Scene, alpha float64) {
	if sc == nil || alpha <= 0 {
		return
	}
	s.SetAlpha(alpha)
	sc.Render(s)
	s.SetAlpha(1)
}

func overlay(s platform.Surface, alpha float64) {
	if alpha <= 0 {
		return
	}
	bounds := s.Bounds()
	s.SetAlpha(min(alpha, 1))
	s.FillRect(bounds.Mul(0.5), bounds, black)
	s.SetAlpha(1)
}
