package terminal

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/zeusync/snakecore/internal/core/platform"
	"github.com/zeusync/snakecore/internal/core/systems/physics"
)

var _ platform.Input = (*Input)(nil)

// DefaultHoldWindow covers the gap before a terminal's key auto-repeat
// starts.
const DefaultHoldWindow = 600 * time.Millisecond

// Input turns terminal events into held and pressed key state. Terminals
// report key presses and repeats but never releases, so a key counts as
// held until HoldWindow passes without another event for it. Events arrive
// on the polling goroutine; the frame reads state on the game goroutine.
type Input struct {
	mu sync.Mutex

	hold    time.Duration
	now     func() time.Time
	toWorld func(x, y int) physics.Vec2

	lastSeen map[platform.Key]time.Time
	pending  map[platform.Key]bool
	pressed  map[platform.Key]bool

	pointer    physics.Vec2
	hasPointer bool
}

type InputOption func(*Input)

func WithHoldWindow(d time.Duration) InputOption { return func(in *Input) { in.hold = d } }

func WithClock(now func() time.Time) InputOption { return func(in *Input) { in.now = now } }

// NewInput maps pointer cells to world positions through surface.
func NewInput(surface *Surface, opts ...InputOption) *Input {
	in := &Input{
		hold:     DefaultHoldWindow,
		now:      time.Now,
		toWorld:  surface.ToWorld,
		lastSeen: make(map[platform.Key]time.Time),
		pending:  make(map[platform.Key]bool),
		pressed:  make(map[platform.Key]bool),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// HandleEvent records key and mouse events and ignores the rest.
func (in *Input) HandleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if k := TranslateKey(ev.Key(), ev.Rune()); k != platform.KeyUnknown {
			in.keyDown(k)
		}
	case *tcell.EventMouse:
		x, y := ev.Position()
		in.movePointer(x, y)
	}
}

// NextFrame publishes the presses seen since the previous frame. Call it
// once at the start of every frame.
func (in *Input) NextFrame() {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.pressed, in.pending = in.pending, in.pressed
	clear(in.pending)

	now := in.now()
	for k, t := range in.lastSeen {
		if now.Sub(t) >= in.hold {
			delete(in.lastSeen, k)
		}
	}
}

func (in *Input) IsHeld(k platform.Key) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	t, ok := in.lastSeen[k]
	return ok && in.now().Sub(t) < in.hold
}

func (in *Input) WasPressed(k platform.Key) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.pressed[k]
}

func (in *Input) Pointer() (physics.Vec2, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.pointer, in.hasPointer
}

// ReleaseAll forgets every held key, e.g. when the terminal loses focus.
func (in *Input) ReleaseAll() {
	in.mu.Lock()
	defer in.mu.Unlock()
	clear(in.lastSeen)
}

func (in *Input) keyDown(k platform.Key) {
	in.mu.Lock()
	defer in.mu.Unlock()
	now := in.now()
	// a repeat inside the hold window is not a new press
	if t, ok := in.lastSeen[k]; !ok || now.Sub(t) >= in.hold {
		in.pending[k] = true
	}
	in.lastSeen[k] = now
}

func (in *Input) movePointer(x, y int) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.pointer = in.toWorld(x, y)
	in.hasPointer = true
}

var runeKeys = map[rune]platform.Key{
	'w': platform.KeyW, 'W': platform.KeyW,
	'a': platform.KeyA, 'A': platform.KeyA,
	's': platform.KeyS, 'S': platform.KeyS,
	'd': platform.KeyD, 'D': platform.KeyD,
	'p': platform.KeyP, 'P': platform.KeyP,
	'm': platform.KeyM, 'M': platform.KeyM,
	' ': platform.KeySpace,
}

// TranslateKey maps a tcell key to an engine key.
func TranslateKey(k tcell.Key, r rune) platform.Key {
	switch k {
	case tcell.KeyUp:
		return platform.KeyUp
	case tcell.KeyDown:
		return platform.KeyDown
	case tcell.KeyLeft:
		return platform.KeyLeft
	case tcell.KeyRight:
		return platform.KeyRight
	case tcell.KeyEnter:
		return platform.KeyEnter
	case tcell.KeyEscape:
		return platform.KeyEscape
	case tcell.KeyRune:
		return runeKeys[r]
	}
	return platform.KeyUnknown
}
