package segment

import (
	"math"

	"github.com/zeusync/snakecore/internal/config"
	"github.com/zeusync/snakecore/internal/core/models"
	"github.com/zeusync/snakecore/internal/core/platform"
	"github.com/zeusync/snakecore/internal/core/systems/physics"
)

var (
	_ models.Movable    = (*Body)(nil)
	_ models.Bounded    = (*Body)(nil)
	_ models.Renderable = (*Body)(nil)
	_ models.Layered    = (*Body)(nil)
)

// Body is the head driver and trailing chain of a snake. The owner's
// position is the head. The head always advances at the configured speed
// along its heading; Move only steers.
type Body struct {
	models.BaseComponent

	cfg      config.SnakeConfig
	heading  physics.Vec2
	segments []physics.Vec2
	level    int
	texture  platform.Texture
	layer    int
}

type Option func(*Body)

func WithHeading(dir physics.Vec2) Option {
	return func(b *Body) { b.heading = physics.NormalizeOrZero(dir) }
}

// WithTexture sets the texture drawn for every trailing segment.
func WithTexture(t platform.Texture) Option { return func(b *Body) { b.texture = t } }

func WithLayer(l int) Option { return func(b *Body) { b.layer = l } }

func NewBody(cfg config.SnakeConfig, opts ...Option) *Body {
	b := &Body{cfg: cfg, heading: physics.V(1, 0)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Initialize lays the initial segments out behind the head, one spacing
// apart, opposite to the heading.
func (b *Body) Initialize() error {
	if b.cfg.Spacing <= 0 {
		return ErrInvalidSpacing
	}
	if b.heading == (physics.Vec2{}) {
		b.heading = physics.V(1, 0)
	}
	head := b.Owner().Position()
	b.segments = make([]physics.Vec2, 0, b.cfg.InitialSegments)
	for i := 1; i <= b.cfg.InitialSegments; i++ {
		b.segments = append(b.segments, head.Sub(b.heading.Mul(b.cfg.Spacing*float64(i))))
	}
	return nil
}

// Update advances the head then pulls the chain after it.
func (b *Body) Update(dt float64) {
	owner := b.Owner()
	head := owner.Position().Add(b.heading.Mul(b.cfg.HeadSpeed * dt))
	owner.SetPosition(head)
	owner.SetRotation(physics.Angle(b.heading))
	Follow(head, b.segments, b.cfg.Spacing)
}

// Move steers toward force. A zero force or a turn straight back onto the
// neck is ignored.
func (b *Body) Move(force physics.Vec2) {
	dir := physics.NormalizeOrZero(force)
	if dir == (physics.Vec2{}) {
		return
	}
	if len(b.segments) > 0 && dir.Dot(b.heading) <= -1+1e-9 {
		return
	}
	b.heading = dir
}

// Stop keeps the current heading: the head never halts.
func (b *Body) Stop() {}

func (b *Body) Heading() physics.Vec2 { return b.heading }

// Segments returns a copy, nearest the head first.
func (b *Body) Segments() []physics.Vec2 {
	return append([]physics.Vec2(nil), b.segments...)
}

func (b *Body) Len() int { return len(b.segments) }

// Grow appends n segments stacked on the tail. They spread out as the chain
// moves.
func (b *Body) Grow(n int) {
	if n <= 0 {
		return
	}
	tail := b.tail()
	for range n {
		b.segments = append(b.segments, tail)
	}
}

// Shrink drops up to n segments from the tail and reports how many it
// removed.
func (b *Body) Shrink(n int) int {
	n = min(max(n, 0), len(b.segments))
	b.segments = b.segments[:len(b.segments)-n]
	return n
}

func (b *Body) Level() int { return b.level }

func (b *Body) SetLevel(l int) { b.level = max(l, 0) }

// SegmentSize grows with the level by LevelScale per level.
func (b *Body) SegmentSize() float64 {
	return b.cfg.SegmentSize * (1 + b.cfg.LevelScale*float64(b.level))
}

// Bounds is the head's box, used by the overlap scan to reach pickups.
func (b *Body) Bounds() models.AABB {
	half := b.SegmentSize() / 2
	return models.AABB{Center: b.Owner().Position(), Half: physics.V(half, half)}
}

// HeadTouchesBody reports whether the head overlaps a segment other than
// the ones that always touch it because they sit within one segment size.
func (b *Body) HeadTouchesBody() bool {
	size := b.SegmentSize()
	skip := int(math.Ceil(size / b.cfg.Spacing))
	head := b.Owner().Position()
	for i := skip; i < len(b.segments); i++ {
		if physics.Distance(head, b.segments[i]) < size {
			return true
		}
	}
	return false
}

func (b *Body) Layer() int { return b.layer }

// Render draws the tail end first so segments nearer the head stay on top.
func (b *Body) Render(s platform.Surface) {
	if b.texture == nil {
		return
	}
	size := physics.V(b.SegmentSize(), b.SegmentSize())
	for i := len(b.segments) - 1; i >= 0; i-- {
		s.DrawSprite(b.texture, b.segments[i], size, 0)
	}
}

func (b *Body) tail() physics.Vec2 {
	if len(b.segments) == 0 {
		return b.Owner().Position()
	}
	return b.segments[len(b.segments)-1]
}
