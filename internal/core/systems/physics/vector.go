package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec2 is the engine-wide 2D vector.
type Vec2 = mgl64.Vec2

// V is shorthand for building a Vec2.
func V(x, y float64) Vec2 { return Vec2{x, y} }

// Distance computes Euclidean distance between two points.
func Distance(a, b Vec2) float64 { return math.Hypot(b[0]-a[0], b[1]-a[1]) }

// NormalizeOrZero returns v scaled to unit length, or the zero vector when v
// has no length (mgl64 would yield NaN).
func NormalizeOrZero(v Vec2) Vec2 {
	l := v.Len()
	if l == 0 || math.IsNaN(l) {
		return Vec2{}
	}
	return v.Mul(1 / l)
}

// Angle returns the heading of v in radians.
func Angle(v Vec2) float64 { return math.Atan2(v[1], v[0]) }
