package models

import "github.com/zeusync/snakecore/internal/core/systems/physics"

type Vec2 = physics.Vec2

// AABB is an axis-aligned box given by its centre and half extents.
type AABB struct {
	Center Vec2
	Half   Vec2
}

// Overlaps uses strict inequalities: boxes that only touch along an edge do
// not overlap.
func (a AABB) Overlaps(b AABB) bool {
	dx := a.Center[0] - b.Center[0]
	if dx < 0 {
		dx = -dx
	}
	dy := a.Center[1] - b.Center[1]
	if dy < 0 {
		dy = -dy
	}
	return dx < a.Half[0]+b.Half[0] && dy < a.Half[1]+b.Half[1]
}

func (a AABB) Min() Vec2 { return a.Center.Sub(a.Half) }
func (a AABB) Max() Vec2 { return a.Center.Add(a.Half) }
