// Package segment moves snake-like bodies: a head driven at constant speed
// and a trailing chain of segments that follow it without a physics body.
package segment

import "github.com/zeusync/snakecore/internal/core/systems/physics"

// Follow pulls each segment toward its leader, head first. A segment within
// spacing of its leader stays put; otherwise it moves distance-spacing along
// the direction to the leader. A segment's leader is its predecessor's
// position after that predecessor moved this same pass, so after Follow no
// two neighbours are further than spacing apart.
func Follow(head physics.Vec2, segments []physics.Vec2, spacing float64) {
	leader := head
	for i := range segments {
		d := physics.Distance(segments[i], leader)
		if d > spacing {
			dir := physics.NormalizeOrZero(leader.Sub(segments[i]))
			segments[i] = segments[i].Add(dir.Mul(d - spacing))
		}
		leader = segments[i]
	}
}

// MaxGap is the largest distance between the head and the first segment or
// between two neighbouring segments.
func MaxGap(head physics.Vec2, segments []physics.Vec2) float64 {
	var gap float64
	leader := head
	for _, s := range segments {
		gap = max(gap, physics.Distance(s, leader))
		leader = s
	}
	return gap
}
