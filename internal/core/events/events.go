// Package events names the engine's bus events and their payloads.
package events

import (
	"time"

	"github.com/zeusync/snakecore/internal/core/events/bus"
	"github.com/zeusync/snakecore/internal/core/models"
)

const (
	CollisionBegin = "collision.begin"
	CollisionEnd   = "collision.end"
	OverlapBegin   = "overlap.begin"
	OverlapEnd     = "overlap.end"

	SceneChanged = "scene.changed"
	ScenePushed  = "scene.pushed"
	ScenePopped  = "scene.popped"

	ControlModeChanged = "movement.mode_changed"
)

// CollisionPayload identifies the two entities of a contact or overlap.
type CollisionPayload struct {
	A, B models.EntityID
	At   time.Time
}

// Involves reports whether id is one side of the pair.
func (p CollisionPayload) Involves(id models.EntityID) bool {
	return p.A == id || p.B == id
}

// Other returns the opposite side of the pair from id.
func (p CollisionPayload) Other(id models.EntityID) models.EntityID {
	if p.A == id {
		return p.B
	}
	return p.A
}

// SceneChangePayload describes a scene transition.
type SceneChangePayload struct {
	From, To string
}

func NewCollision(typ, source string, a, b models.EntityID, at time.Time) bus.Event {
	return bus.NewEventAt(typ, source, CollisionPayload{A: a, B: b, At: at}, at)
}

func NewSceneChange(typ, source, from, to string) bus.Event {
	return bus.NewEvent(typ, source, SceneChangePayload{From: from, To: to})
}
