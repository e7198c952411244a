package scene

import "errors"

var (
	ErrNilScene       = errors.New("scene: scene is nil")
	ErrEmptySceneName = errors.New("scene: scene name is empty")
	ErrDuplicateScene = errors.New("scene: scene already registered")
	ErrUnknownScene   = errors.New("scene: unknown scene")
	ErrSceneActive    = errors.New("scene: scene is current")
	ErrNilLogger      = errors.New("scene: logger is nil")
)
