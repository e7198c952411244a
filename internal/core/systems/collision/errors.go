package collision

import "errors"

var (
	ErrNilWorld         = errors.New("collision: physics world is nil")
	ErrNilEntityManager = errors.New("collision: entity manager is nil")
	ErrNilLogger        = errors.New("collision: logger is nil")
)
