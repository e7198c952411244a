package movement

import "errors"

var (
	ErrNilBody           = errors.New("movement: body is nil")
	ErrNilWorld          = errors.New("movement: physics world is nil")
	ErrNilInput          = errors.New("movement: input is nil")
	ErrNilModeSource     = errors.New("movement: control mode source is nil")
	ErrNilLogger         = errors.New("movement: logger is nil")
	ErrNotMovable        = errors.New("movement: entity has no movable component")
	ErrAlreadyRegistered = errors.New("movement: entity already registered")
)
