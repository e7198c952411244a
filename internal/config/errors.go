package config

import "errors"

var (
	ErrInvalidConfig      = errors.New("config: invalid")
	ErrUnknownControlMode = errors.New("config: unknown control mode")
)
