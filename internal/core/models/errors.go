package models

import "errors"

var (
	ErrNilComponent       = errors.New("component is nil")
	ErrDuplicateComponent = errors.New("component of this type already attached")
	ErrComponentNotFound  = errors.New("component not found")
	ErrForeignComponent   = errors.New("component already owned by another entity")
	ErrAlreadyRegistered  = errors.New("entity already registered in a manager")
	ErrEntityDisposed     = errors.New("entity is disposed")
)
