package registry

import "errors"

var (
	ErrNilEntity       = errors.New("entity is nil")
	ErrDuplicateEntity = errors.New("entity with this id already registered")
	ErrForeignEntity   = errors.New("entity registered in another manager")
	ErrNilLogger       = errors.New("logger is nil")
	ErrStaticBody      = errors.New("create static body")
)
