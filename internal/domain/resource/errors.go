package resource

import "errors"

var (
	ErrNotFound      = errors.New("resource not found")
	ErrInactive      = errors.New("resource is inactive")
	ErrInvalidConfig = errors.New("invalid resource configuration")
	ErrNotOwner      = errors.New("actor does not own this resource")
)
