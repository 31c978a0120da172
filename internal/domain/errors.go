package domain

import "errors"

// Domain errors (no external dependencies).
var (
	ErrNotFound        = errors.New("resource not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrConflict        = errors.New("conflict with current state")
	ErrDuplicate       = errors.New("resource already exists")
	ErrPrecondition    = errors.New("precondition failed")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("access denied")
	ErrExternalService = errors.New("external service failure")
)
