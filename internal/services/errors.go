package services

import (
	"errors"
	"fmt"
)

// Common service errors
var (
	ErrNotFound     = errors.New("record not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")

	ErrInvalidCredentials = fmt.Errorf("%w: incorrect username or password", ErrUnauthorized)
	ErrAlreadyRestored    = fmt.Errorf("%w: audit entry already restored", ErrConflict)
	ErrProjectChanged     = fmt.Errorf("%w: project was modified concurrently", ErrConflict)
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
