package domain

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
// Repositories wrap it with the entity name and identifier.
var ErrNotFound = errors.New("not found")

// ValidationError wraps a domain rule violation so transports can tell
// bad input apart from infrastructure failures.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }

func (e *ValidationError) Unwrap() error { return e.Err }
