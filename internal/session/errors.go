package session

import (
	"errors"
	"fmt"
)

// Common session errors.
var (
	// ErrNotFound indicates the requested session does not exist.
	ErrNotFound = errors.New("session not found")

	// ErrRead indicates a session transcript could not be read.
	ErrRead = errors.New("session read error")
)

// NotFoundError wraps ErrNotFound with the session id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("session not found: %s", e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError creates a typed not found error.
func NewNotFoundError(id string) error {
	return &NotFoundError{ID: id}
}

// ReadError wraps ErrRead with the transcript path.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading session %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return ErrRead
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
