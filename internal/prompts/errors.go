package prompts

import (
	"errors"
	"fmt"
)

// Common prompt store errors.
var (
	// ErrNotFound indicates no prompt with the given name exists.
	ErrNotFound = errors.New("prompt not found")

	// ErrAlreadyExists indicates a prompt with the same name exists.
	ErrAlreadyExists = errors.New("prompt already exists")
)

// NotFoundError wraps ErrNotFound with the prompt name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("prompt not found: %s", e.Name)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// AlreadyExistsError wraps ErrAlreadyExists with the prompt name.
type AlreadyExistsError struct {
	Name string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("prompt already exists: %s", e.Name)
}

func (e *AlreadyExistsError) Unwrap() error {
	return ErrAlreadyExists
}

// SchemaVersionError indicates the database was written by an
// incompatible version.
type SchemaVersionError struct {
	Want int
	Got  int
}

func (e *SchemaVersionError) Error() string {
	return fmt.Sprintf("schema version mismatch: want %d, got %d", e.Want, e.Got)
}
