package session

import (
	"errors"
	"fmt"

	"datatable/preset"
)

var (
	ErrNotReady       = errors.New("session has no configuration yet")
	ErrAborted        = errors.New("operation cancelled")
	ErrNotFound       = errors.New("session not found")
	ErrInvalidTableID = errors.New("invalid table id")
)

// ValidationError reports user input that was rejected before any state
// changed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports a preset id that resolved to nothing.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("preset %q not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == preset.ErrNotFound
}

// PersistenceError reports a store write that failed after the in-memory
// change was already committed. The change is not rolled back.
type PersistenceError struct {
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
