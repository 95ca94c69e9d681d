package session

import (
	"errors"
	"fmt"
)

// ErrInvalidState is returned when a transition is attempted before the
// fields it depends on have been set.
var ErrInvalidState = errors.New("invalid record state")

// StateError describes which transition was refused and why.
type StateError struct {
	Op      string // transition name, e.g. "record answer"
	Missing string // field that must be set first
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: %s is not set: %v", e.Op, e.Missing, ErrInvalidState)
}

func (e *StateError) Unwrap() error { return ErrInvalidState }

func invalidState(op, missing string) error {
	return &StateError{Op: op, Missing: missing}
}
