package domain

import (
	"errors"
	"fmt"
)

// Lookup errors
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrNoParticipants  = errors.New("no participants for session")
)

// StoreError wraps a database-layer failure. It is distinct from the
// not-found sentinels so callers can tell "the row is absent" apart from
// "the operation did not happen".
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
