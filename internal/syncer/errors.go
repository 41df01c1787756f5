package syncer

import (
	"errors"
	"fmt"
)

var (
	// ErrGuestWriteForbidden is returned when a guest tries to add words.
	// Guests have no durable per-user collection.
	ErrGuestWriteForbidden = errors.New("guests cannot add new words, sign up to save your vocabulary")

	// ErrNotSignedIn is returned for remote operations before any mode is entered
	ErrNotSignedIn = errors.New("not signed in")
)

// SyncError reports a failed read or write against durable storage.
// Local state is never rolled back; the next mutation writes the full map again.
type SyncError struct {
	Op      string
	Version uint64
	Err     error
}

func (e *SyncError) Error() string {
	if e.Version > 0 {
		return fmt.Sprintf("sync %s (version %d): %v", e.Op, e.Version, e.Err)
	}
	return fmt.Sprintf("sync %s: %v", e.Op, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}
