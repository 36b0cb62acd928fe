package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared across services and repositories.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")

	// ErrDuplicateBooking is returned when the store rejects an enrollment or
	// reservation because the user already holds one for the same workshop or
	// gym slot. It is an expected outcome, not a system failure.
	ErrDuplicateBooking = errors.New("already booked")

	// ErrCapacityFull is returned when a workshop or gym slot has no seats left.
	ErrCapacityFull = errors.New("no seats available")

	ErrDuplicateEmail     = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrMutationInFlight is returned when a second mutation is attempted on an
	// entry whose previous mutation has not settled yet.
	ErrMutationInFlight = errors.New("a mutation for this entry is already in progress")

	ErrNoEditSession     = errors.New("no active edit session")
	ErrEditSessionActive = errors.New("an edit session is already active")
)

// ValidationError reports missing or malformed fields on a request. It is
// raised before any remote call is attempted.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + strings.Join(e.Fields, "; ")
}

// ConflictError reports that a grid cell is already occupied. Callers surface
// the occupant's display name to the user.
type ConflictError struct {
	Day          Weekday
	BlockPair    string
	OccupantKind EventKind
	OccupantName string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s bloque %s is already occupied by %s", e.Day, e.BlockPair, e.OccupantName)
}

// RollbackFailure records one compensating write that failed while cancelling
// an edit session.
type RollbackFailure struct {
	EntryID string
	Op      string // "delete" or "reinsert"
	Err     error
}

// RollbackError reports that cancelling an edit session could not fully
// restore the pre-session state. Local and remote state may have diverged for
// the listed entries; the caller should refetch.
type RollbackError struct {
	Failures []RollbackFailure
}

func (e *RollbackError) Error() string {
	return fmt.Sprintf("edit session rollback incomplete: %d compensating write(s) failed", len(e.Failures))
}
