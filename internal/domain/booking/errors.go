package booking

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/bookwell/bookwell-api/internal/pkg/wallclock"
)

var (
	ErrNotFound         = errors.New("booking not found")
	ErrForbidden        = errors.New("actor lacks authority for this action")
	ErrConcurrentUpdate = errors.New("booking was modified concurrently, retry")
	// ErrTimeout marks storage unavailability; the only error callers
	// should retry automatically.
	ErrTimeout = errors.New("storage timeout")
)

// ValidationError covers malformed booking input: empty dates, start >= end,
// invalid calendar dates. Requires corrected input, never a retry.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid booking request: " + e.Reason
}

// DateBlockedError is returned when a proposed date is administratively
// blocked. Carries the date and recorded reason so callers can explain why.
type DateBlockedError struct {
	Date   wallclock.Date
	Reason string
}

func (e *DateBlockedError) Error() string {
	return fmt.Sprintf("date %s is blocked: %s", e.Date, e.Reason)
}

// SlotTakenError is returned when the proposed window overlaps an active
// booking. Carries the conflicting booking id.
type SlotTakenError struct {
	ConflictingID uuid.UUID
}

func (e *SlotTakenError) Error() string {
	return fmt.Sprintf("slot conflicts with booking %s", e.ConflictingID)
}

// InvalidTransitionError is returned for moves outside the state machine.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition booking from %s to %s", e.From, e.To)
}
