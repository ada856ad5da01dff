package booking

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/bookwell/bookwell-api/internal/pkg/wallclock"
)

// Status is the booking lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusRejected  Status = "rejected"
)

// allowedTransitions is the full transition graph. Terminal states
// (cancelled, completed, rejected) have no outgoing edges.
var allowedTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusRejected, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
}

// CanTransitionTo reports whether the state machine allows the move.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsActive reports whether the status blocks other bookings. Only pending
// and confirmed bookings contend for slots; cancelled, rejected and
// completed bookings never do.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// IsTerminal reports whether the status accepts no further transitions.
func (s Status) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusRejected:
		return Status(s), nil
	}
	return "", fmt.Errorf("invalid booking status %q", s)
}

// Booking reserves a time range on a resource for one or more calendar
// dates. The same start/end pair applies to every date in the batch.
type Booking struct {
	ID           uuid.UUID           `db:"id" json:"id"`
	ResourceID   uuid.UUID           `db:"resource_id" json:"resource_id"`
	RequesterID  uuid.UUID           `db:"requester_id" json:"requester_id"`
	Dates        Dates               `db:"dates" json:"dates"`
	StartTime    wallclock.TimeOfDay `db:"start_time" json:"start_time"`
	EndTime      wallclock.TimeOfDay `db:"end_time" json:"end_time"`
	Status       Status              `db:"status" json:"status"`
	EquipmentIDs UUIDs               `db:"equipment_ids" json:"equipment_ids"`
	Notes        sql.NullString      `db:"notes" json:"-"`
	CancelReason sql.NullString      `db:"cancel_reason" json:"-"`
	ConfirmedBy  uuid.NullUUID       `db:"confirmed_by" json:"-"`
	Version      int                 `db:"version" json:"-"`
	CreatedAt    time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time           `db:"updated_at" json:"updated_at"`
}

// FirstDate returns the earliest date of the batch (dates are kept sorted).
func (b *Booking) FirstDate() wallclock.Date {
	return b.Dates[0]
}

// LastDate returns the latest date of the batch.
func (b *Booking) LastDate() wallclock.Date {
	return b.Dates[len(b.Dates)-1]
}

// Dates is a sorted batch of calendar dates stored as a date array.
type Dates []wallclock.Date

// Value encodes the dates for a date[] column.
func (d Dates) Value() (driver.Value, error) {
	arr := make(pq.StringArray, len(d))
	for i, date := range d {
		arr[i] = date.String()
	}
	return arr.Value()
}

// Scan decodes a date[] column.
func (d *Dates) Scan(src interface{}) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return err
	}
	out := make(Dates, len(arr))
	for i, s := range arr {
		date, err := wallclock.ParseDate(s)
		if err != nil {
			return fmt.Errorf("invalid date in array: %w", err)
		}
		out[i] = date
	}
	*d = out
	return nil
}

// Contains reports whether the batch includes the given date.
func (d Dates) Contains(date wallclock.Date) bool {
	for _, x := range d {
		if x.Equal(date) {
			return true
		}
	}
	return false
}

// UUIDs is a uuid array column (equipment references, informational only).
type UUIDs []uuid.UUID

// Value encodes for a uuid[] column.
func (u UUIDs) Value() (driver.Value, error) {
	arr := make(pq.StringArray, len(u))
	for i, id := range u {
		arr[i] = id.String()
	}
	return arr.Value()
}

// Scan decodes a uuid[] column.
func (u *UUIDs) Scan(src interface{}) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return err
	}
	out := make(UUIDs, len(arr))
	for i, s := range arr {
		id, err := uuid.Parse(s)
		if err != nil {
			return fmt.Errorf("invalid uuid in array: %w", err)
		}
		out[i] = id
	}
	*u = out
	return nil
}
