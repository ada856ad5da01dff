package blockeddate

import (
	"time"

	"github.com/google/uuid"

	"github.com/bookwell/bookwell-api/internal/pkg/wallclock"
)

// DefaultReason is applied when an admin blocks a date without giving one,
// matching the platform's historical behavior.
const DefaultReason = "Maintenance"

// BlockedDate marks a calendar date on which a resource accepts no bookings.
// At most one entry exists per (resource, date).
type BlockedDate struct {
	ResourceID uuid.UUID      `db:"resource_id" json:"resource_id"`
	Date       wallclock.Date `db:"date" json:"date"`
	Reason     string         `db:"reason" json:"reason"`
	CreatedBy  uuid.UUID      `db:"created_by" json:"created_by"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
}
