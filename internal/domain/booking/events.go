package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bookwell/bookwell-api/internal/pkg/wallclock"
)

// EventType identifies a booking domain event.
type EventType string

const (
	EventProposed  EventType = "booking.proposed"
	EventConfirmed EventType = "booking.confirmed"
	EventRejected  EventType = "booking.rejected"
	EventCancelled EventType = "booking.cancelled"
	EventCompleted EventType = "booking.completed"
)

// Event describes a booking state change for external notifiers. Delivery
// failure never rolls back the change it describes.
type Event struct {
	Type        EventType           `json:"type"`
	BookingID   uuid.UUID           `json:"booking_id"`
	ResourceID  uuid.UUID           `json:"resource_id"`
	RequesterID uuid.UUID           `json:"requester_id"`
	Status      Status              `json:"status"`
	Dates       []wallclock.Date    `json:"dates"`
	StartTime   wallclock.TimeOfDay `json:"start_time"`
	EndTime     wallclock.TimeOfDay `json:"end_time"`
	Reason      string              `json:"reason,omitempty"`
	OccurredAt  time.Time           `json:"occurred_at"`
}

// EventPublisher delivers booking events to external subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops all events. Used when no notifier is wired.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event Event) error { return nil }

func newEvent(t EventType, b *Booking, reason string) Event {
	return Event{
		Type:        t,
		BookingID:   b.ID,
		ResourceID:  b.ResourceID,
		RequesterID: b.RequesterID,
		Status:      b.Status,
		Dates:       b.Dates,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		Reason:      reason,
		OccurredAt:  time.Now(),
	}
}
