package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookwell/bookwell-api/internal/domain/blockeddate"
	"github.com/bookwell/bookwell-api/internal/domain/booking"
	"github.com/bookwell/bookwell-api/internal/domain/resource"
	"github.com/bookwell/bookwell-api/internal/pkg/wallclock"
	"github.com/google/uuid"
)

type ResourceGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*resource.Resource, error)
}

type BlockedDates interface {
	IsBlocked(ctx context.Context, resourceID uuid.UUID, date wallclock.Date) (bool, string, error)
	ListBlocked(ctx context.Context, resourceID uuid.UUID) ([]blockeddate.BlockedDate, error)
}

type BookingSource interface {
	ListActiveByResource(ctx context.Context, resourceID uuid.UUID) ([]booking.Booking, error)
}

// Availability computes the open slots of a resource for a date. Read-only:
// it takes no locks, so the result is a snapshot that a concurrent proposal
// may invalidate. Propose re-checks under its own lock.
type Availability struct {
	resources ResourceGetter
	blocked   BlockedDates
	bookings  BookingSource
}

func NewAvailability(resources ResourceGetter, blocked BlockedDates, bookings BookingSource) *Availability {
	return &Availability{resources: resources, blocked: blocked, bookings: bookings}
}

// Slots returns the full grid for the date with each slot flagged available
// or not. A blocked date yields an empty list regardless of bookings. Slots
// are in ascending start order.
func (a *Availability) Slots(ctx context.Context, resourceID uuid.UUID, date wallclock.Date) ([]Slot, error) {
	res, err := a.resources.GetByID(ctx, resourceID)
	if err != nil {
		return nil, fmt.Errorf("get resource: %w", err)
	}
	if res == nil {
		return nil, resource.ErrNotFound
	}

	blocked, _, err := a.blocked.IsBlocked(ctx, resourceID, date)
	if err != nil {
		return nil, fmt.Errorf("check blocked date: %w", err)
	}
	if blocked {
		return []Slot{}, nil
	}

	seq, err := GenerateSlots(res, date)
	if err != nil {
		return nil, err
	}

	active, err := a.bookings.ListActiveByResource(ctx, resourceID)
	if err != nil {
		return nil, fmt.Errorf("list active bookings: %w", err)
	}

	slots := []Slot{}
	for slot := range seq {
		slot.Available = !slotTaken(active, date, slot.StartTime, slot.EndTime)
		slots = append(slots, slot)
	}
	return slots, nil
}

// AvailableOnly filters Slots down to the bookable ones.
func (a *Availability) AvailableOnly(ctx context.Context, resourceID uuid.UUID, date wallclock.Date) ([]Slot, error) {
	all, err := a.Slots(ctx, resourceID, date)
	if err != nil {
		return nil, err
	}
	open := []Slot{}
	for _, s := range all {
		if s.Available {
			open = append(open, s)
		}
	}
	return open, nil
}

func slotTaken(active []booking.Booking, date wallclock.Date, start, end wallclock.TimeOfDay) bool {
	for i := range active {
		if !active[i].Status.IsActive() {
			continue
		}
		if booking.Overlaps(&active[i], []wallclock.Date{date}, start, end) {
			return true
		}
	}
	return false
}

// IsInvalidConfig reports whether err stems from unusable resource slot
// configuration, for handler status mapping.
func IsInvalidConfig(err error) bool {
	return errors.Is(err, resource.ErrInvalidConfig)
}
