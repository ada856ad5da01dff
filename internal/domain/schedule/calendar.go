package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bookwell/bookwell-api/internal/domain/booking"
	"github.com/bookwell/bookwell-api/internal/domain/resource"
	"github.com/bookwell/bookwell-api/internal/pkg/wallclock"
)

// BlockedDay is a calendar day closed for bookings, with the recorded reason.
type BlockedDay struct {
	Date   wallclock.Date `json:"date"`
	Reason string         `json:"reason"`
}

// MonthOverview summarizes one calendar month of a resource: which days are
// blocked and why, and which days carry confirmed bookings. Pending bookings
// do not mark a day; they may still be rejected.
type MonthOverview struct {
	ResourceID  uuid.UUID        `json:"resource_id"`
	Month       string           `json:"month"`
	TotalDays   int              `json:"total_days"`
	BlockedDays []BlockedDay     `json:"blocked_days"`
	BookedDays  []wallclock.Date `json:"booked_days"`
}

// Month returns the calendar overview for a resource and month.
func (a *Availability) Month(ctx context.Context, resourceID uuid.UUID, year int, month time.Month) (*MonthOverview, error) {
	res, err := a.resources.GetByID(ctx, resourceID)
	if err != nil {
		return nil, fmt.Errorf("get resource: %w", err)
	}
	if res == nil {
		return nil, resource.ErrNotFound
	}

	blocked, err := a.blocked.ListBlocked(ctx, resourceID)
	if err != nil {
		return nil, fmt.Errorf("list blocked dates: %w", err)
	}
	active, err := a.bookings.ListActiveByResource(ctx, resourceID)
	if err != nil {
		return nil, fmt.Errorf("list active bookings: %w", err)
	}

	overview := &MonthOverview{
		ResourceID:  resourceID,
		Month:       fmt.Sprintf("%04d-%02d", year, int(month)),
		TotalDays:   daysIn(year, month),
		BlockedDays: []BlockedDay{},
		BookedDays:  []wallclock.Date{},
	}

	for _, bd := range blocked {
		if bd.Date.Year == year && bd.Date.Month == month {
			overview.BlockedDays = append(overview.BlockedDays, BlockedDay{Date: bd.Date, Reason: bd.Reason})
		}
	}

	seen := map[wallclock.Date]bool{}
	for i := range active {
		if active[i].Status != booking.StatusConfirmed {
			continue
		}
		for _, d := range active[i].Dates {
			if d.Year == year && d.Month == month && !seen[d] {
				seen[d] = true
				overview.BookedDays = append(overview.BookedDays, d)
			}
		}
	}
	wallclock.SortDates(overview.BookedDays)

	return overview, nil
}

// daysIn returns the number of days of the month. Day zero of the next
// month normalizes to the last day of this one.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
