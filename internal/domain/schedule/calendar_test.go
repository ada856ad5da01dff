package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bookwell/bookwell-api/internal/domain/booking"
	"github.com/bookwell/bookwell-api/internal/domain/resource"
	"github.com/bookwell/bookwell-api/internal/pkg/wallclock"
)

func TestMonthOverview(t *testing.T) {
	res := testResource()
	avail, blocked, bookings := newTestAvailability(res)

	blocked.Block(res.ID, wallclock.MustDate("2026-09-10"), "Maintenance")
	blocked.Block(res.ID, wallclock.MustDate("2026-10-01"), "Inventory")

	bookings.bookings = append(bookings.bookings,
		activeBooking(res.ID, wallclock.MustDate("2026-09-08"), "09:00", "10:00", booking.StatusConfirmed),
		activeBooking(res.ID, wallclock.MustDate("2026-09-08"), "14:00", "15:00", booking.StatusConfirmed),
		activeBooking(res.ID, wallclock.MustDate("2026-09-09"), "09:00", "10:00", booking.StatusPending),
	)

	ov, err := avail.Month(context.Background(), res.ID, 2026, time.September)
	if err != nil {
		t.Fatalf("Month: %v", err)
	}

	if ov.Month != "2026-09" {
		t.Errorf("Month = %q, want 2026-09", ov.Month)
	}
	if ov.TotalDays != 30 {
		t.Errorf("TotalDays = %d, want 30", ov.TotalDays)
	}

	if len(ov.BlockedDays) != 1 {
		t.Fatalf("expected 1 blocked day in September, got %d", len(ov.BlockedDays))
	}
	if got := ov.BlockedDays[0]; got.Date.String() != "2026-09-10" || got.Reason != "Maintenance" {
		t.Errorf("blocked day = %s %q, want 2026-09-10 Maintenance", got.Date, got.Reason)
	}

	// Two confirmed bookings on the same day collapse to one booked day;
	// the pending booking marks nothing.
	if len(ov.BookedDays) != 1 || ov.BookedDays[0].String() != "2026-09-08" {
		t.Errorf("BookedDays = %v, want [2026-09-08]", ov.BookedDays)
	}
}

func TestMonthOverviewClipsMultiDateBookings(t *testing.T) {
	res := testResource()
	avail, _, bookings := newTestAvailability(res)

	bookings.bookings = append(bookings.bookings, booking.Booking{
		ID:          uuid.New(),
		ResourceID:  res.ID,
		RequesterID: uuid.New(),
		Dates: booking.Dates{
			wallclock.MustDate("2026-09-30"),
			wallclock.MustDate("2026-10-01"),
		},
		StartTime: wallclock.MustTimeOfDay("09:00"),
		EndTime:   wallclock.MustTimeOfDay("10:00"),
		Status:    booking.StatusConfirmed,
	})

	ov, err := avail.Month(context.Background(), res.ID, 2026, time.September)
	if err != nil {
		t.Fatalf("Month: %v", err)
	}
	if len(ov.BookedDays) != 1 || ov.BookedDays[0].String() != "2026-09-30" {
		t.Errorf("BookedDays = %v, want only the September date", ov.BookedDays)
	}
}

func TestMonthOverviewLeapFebruary(t *testing.T) {
	res := testResource()
	avail, _, _ := newTestAvailability(res)

	ov, err := avail.Month(context.Background(), res.ID, 2028, time.February)
	if err != nil {
		t.Fatalf("Month: %v", err)
	}
	if ov.TotalDays != 29 {
		t.Errorf("TotalDays = %d, want 29 for a leap February", ov.TotalDays)
	}
	if len(ov.BlockedDays) != 0 || len(ov.BookedDays) != 0 {
		t.Errorf("empty month should report no blocked or booked days, got %v / %v",
			ov.BlockedDays, ov.BookedDays)
	}
}

func TestMonthOverviewUnknownResource(t *testing.T) {
	res := testResource()
	avail, _, _ := newTestAvailability(res)

	_, err := avail.Month(context.Background(), uuid.New(), 2026, time.September)
	if !errors.Is(err, resource.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
