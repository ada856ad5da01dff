package booking

import "github.com/bookwell/bookwell-api/internal/pkg/wallclock"

// IntervalsOverlap reports whether [aStart,aEnd) and [bStart,bEnd)
// intersect. Half-open semantics: a booking ending at 10:00 does not
// conflict with one starting at 10:00.
func IntervalsOverlap(aStart, aEnd, bStart, bEnd wallclock.TimeOfDay) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Overlaps reports whether an existing booking conflicts with a candidate
// window: they share at least one date and their time intervals intersect.
// Status filtering is the caller's job; this is pure interval arithmetic.
func Overlaps(existing *Booking, candidateDates []wallclock.Date, candidateStart, candidateEnd wallclock.TimeOfDay) bool {
	if !IntervalsOverlap(existing.StartTime, existing.EndTime, candidateStart, candidateEnd) {
		return false
	}
	for _, d := range candidateDates {
		if existing.Dates.Contains(d) {
			return true
		}
	}
	return false
}

// FindConflict returns the first active booking that conflicts with the
// candidate window, or nil. Cancelled, rejected and completed bookings are
// excluded purely by status, keeping the check clock-independent.
func FindConflict(existing []Booking, candidateDates []wallclock.Date, candidateStart, candidateEnd wallclock.TimeOfDay) *Booking {
	for i := range existing {
		if !existing[i].Status.IsActive() {
			continue
		}
		if Overlaps(&existing[i], candidateDates, candidateStart, candidateEnd) {
			return &existing[i]
		}
	}
	return nil
}
