package resource

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/bookwell/bookwell-api/internal/pkg/wallclock"
)

// Resource is a bookable entity: a lab, a room, a service/professional pair.
// Operating hours and granularity drive slot generation; the configuration
// is treated as immutable while a booking proposal is being evaluated.
type Resource struct {
	ID           uuid.UUID           `db:"id" json:"id"`
	Name         string              `db:"name" json:"name"`
	Location     string              `db:"location" json:"location"`
	Description  sql.NullString      `db:"description" json:"-"`
	OwnerID      uuid.UUID           `db:"owner_id" json:"owner_id"`
	OpeningTime  wallclock.TimeOfDay `db:"opening_time" json:"opening_time"`
	ClosingTime  wallclock.TimeOfDay `db:"closing_time" json:"closing_time"`
	SlotMinutes  int                 `db:"slot_minutes" json:"slot_minutes"`
	OpenWeekdays Weekdays            `db:"open_weekdays" json:"open_weekdays"`
	Active       bool                `db:"active" json:"active"`
	CreatedAt    time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time           `db:"updated_at" json:"updated_at"`
}

// OpenOn reports whether the resource operates on the given weekday.
// An empty weekday set means the resource is open every day.
func (r *Resource) OpenOn(day time.Weekday) bool {
	if len(r.OpenWeekdays) == 0 {
		return true
	}
	for _, d := range r.OpenWeekdays {
		if d == day {
			return true
		}
	}
	return false
}

// ValidateConfig checks the slot-generation configuration.
func (r *Resource) ValidateConfig() error {
	if r.SlotMinutes <= 0 {
		return fmt.Errorf("%w: slot granularity must be positive, got %d", ErrInvalidConfig, r.SlotMinutes)
	}
	if !r.OpeningTime.Before(r.ClosingTime) {
		return fmt.Errorf("%w: opening time %s must be before closing time %s", ErrInvalidConfig, r.OpeningTime, r.ClosingTime)
	}
	return nil
}

// Weekdays is a set of operating weekdays stored as an integer array
// (0 = Sunday, matching time.Weekday).
type Weekdays []time.Weekday

// Value implements driver.Valuer via pq integer arrays.
func (w Weekdays) Value() (driver.Value, error) {
	arr := make(pq.Int64Array, len(w))
	for i, d := range w {
		arr[i] = int64(d)
	}
	return arr.Value()
}

// Scan implements sql.Scanner via pq integer arrays.
func (w *Weekdays) Scan(src interface{}) error {
	var arr pq.Int64Array
	if err := arr.Scan(src); err != nil {
		return err
	}
	out := make(Weekdays, len(arr))
	for i, v := range arr {
		if v < 0 || v > 6 {
			return fmt.Errorf("invalid weekday value %d", v)
		}
		out[i] = time.Weekday(v)
	}
	*w = out
	return nil
}

// ParseWeekday maps a lowercase English weekday name to time.Weekday.
func ParseWeekday(name string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if name == weekdayNames[d] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid weekday %q", name)
}

var weekdayNames = map[time.Weekday]string{
	time.Sunday:    "sunday",
	time.Monday:    "monday",
	time.Tuesday:   "tuesday",
	time.Wednesday: "wednesday",
	time.Thursday:  "thursday",
	time.Friday:    "friday",
	time.Saturday:  "saturday",
}

// WeekdayName returns the lowercase English name for a weekday.
func WeekdayName(d time.Weekday) string { return weekdayNames[d] }
