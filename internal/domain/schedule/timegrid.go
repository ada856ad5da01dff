package schedule

import (
	"iter"

	"github.com/bookwell/bookwell-api/internal/domain/resource"
	"github.com/bookwell/bookwell-api/internal/pkg/wallclock"
)

// Slot is a candidate bookable window. Ephemeral: computed on demand,
// never persisted.
type Slot struct {
	Date      wallclock.Date      `json:"date"`
	StartTime wallclock.TimeOfDay `json:"start_time"`
	EndTime   wallclock.TimeOfDay `json:"end_time"`
	Available bool                `json:"available"`
}

// GenerateSlots produces the candidate slots of a resource for a date:
// steps of SlotMinutes covering [opening, closing). A slot whose end would
// overflow closing time is dropped, not truncated. The sequence is lazy and
// restartable; it yields nothing for inactive resources or non-operating
// weekdays. Pure function of resource configuration, no I/O.
func GenerateSlots(res *resource.Resource, date wallclock.Date) (iter.Seq[Slot], error) {
	if err := res.ValidateConfig(); err != nil {
		return nil, err
	}

	opening := res.OpeningTime
	closing := res.ClosingTime
	step := res.SlotMinutes
	open := res.Active && res.OpenOn(date.Weekday())

	return func(yield func(Slot) bool) {
		if !open {
			return
		}
		for start := opening; !start.Add(step).After(closing); start = start.Add(step) {
			slot := Slot{
				Date:      date,
				StartTime: start,
				EndTime:   start.Add(step),
				Available: true,
			}
			if !yield(slot) {
				return
			}
		}
	}, nil
}
