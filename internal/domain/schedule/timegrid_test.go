package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bookwell/bookwell-api/internal/domain/resource"
	"github.com/bookwell/bookwell-api/internal/pkg/wallclock"
)

func testResource() *resource.Resource {
	return &resource.Resource{
		ID:          uuid.New(),
		Name:        "Lab A",
		OwnerID:     uuid.New(),
		OpeningTime: wallclock.MustTimeOfDay("08:00"),
		ClosingTime: wallclock.MustTimeOfDay("18:00"),
		SlotMinutes: 30,
		Active:      true,
	}
}

// 2026-09-07 is a Monday.
var monday = wallclock.MustDate("2026-09-07")

func collect(t *testing.T, res *resource.Resource, date wallclock.Date) []Slot {
	t.Helper()
	seq, err := GenerateSlots(res, date)
	if err != nil {
		t.Fatalf("GenerateSlots: %v", err)
	}
	var slots []Slot
	for s := range seq {
		slots = append(slots, s)
	}
	return slots
}

func TestGenerateSlotsFullDay(t *testing.T) {
	slots := collect(t, testResource(), monday)

	if len(slots) != 20 {
		t.Fatalf("expected 20 slots for 08:00-18:00 at 30m, got %d", len(slots))
	}
	first, last := slots[0], slots[len(slots)-1]
	if first.StartTime.String() != "08:00" || first.EndTime.String() != "08:30" {
		t.Errorf("first slot = %s-%s, want 08:00-08:30", first.StartTime, first.EndTime)
	}
	if last.StartTime.String() != "17:30" || last.EndTime.String() != "18:00" {
		t.Errorf("last slot = %s-%s, want 17:30-18:00", last.StartTime, last.EndTime)
	}
	for i, s := range slots {
		if !s.Available {
			t.Errorf("slot %d not marked available", i)
		}
		if !s.Date.Equal(monday) {
			t.Errorf("slot %d has date %s, want %s", i, s.Date, monday)
		}
	}
}

func TestGenerateSlotsDropsOverflow(t *testing.T) {
	res := testResource()
	res.OpeningTime = wallclock.MustTimeOfDay("09:00")
	res.ClosingTime = wallclock.MustTimeOfDay("10:15")

	slots := collect(t, res, monday)

	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	last := slots[1]
	if last.EndTime.String() != "10:00" {
		t.Errorf("last slot ends at %s, want 10:00 (no truncated 10:00-10:15 slot)", last.EndTime)
	}
}

func TestGenerateSlotsInvalidConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*resource.Resource)
	}{
		{"zero granularity", func(r *resource.Resource) { r.SlotMinutes = 0 }},
		{"negative granularity", func(r *resource.Resource) { r.SlotMinutes = -15 }},
		{"opening equals closing", func(r *resource.Resource) { r.OpeningTime = r.ClosingTime }},
		{"opening after closing", func(r *resource.Resource) {
			r.OpeningTime = wallclock.MustTimeOfDay("19:00")
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := testResource()
			tc.mutate(res)
			if _, err := GenerateSlots(res, monday); !errors.Is(err, resource.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestGenerateSlotsClosedWeekday(t *testing.T) {
	res := testResource()
	res.OpenWeekdays = resource.Weekdays{time.Tuesday, time.Wednesday}

	if slots := collect(t, res, monday); len(slots) != 0 {
		t.Errorf("expected no slots on a closed weekday, got %d", len(slots))
	}

	tuesday := monday.AddDays(1)
	if slots := collect(t, res, tuesday); len(slots) == 0 {
		t.Error("expected slots on an operating weekday")
	}
}

func TestGenerateSlotsInactiveResource(t *testing.T) {
	res := testResource()
	res.Active = false

	if slots := collect(t, res, monday); len(slots) != 0 {
		t.Errorf("expected no slots for an inactive resource, got %d", len(slots))
	}
}

func TestGenerateSlotsRestartable(t *testing.T) {
	seq, err := GenerateSlots(testResource(), monday)
	if err != nil {
		t.Fatalf("GenerateSlots: %v", err)
	}

	count := func() int {
		n := 0
		for range seq {
			n++
		}
		return n
	}
	if a, b := count(), count(); a != b {
		t.Errorf("sequence not restartable: first pass %d slots, second %d", a, b)
	}
}

func TestGenerateSlotsEarlyBreak(t *testing.T) {
	seq, err := GenerateSlots(testResource(), monday)
	if err != nil {
		t.Fatalf("GenerateSlots: %v", err)
	}
	n := 0
	for range seq {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Errorf("expected iteration to stop at 3, got %d", n)
	}
}
