package scheduler

import (
	"testing"
	"time"

	"sentinela_corte_bot/internal/infra/config"
)

func weekdayAgenda(tod time.Duration, days ...time.Weekday) *config.Agenda {
	return &config.Agenda{Entries: []config.AgendaEntry{{Weekdays: days, TimeOfDay: tod}}}
}

func TestNextRunExactSlotRollsForward(t *testing.T) {
	agenda := weekdayAgenda(8*time.Hour,
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)

	// 2024-03-18 is a Monday.
	now := time.Date(2024, 3, 18, 8, 0, 0, 0, time.Local)
	next := NextRun(agenda, now)

	want := time.Date(2024, 3, 19, 8, 0, 0, 0, time.Local) // Tuesday 08:00
	if !next.Equal(want) {
		t.Fatalf("expected %v, got %v", want, next)
	}
}

func TestNextRunNeverAtOrBeforeNow(t *testing.T) {
	agenda := weekdayAgenda(8*time.Hour,
		time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday)

	starts := []time.Time{
		time.Date(2024, 3, 18, 7, 59, 59, 0, time.Local),
		time.Date(2024, 3, 18, 8, 0, 0, 0, time.Local),
		time.Date(2024, 3, 18, 8, 0, 1, 0, time.Local),
		time.Date(2024, 12, 31, 23, 59, 59, 0, time.Local),
	}
	for _, now := range starts {
		next := NextRun(agenda, now)
		if !next.After(now) {
			t.Fatalf("NextRun(%v) = %v, not strictly after now", now, next)
		}
	}
}

func TestNextRunSameDayLaterSlot(t *testing.T) {
	agenda := weekdayAgenda(8*time.Hour, time.Monday)

	now := time.Date(2024, 3, 18, 6, 30, 0, 0, time.Local) // Monday 06:30
	next := NextRun(agenda, now)

	want := time.Date(2024, 3, 18, 8, 0, 0, 0, time.Local)
	if !next.Equal(want) {
		t.Fatalf("expected %v, got %v", want, next)
	}
}

func TestNextRunWeekWrap(t *testing.T) {
	agenda := weekdayAgenda(8*time.Hour,
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)

	// Friday 09:00: the week's slots are spent, wrap to Monday.
	now := time.Date(2024, 3, 22, 9, 0, 0, 0, time.Local)
	next := NextRun(agenda, now)

	want := time.Date(2024, 3, 25, 8, 0, 0, 0, time.Local)
	if !next.Equal(want) {
		t.Fatalf("expected %v, got %v", want, next)
	}
}

func TestNextRunPicksEarliestAcrossEntries(t *testing.T) {
	agenda := &config.Agenda{Entries: []config.AgendaEntry{
		{Weekdays: []time.Weekday{time.Monday}, TimeOfDay: 18 * time.Hour},
		{Weekdays: []time.Weekday{time.Monday}, TimeOfDay: 12 * time.Hour},
	}}

	now := time.Date(2024, 3, 18, 9, 0, 0, 0, time.Local) // Monday 09:00
	next := NextRun(agenda, now)

	want := time.Date(2024, 3, 18, 12, 0, 0, 0, time.Local)
	if !next.Equal(want) {
		t.Fatalf("expected %v, got %v", want, next)
	}
}
