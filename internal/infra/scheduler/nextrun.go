package scheduler

import (
	"time"

	"sentinela_corte_bot/internal/infra/config"
)

// NextRun computes the nearest agenda slot strictly after now. When now
// lands exactly on a slot the occurrence rolls to the following week's
// match; the result is never ≤ now, so the sleep loop cannot busy-spin.
func NextRun(agenda *config.Agenda, now time.Time) time.Time {
	var best time.Time
	for _, entry := range agenda.Entries {
		for _, wd := range entry.Weekdays {
			candidate := slotFor(now, wd, entry.TimeOfDay)
			if !candidate.After(now) {
				candidate = candidate.AddDate(0, 0, 7)
			}
			if best.IsZero() || candidate.Before(best) {
				best = candidate
			}
		}
	}
	return best
}

// slotFor is the occurrence of weekday+timeOfDay in the week of "now",
// on or after now's day.
func slotFor(now time.Time, wd time.Weekday, tod time.Duration) time.Time {
	days := (int(wd) - int(now.Weekday()) + 7) % 7
	day := now.AddDate(0, 0, days)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, now.Location()).Add(tod)
}
