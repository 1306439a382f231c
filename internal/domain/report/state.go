package report

import (
	"context"
	"time"
)

// RunState is the single persisted record guarding against duplicate
// sends. Both fields only ever move forward in calendar order.
type RunState struct {
	// LastSentDate is the last calendar day on which a cycle was
	// handled (sent or deliberately skipped). Zero when never run.
	LastSentDate time.Time
	// LastClosingPeriod is the "YYYY-MM" key of the last month for
	// which a closing report went out. Empty when never run.
	LastClosingPeriod string
}

// HandledOn reports whether the given day was already decided.
func (s RunState) HandledOn(day time.Time) bool {
	if s.LastSentDate.IsZero() {
		return false
	}
	return s.LastSentDate.Year() == day.Year() && s.LastSentDate.YearDay() == day.YearDay()
}

// StateStore persists the RunState across process restarts. Load must
// return an empty RunState (not an error) when no prior state exists or
// the stored record is unreadable.
type StateStore interface {
	Load(ctx context.Context) (RunState, error)
	Save(ctx context.Context, state RunState) error
}
