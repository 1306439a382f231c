package state

import (
	"database/sql"
	"testing"
	"time"
)

// The driver hands a DATE column back as midnight in the session
// timezone, typically UTC. The mapped LastSentDate must still name the
// same calendar day in local time, or a mid-day restart in a zone west
// of UTC would no longer recognize today as handled.
func TestPostgresRowMappingKeepsCalendarDay(t *testing.T) {
	scanned := sql.NullTime{
		Time:  time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
		Valid: true,
	}
	st := runStateFromRow(scanned, sql.NullString{String: "2024-02", Valid: true})

	want := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.Local)
	if !st.LastSentDate.Equal(want) {
		t.Fatalf("LastSentDate = %v, want local midnight %v", st.LastSentDate, want)
	}
	if st.LastClosingPeriod != "2024-02" {
		t.Fatalf("LastClosingPeriod = %q, want %q", st.LastClosingPeriod, "2024-02")
	}

	later := time.Date(2024, time.March, 15, 8, 30, 0, 0, time.Local)
	if !st.HandledOn(later) {
		t.Fatalf("2024-03-15 not recognized as handled: stored LastSentDate=%v", st.LastSentDate)
	}
	nextDay := time.Date(2024, time.March, 16, 8, 30, 0, 0, time.Local)
	if st.HandledOn(nextDay) {
		t.Fatal("2024-03-16 should not be handled")
	}
}

func TestPostgresRowMappingNullsAreEmpty(t *testing.T) {
	st := runStateFromRow(sql.NullTime{}, sql.NullString{})
	if !st.LastSentDate.IsZero() {
		t.Fatalf("expected zero LastSentDate, got %v", st.LastSentDate)
	}
	if st.LastClosingPeriod != "" {
		t.Fatalf("expected empty LastClosingPeriod, got %q", st.LastClosingPeriod)
	}
}

func TestPostgresDateParam(t *testing.T) {
	if p := dateParam(time.Time{}); p.Valid {
		t.Fatalf("zero date should be NULL, got %q", p.String)
	}
	d := time.Date(2024, time.March, 15, 8, 5, 0, 0, time.Local)
	p := dateParam(d)
	if !p.Valid || p.String != "2024-03-15" {
		t.Fatalf("dateParam = %+v, want valid %q", p, "2024-03-15")
	}

	// Save then Load must round-trip through the string form to the
	// same calendar day.
	back, err := time.ParseInLocation(dateLayout, p.String, time.UTC)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	st := runStateFromRow(sql.NullTime{Time: back, Valid: true}, sql.NullString{})
	if !st.HandledOn(d) {
		t.Fatalf("round-trip lost the calendar day: %v", st.LastSentDate)
	}
}
