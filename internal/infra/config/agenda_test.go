package config

import (
	"testing"
	"time"
)

func TestParseAgenda(t *testing.T) {
	raw := []byte(`
entries:
  - weekdays: [mon, tue, wed, thu, fri]
    time: "08:00"
  - weekdays: [Saturday]
    time: "10:30"
`)
	agenda, err := ParseAgenda(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(agenda.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(agenda.Entries))
	}
	if len(agenda.Entries[0].Weekdays) != 5 || agenda.Entries[0].Weekdays[0] != time.Monday {
		t.Fatalf("unexpected first entry weekdays: %v", agenda.Entries[0].Weekdays)
	}
	if agenda.Entries[0].TimeOfDay != 8*time.Hour {
		t.Fatalf("expected 08:00, got %v", agenda.Entries[0].TimeOfDay)
	}
	if agenda.Entries[1].Weekdays[0] != time.Saturday || agenda.Entries[1].TimeOfDay != 10*time.Hour+30*time.Minute {
		t.Fatalf("unexpected second entry: %+v", agenda.Entries[1])
	}
}

func TestParseAgendaRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"no entries":      `entries: []`,
		"unknown weekday": "entries:\n  - weekdays: [funday]\n    time: \"08:00\"",
		"bad time":        "entries:\n  - weekdays: [mon]\n    time: \"8 o'clock\"",
		"no weekdays":     "entries:\n  - weekdays: []\n    time: \"08:00\"",
		"not yaml":        `{{{{`,
	}
	for name, raw := range cases {
		if _, err := ParseAgenda([]byte(raw)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
