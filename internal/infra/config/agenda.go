package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AgendaEntry is one weekly slot: a set of weekdays plus a time of day.
type AgendaEntry struct {
	Weekdays  []time.Weekday
	TimeOfDay time.Duration // offset from local midnight
}

// Agenda is the weekly schedule used by SCHEDULE_MODE=agenda.
type Agenda struct {
	Entries []AgendaEntry
}

type agendaFile struct {
	Entries []agendaFileEntry `yaml:"entries"`
}

type agendaFileEntry struct {
	Weekdays []string `yaml:"weekdays"`
	Time     string   `yaml:"time"`
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// LoadAgenda reads a YAML agenda file:
//
//	entries:
//	  - weekdays: [mon, tue, wed, thu, fri]
//	    time: "08:00"
func LoadAgenda(path string) (*Agenda, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read agenda file: %w", err)
	}
	return ParseAgenda(raw)
}

// ParseAgenda parses agenda YAML bytes.
func ParseAgenda(raw []byte) (*Agenda, error) {
	var file agendaFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse agenda: %w", err)
	}
	if len(file.Entries) == 0 {
		return nil, fmt.Errorf("agenda has no entries")
	}

	agenda := &Agenda{}
	for i, fe := range file.Entries {
		if len(fe.Weekdays) == 0 {
			return nil, fmt.Errorf("agenda entry %d has no weekdays", i)
		}
		entry := AgendaEntry{}
		for _, name := range fe.Weekdays {
			wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
			if !ok {
				return nil, fmt.Errorf("agenda entry %d: unknown weekday %q", i, name)
			}
			entry.Weekdays = append(entry.Weekdays, wd)
		}
		tod, err := parseTimeOfDay(fe.Time)
		if err != nil {
			return nil, fmt.Errorf("agenda entry %d: invalid time %q: %w", i, fe.Time, err)
		}
		entry.TimeOfDay = tod
		agenda.Entries = append(agenda.Entries, entry)
	}
	return agenda, nil
}
