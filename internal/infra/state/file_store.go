package state

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sentinela_corte_bot/internal/domain/report"

	"github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

type fileRecord struct {
	LastSentDate   string `json:"last_sent_date,omitempty"`
	LastClosingKey string `json:"last_fechamento_key,omitempty"`
}

// FileStore persists the run state as a small JSON file. A missing or
// corrupted file loads as empty state: the system would rather risk one
// duplicate send than stop functioning.
type FileStore struct {
	path   string
	logger *logrus.Logger
}

func NewFileStore(path string, logger *logrus.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

func (s *FileStore) Load(_ context.Context) (report.RunState, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warnf("State file unreadable; starting fresh: %v", err)
		}
		return report.RunState{}, nil
	}

	var rec fileRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		s.logger.Warnf("State file corrupted; starting fresh: %v", err)
		return report.RunState{}, nil
	}

	st := report.RunState{LastClosingPeriod: rec.LastClosingKey}
	if rec.LastSentDate != "" {
		d, err := time.ParseInLocation(dateLayout, rec.LastSentDate, time.Local)
		if err != nil {
			s.logger.Warnf("State file has invalid last_sent_date %q; starting fresh.", rec.LastSentDate)
			return report.RunState{}, nil
		}
		st.LastSentDate = d
	}
	return st, nil
}

func (s *FileStore) Save(_ context.Context, st report.RunState) error {
	rec := fileRecord{LastClosingKey: st.LastClosingPeriod}
	if !st.LastSentDate.IsZero() {
		rec.LastSentDate = st.LastSentDate.Format(dateLayout)
	}

	raw, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run state: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write run state: %w", err)
	}
	return nil
}
