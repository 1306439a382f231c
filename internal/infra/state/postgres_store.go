package state

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"sentinela_corte_bot/internal/domain/report"

	"github.com/sirupsen/logrus"
)

// PostgresStore keeps the run state in a single-row table:
//
//	CREATE TABLE IF NOT EXISTS sentinela_run_state (
//	    id               SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
//	    last_sent_date   DATE,
//	    last_closing_key VARCHAR(7),
//	    updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
//
// last_sent_date travels as a plain "2006-01-02" string in both
// directions. The driver scans a DATE as midnight in the session
// timezone, so converting that instant to another zone can land on a
// different calendar day; only the calendar components are meaningful.
type PostgresStore struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewPostgresStore(db *sql.DB, logger *logrus.Logger) *PostgresStore {
	return &PostgresStore{db: db, logger: logger}
}

func (s *PostgresStore) Load(ctx context.Context) (report.RunState, error) {
	query := `SELECT last_sent_date, last_closing_key FROM sentinela_run_state WHERE id = 1`

	var lastSent sql.NullTime
	var closingKey sql.NullString
	err := s.db.QueryRowContext(ctx, query).Scan(&lastSent, &closingKey)
	if err != nil {
		if err == sql.ErrNoRows {
			return report.RunState{}, nil
		}
		// Unreadable state is treated as empty rather than fatal.
		s.logger.Warnf("Run state row unreadable; starting fresh: %v", err)
		return report.RunState{}, nil
	}

	return runStateFromRow(lastSent, closingKey), nil
}

// runStateFromRow maps a scanned row to a RunState. The date is rebuilt
// from the scanned value's calendar components at local midnight, never
// by converting the instant between zones.
func runStateFromRow(lastSent sql.NullTime, closingKey sql.NullString) report.RunState {
	st := report.RunState{}
	if lastSent.Valid {
		y, m, d := lastSent.Time.Date()
		st.LastSentDate = time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	}
	if closingKey.Valid {
		st.LastClosingPeriod = closingKey.String
	}
	return st
}

// dateParam renders a date for the DATE column, or NULL for the zero
// value. Sending the string keeps the server's session timezone out of
// the stored calendar day.
func dateParam(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(dateLayout), Valid: true}
}

func (s *PostgresStore) Save(ctx context.Context, st report.RunState) error {
	query := `INSERT INTO sentinela_run_state (id, last_sent_date, last_closing_key, updated_at)
               VALUES (1, $1, $2, NOW())
               ON CONFLICT (id) DO UPDATE
               SET last_sent_date = EXCLUDED.last_sent_date,
                   last_closing_key = EXCLUDED.last_closing_key,
                   updated_at = NOW()`

	var closingKey sql.NullString
	if st.LastClosingPeriod != "" {
		closingKey = sql.NullString{String: st.LastClosingPeriod, Valid: true}
	}

	if _, err := s.db.ExecContext(ctx, query, dateParam(st.LastSentDate), closingKey); err != nil {
		return fmt.Errorf("error saving run state: %w", err)
	}
	return nil
}
