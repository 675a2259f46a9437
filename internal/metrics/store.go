package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// CoachMetric records metadata for a single coach invocation.
type CoachMetric struct {
	DayID       int
	NoteChars   int
	AdviceChars int
	Latency     time.Duration
	Timestamp   time.Time
}

// Store handles persistence of metrics to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// RecordCoach saves a coach metric to the database.
func (s *Store) RecordCoach(ctx context.Context, m CoachMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO coach_metrics (day_id, note_chars, advice_chars, latency_us, timestamp) VALUES (?, ?, ?, ?, ?)`,
		m.DayID, m.NoteChars, m.AdviceChars, m.Latency.Microseconds(), ts.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert coach metric: %w", err)
	}
	return nil
}

// DailyUsage represents coach activity for a single day.
type DailyUsage struct {
	Date          string  `json:"date"`
	Invocations   int     `json:"invocations"`
	AvgNoteChars  float64 `json:"avg_note_chars"`
	AvgLatencyMic float64 `json:"avg_latency_us"`
}

// GetDailyUsage retrieves usage for the last N days, newest first.
func (s *Store) GetDailyUsage(ctx context.Context, days int) ([]DailyUsage, error) {
	since := time.Now().AddDate(0, 0, -days).UnixMilli()
	rows, err := s.db.QueryContext(ctx, `
		SELECT strftime('%Y-%m-%d', timestamp / 1000, 'unixepoch') AS day,
		       COUNT(*), AVG(note_chars), AVG(latency_us)
		FROM coach_metrics
		WHERE timestamp >= ?
		GROUP BY day
		ORDER BY day DESC`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily usage: %w", err)
	}
	defer rows.Close()

	var results []DailyUsage
	for rows.Next() {
		var u DailyUsage
		if err := rows.Scan(&u.Date, &u.Invocations, &u.AvgNoteChars, &u.AvgLatencyMic); err != nil {
			return nil, fmt.Errorf("failed to scan daily usage: %w", err)
		}
		results = append(results, u)
	}
	return results, rows.Err()
}

// Cleanup removes records older than the specified number of days.
func (s *Store) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	threshold := time.Now().AddDate(0, 0, -olderThanDays).UnixMilli()
	result, err := s.db.ExecContext(ctx, `DELETE FROM coach_metrics WHERE timestamp < ?`, threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up coach metrics: %w", err)
	}
	return result.RowsAffected()
}
