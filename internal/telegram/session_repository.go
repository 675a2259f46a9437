package telegram

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Session states.
const (
	StateAwaitingNote = "awaiting_note"
)

// Session represents a pending conversation step for a user, e.g. waiting
// for the text of a day note.
type Session struct {
	ID        int64
	UserID    int64
	State     string
	DayID     int
	ExpiresAt time.Time
	CreatedAt time.Time
}

// SessionRepository provides access to session persistence operations
type SessionRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSessionRepository creates a new SessionRepository instance
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db, now: time.Now}
}

// Create replaces any session of the user with a new one and returns its ID.
func (sr *SessionRepository) Create(ctx context.Context, userID int64, state string, dayID int, ttl time.Duration) (int64, error) {
	tx, err := sr.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin session transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM telegram_sessions WHERE user_id = ?`, userID); err != nil {
		return 0, fmt.Errorf("failed to clear sessions: %w", err)
	}

	now := sr.now()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO telegram_sessions (user_id, state, day_id, expires_at, created_at) VALUES (?, ?, ?, ?, ?)`,
		userID, state, dayID, now.Add(ttl).UnixMilli(), now.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create session: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read session id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit session: %w", err)
	}
	return id, nil
}

// GetActive retrieves the most recent non-expired session for a user, or nil.
func (sr *SessionRepository) GetActive(ctx context.Context, userID int64) (*Session, error) {
	var (
		s                    Session
		expiresAt, createdAt int64
	)
	err := sr.db.QueryRowContext(ctx,
		`SELECT id, user_id, state, day_id, expires_at, created_at
		 FROM telegram_sessions
		 WHERE user_id = ? AND expires_at > ?
		 ORDER BY created_at DESC, id DESC LIMIT 1`,
		userID, sr.now().UnixMilli(),
	).Scan(&s.ID, &s.UserID, &s.State, &s.DayID, &expiresAt, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active session: %w", err)
	}

	s.ExpiresAt = time.UnixMilli(expiresAt)
	s.CreatedAt = time.UnixMilli(createdAt)
	return &s, nil
}

// Delete removes a session
func (sr *SessionRepository) Delete(ctx context.Context, sessionID int64) error {
	if _, err := sr.db.ExecContext(ctx, `DELETE FROM telegram_sessions WHERE id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// CleanupExpired removes all expired sessions.
func (sr *SessionRepository) CleanupExpired(ctx context.Context) (int64, error) {
	result, err := sr.db.ExecContext(ctx, `DELETE FROM telegram_sessions WHERE expires_at <= ?`, sr.now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup sessions: %w", err)
	}
	return result.RowsAffected()
}
