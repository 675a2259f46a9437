package shopping

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Repository handles persistence of grocery list snapshots.
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

// NewRepository creates a new grocery list repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{
		db:  d,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Save stores the items of a generated list and returns the new snapshot ID.
func (r *Repository) Save(ctx context.Context, res Result) (int64, error) {
	itemsJSON, err := json.Marshal(res.Items)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal grocery list items: %w", err)
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO grocery_lists (items, total, created_at) VALUES (?, ?, ?)`,
		string(itemsJSON), res.Total().String(), r.now().UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert grocery list: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read grocery list id: %w", err)
	}
	return id, nil
}

// Latest returns the most recently saved snapshot, or nil if none exists.
func (r *Repository) Latest(ctx context.Context) (*Snapshot, error) {
	var (
		id        int64
		items     string
		total     string
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, items, total, created_at FROM grocery_lists ORDER BY created_at DESC, id DESC LIMIT 1`,
	).Scan(&id, &items, &total, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest grocery list: %w", err)
	}

	snap := &Snapshot{ID: id, CreatedAt: time.UnixMilli(createdAt).UTC()}
	if err := json.Unmarshal([]byte(items), &snap.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal grocery list items: %w", err)
	}
	t, err := strconv.ParseFloat(total, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse grocery list total %q: %w", total, err)
	}
	snap.Total = Cost(t)
	return snap, nil
}

// DeleteOlderThan removes snapshots created before the given time.
func (r *Repository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM grocery_lists WHERE created_at < ?`, before.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old grocery lists: %w", err)
	}
	return result.RowsAffected()
}
