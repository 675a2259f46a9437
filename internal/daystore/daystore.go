package daystore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"wellness-tracker/internal/storage"

	"go.uber.org/zap"
)

// DaysKey is the fixed key the day list is stored under.
const DaysKey = "wellness-tracker.days"

// DayRecord is the persisted note state of one plan day.
type DayRecord struct {
	ID        int    `json:"id"`
	Note      string `json:"note"`
	CoachText string `json:"coachText"`
}

// KV is the storage area the day list lives in.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// DefaultDays is the list used when nothing usable is stored.
func DefaultDays() []DayRecord {
	return []DayRecord{{ID: 1, Note: "", CoachText: ""}}
}

// Store loads and saves the full day list as one JSON value.
type Store struct {
	kv     KV
	logger *zap.Logger
}

// NewStore creates a Store over the given key-value backend.
func NewStore(kv KV, logger *zap.Logger) *Store {
	return &Store{kv: kv, logger: logger}
}

// Load reads the day list. A missing key or a value that is not a JSON day
// list yields DefaultDays; only backend failures are returned as errors.
func (s *Store) Load(ctx context.Context) ([]DayRecord, error) {
	data, err := s.kv.Get(ctx, DaysKey)
	if errors.Is(err, storage.ErrNotFound) {
		return DefaultDays(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load days: %w", err)
	}

	var days []DayRecord
	if err := json.Unmarshal(data, &days); err != nil {
		s.logger.Warn("Stored days are unreadable, using defaults", zap.Error(err))
		return DefaultDays(), nil
	}
	if days == nil {
		// A stored JSON null.
		return DefaultDays(), nil
	}
	return days, nil
}

// Save serializes the full list and overwrites the stored value.
func (s *Store) Save(ctx context.Context, days []DayRecord) error {
	if days == nil {
		days = []DayRecord{}
	}
	data, err := json.Marshal(days)
	if err != nil {
		return fmt.Errorf("failed to marshal days: %w", err)
	}
	if err := s.kv.Put(ctx, DaysKey, data); err != nil {
		return fmt.Errorf("failed to save days: %w", err)
	}
	return nil
}

// Journal serializes read-modify-write cycles on the day list.
type Journal struct {
	mu    sync.Mutex
	store *Store
}

// NewJournal wraps a Store.
func NewJournal(store *Store) *Journal {
	return &Journal{store: store}
}

// Days returns every stored record ordered by day id.
func (j *Journal) Days(ctx context.Context) ([]DayRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	days, err := j.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(days, func(a, b int) bool { return days[a].ID < days[b].ID })
	return days, nil
}

// Day returns the record for id, or an empty record if none is stored yet.
func (j *Journal) Day(ctx context.Context, id int) (DayRecord, error) {
	days, err := j.Days(ctx)
	if err != nil {
		return DayRecord{}, err
	}
	for _, d := range days {
		if d.ID == id {
			return d, nil
		}
	}
	return DayRecord{ID: id}, nil
}

// Update applies fn to the record for id (creating it if needed) and
// saves the whole list once.
func (j *Journal) Update(ctx context.Context, id int, fn func(*DayRecord)) (DayRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	days, err := j.store.Load(ctx)
	if err != nil {
		return DayRecord{}, err
	}

	idx := -1
	for i := range days {
		if days[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		days = append(days, DayRecord{ID: id})
		idx = len(days) - 1
	}

	fn(&days[idx])
	if err := j.store.Save(ctx, days); err != nil {
		return DayRecord{}, err
	}
	return days[idx], nil
}

// SetNote replaces the note of a day.
func (j *Journal) SetNote(ctx context.Context, id int, note string) (DayRecord, error) {
	return j.Update(ctx, id, func(d *DayRecord) { d.Note = note })
}

// SetCoachText replaces the coach advice of a day.
func (j *Journal) SetCoachText(ctx context.Context, id int, text string) (DayRecord, error) {
	return j.Update(ctx, id, func(d *DayRecord) { d.CoachText = text })
}
