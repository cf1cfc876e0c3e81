// Package memory provides an in-memory record store with the same contract
// as the SQLite store: validation, monotonic never-recycled ids, id-DESC
// listing. Used as the dev/test backend.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"tally/internal/core"
)

type Store struct {
	mu     sync.Mutex
	nextID int64
	items  []core.Record
}

func New() *Store {
	return &Store{nextID: 1}
}

func (s *Store) Close() error { return nil }

// Create validates and stores a new record, returning its assigned id.
func (s *Store) Create(_ context.Context, rec core.Record) (int64, error) {
	rec = core.NewRecord(rec.Amount, rec.Category, rec.Note, rec.Date)
	if rec.Date.IsZero() {
		rec.Date = core.Today()
	}
	if err := rec.Validate(); err != nil {
		return 0, fmt.Errorf("create record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec.ID = s.nextID
	s.nextID++ // ids advance even across deletes, never recycled
	s.items = append(s.items, rec)
	return rec.ID, nil
}

// List returns a snapshot of all records, most recently created first.
func (s *Store) List(_ context.Context) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Record, 0, len(s.items))
	for i := len(s.items) - 1; i >= 0; i-- {
		out = append(out, s.items[i])
	}
	return out, nil
}

// Update mutates amount, category, and note in place; id and date stay put.
func (s *Store) Update(_ context.Context, id int64, amount core.Money, category, note string) error {
	category = strings.TrimSpace(category)
	note = strings.TrimSpace(note)
	if err := amount.Validate(); err != nil {
		return fmt.Errorf("update record %d: %w", id, err)
	}
	if category == "" {
		return fmt.Errorf("update record %d: %w", id, core.ErrEmptyCategory)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Amount = amount
			s.items[i].Category = category
			s.items[i].Note = note
			return nil
		}
	}
	return fmt.Errorf("update record %d: %w", id, core.ErrNotFound)
}

// Delete removes a record; unknown ids are a no-op.
func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return nil
}
