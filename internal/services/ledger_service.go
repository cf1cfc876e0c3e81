// Package services provides orchestration between the record store and the
// projection engine for the presentation layer.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tally/internal/core"
)

// RecordStore is the persistence port the service drives. Both the SQLite
// and the in-memory store satisfy it.
type RecordStore interface {
	Create(ctx context.Context, rec core.Record) (int64, error)
	List(ctx context.Context) ([]core.Record, error)
	Update(ctx context.Context, id int64, amount core.Money, category, note string) error
	Delete(ctx context.Context, id int64) error
	Close() error
}

// LedgerService wires mutations to the store and recomputes projections on
// demand. It holds no view state: every Overview call re-fetches the full
// record set and re-derives totals, so displayed totals can never drift
// from storage.
type LedgerService struct {
	store RecordStore
	now   func() time.Time
}

func NewLedgerService(store RecordStore) *LedgerService {
	return &LedgerService{
		store: store,
		now:   time.Now,
	}
}

// WithClock overrides the reference clock, mainly for tests.
func (s *LedgerService) WithClock(now func() time.Time) *LedgerService {
	s.now = now
	return s
}

// AddRecord commits one new expense. An unset date defaults to today.
func (s *LedgerService) AddRecord(ctx context.Context, amount core.Money, category, note string, date core.Date) (int64, error) {
	id, err := s.store.Create(ctx, core.NewRecord(amount, category, note, date))
	if err != nil {
		return 0, fmt.Errorf("add record: %w", err)
	}
	return id, nil
}

// Records returns the full record set, most recent first.
func (s *LedgerService) Records(ctx context.Context) ([]core.Record, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return records, nil
}

// EditRecord changes amount, category, and note of an existing record.
func (s *LedgerService) EditRecord(ctx context.Context, id int64, amount core.Money, category, note string) error {
	if err := s.store.Update(ctx, id, amount, category, note); err != nil {
		return fmt.Errorf("edit record: %w", err)
	}
	return nil
}

// RemoveRecord deletes a record; unknown ids are a no-op.
func (s *LedgerService) RemoveRecord(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("remove record: %w", err)
	}
	return nil
}

// Overview fetches the current record set and projects it under filter,
// using the service clock as the reference instant.
func (s *LedgerService) Overview(ctx context.Context, filter core.Filter) (core.Projection, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return core.Projection{}, fmt.Errorf("list records: %w", err)
	}

	projection, err := core.Project(records, filter, s.now())
	if err != nil {
		return core.Projection{}, fmt.Errorf("project records: %w", err)
	}

	slog.DebugContext(ctx, "Projection computed",
		"filter", string(filter),
		"records", len(projection.Records),
		"total", projection.Total.String())

	return projection, nil
}

// Close releases the underlying store.
func (s *LedgerService) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
