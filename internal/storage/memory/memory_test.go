package memory

import (
	"context"
	"errors"
	"testing"

	"tally/internal/core"
)

func TestCreateListRoundTrip(t *testing.T) {
	store := New()
	ctx := context.Background()

	id, err := store.Create(ctx, core.NewRecord(core.Money{Cents: 100}, " Food ", "  ", core.NewDate(2024, 1, 1)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 || records[0].ID != id || records[0].Category != "Food" || records[0].Note != "" {
		t.Fatalf("round trip mismatch: %+v", records)
	}
}

func TestListSnapshotIsDetached(t *testing.T) {
	store := New()
	ctx := context.Background()

	if _, err := store.Create(ctx, core.NewRecord(core.Money{Cents: 100}, "Food", "", core.NewDate(2024, 1, 1))); err != nil {
		t.Fatalf("create: %v", err)
	}

	snapshot, _ := store.List(ctx)
	snapshot[0].Category = "Hacked"

	again, _ := store.List(ctx)
	if again[0].Category != "Food" {
		t.Fatalf("mutating a snapshot must not touch storage, got %q", again[0].Category)
	}
}

func TestIDsMonotonicAcrossDeletes(t *testing.T) {
	store := New()
	ctx := context.Background()

	first, _ := store.Create(ctx, core.NewRecord(core.Money{Cents: 100}, "Food", "", core.NewDate(2024, 1, 1)))
	if err := store.Delete(ctx, first); err != nil {
		t.Fatalf("delete: %v", err)
	}
	second, _ := store.Create(ctx, core.NewRecord(core.Money{Cents: 100}, "Food", "", core.NewDate(2024, 1, 1)))
	if second <= first {
		t.Fatalf("id %d reused after deleting %d", second, first)
	}
}

func TestUpdateAndDeleteContract(t *testing.T) {
	store := New()
	ctx := context.Background()

	id, _ := store.Create(ctx, core.NewRecord(core.Money{Cents: 100}, "Food", "", core.NewDate(2024, 1, 1)))

	if err := store.Update(ctx, id+1, core.Money{Cents: 200}, "Books", ""); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Update(ctx, id, core.Money{Cents: 0}, "Books", ""); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if err := store.Update(ctx, id, core.Money{Cents: 200}, "Books", "note"); err != nil {
		t.Fatalf("update: %v", err)
	}

	records, _ := store.List(ctx)
	if records[0].Amount.Cents != 200 || records[0].Category != "Books" || records[0].Note != "note" {
		t.Fatalf("update not applied: %+v", records[0])
	}
	if records[0].Date.String() != "2024-01-01" {
		t.Fatalf("date must not change on update")
	}

	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("second delete must be a no-op: %v", err)
	}
}
