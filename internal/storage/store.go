// Package storage persists expense records in a local SQLite database.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"tally/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteStore owns the durable copy of every record. It is built for a
// single process-local writer; operations are short sequential transactions.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at dbPath and
// ensures the schema exists. Schema creation is idempotent, so calling this
// on every process start is safe.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, unavailable("create db directory", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, unavailable("open sqlite database", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, unavailable("ping database", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, unavailable("run migrations", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Create validates and commits one new record, returning its assigned id.
// The date defaults to today when unset. Callers are expected to have
// validated input already; the store re-checks so invalid state never lands.
func (s *SQLiteStore) Create(ctx context.Context, rec core.Record) (int64, error) {
	rec = core.NewRecord(rec.Amount, rec.Category, rec.Note, rec.Date)
	if rec.Date.IsZero() {
		rec.Date = core.Today()
	}
	if err := rec.Validate(); err != nil {
		return 0, fmt.Errorf("create record: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO records (amount_cents, category, note, date) VALUES (?, ?, ?, ?)`,
		rec.Amount.Cents, rec.Category, noteValue(rec.Note), rec.Date.String())
	if err != nil {
		return 0, unavailable("insert record", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, unavailable("read inserted id", err)
	}

	slog.InfoContext(ctx, "Record saved",
		"id", id,
		"amount", rec.Amount.String(),
		"category", rec.Category,
		"date", rec.Date.String())

	return id, nil
}

// List returns every record, most recently created first. The result is a
// snapshot: mutating it has no effect on storage.
func (s *SQLiteStore) List(ctx context.Context) ([]core.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, amount_cents, category, note, date FROM records ORDER BY id DESC`)
	if err != nil {
		return nil, unavailable("query records", err)
	}
	defer rows.Close()

	var records []core.Record
	for rows.Next() {
		var (
			r     core.Record
			note  sql.NullString
			date  string
			cents int64
		)
		if err := rows.Scan(&r.ID, &cents, &r.Category, &note, &date); err != nil {
			return nil, unavailable("scan record", err)
		}
		r.Amount = core.Money{Cents: cents}
		r.Note = note.String
		r.Date, err = core.ParseDate(date)
		if err != nil {
			return nil, unavailable("parse stored date "+date, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate records", err)
	}

	return records, nil
}

// Update mutates amount, category, and note of an existing record in place.
// The id and date never change. A missing id is ErrNotFound.
func (s *SQLiteStore) Update(ctx context.Context, id int64, amount core.Money, category, note string) error {
	category = strings.TrimSpace(category)
	note = strings.TrimSpace(note)
	if err := amount.Validate(); err != nil {
		return fmt.Errorf("update record %d: %w", id, err)
	}
	if category == "" {
		return fmt.Errorf("update record %d: %w", id, core.ErrEmptyCategory)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE records SET amount_cents = ?, category = ?, note = ? WHERE id = ?`,
		amount.Cents, category, noteValue(note), id)
	if err != nil {
		return unavailable("update record", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return unavailable("read affected rows", err)
	}
	if n == 0 {
		return fmt.Errorf("update record %d: %w", id, core.ErrNotFound)
	}

	slog.InfoContext(ctx, "Record updated", "id", id, "amount", amount.String(), "category", category)
	return nil
}

// Delete removes a record. Deleting an id that does not exist is a no-op:
// the caller cannot distinguish "already deleted" from "never existed".
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id); err != nil {
		return unavailable("delete record", err)
	}
	slog.InfoContext(ctx, "Record deleted", "id", id)
	return nil
}

// noteValue maps an absent note to NULL.
func noteValue(note string) any {
	if note == "" {
		return nil
	}
	return note
}

// unavailable classifies an I/O failure under ErrStorageUnavailable while
// keeping the underlying cause in the chain. Failures are not retried here;
// local storage errors are typically non-transient.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(core.ErrStorageUnavailable, err))
}
