// Package backend constructs the record store selected by configuration.
package backend

import (
	"fmt"

	"tally/internal/config"
	"tally/internal/services"
	"tally/internal/storage"
	"tally/internal/storage/memory"
)

type Type string

const (
	MemoryBackend Type = "memory"
	SQLiteBackend Type = "sqlite"
)

func (t Type) IsValid() bool {
	return t == MemoryBackend || t == SQLiteBackend
}

// Result carries the constructed store and its cleanup hook.
type Result struct {
	Store   services.RecordStore
	Cleanup func() error
}

// New builds the store named by cfg.DataBackend.
func New(cfg *config.Config) (*Result, error) {
	backendType := Type(cfg.DataBackend)
	if !backendType.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.DataBackend)
	}

	switch backendType {
	case SQLiteBackend:
		store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		return &Result{Store: store, Cleanup: store.Close}, nil
	default:
		store := memory.New()
		return &Result{Store: store, Cleanup: store.Close}, nil
	}
}
