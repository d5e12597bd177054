// Package backend selects and opens the document store implementation
// named by the configuration.
package backend

import (
	"fmt"

	"winner/internal/config"
	"winner/internal/log"
	"winner/internal/store"
	"winner/internal/store/memory"
	"winner/internal/store/sqlite"
)

// Type names a store implementation.
type Type string

const (
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

// IsValid returns true if the backend type is valid.
func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// CleanupFunc releases backend resources at shutdown.
type CleanupFunc func() error

// Result carries an opened repository and its optional cleanup.
type Result struct {
	Repo    store.Repository
	Cleanup CleanupFunc
}

// Open creates the repository named by cfg.DataBackend.
func Open(cfg *config.Config, logger *log.Logger) (*Result, error) {
	logger = logger.WithComponent(log.ComponentBackend)

	t := Type(cfg.DataBackend)
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.DataBackend)
	}

	switch t {
	case SQLiteBackend:
		repo, err := sqlite.NewRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		logger.Info("Initialized sqlite backend", log.FieldBackend, string(t), "db_path", cfg.SQLiteDBPath)
		return &Result{Repo: repo, Cleanup: repo.Close}, nil

	default:
		logger.Info("Initialized memory backend", log.FieldBackend, string(t))
		return &Result{Repo: memory.New()}, nil
	}
}
