package persistence

import (
	"context"
	"errors"
	"fmt"

	"coursegen/internal/config"
)

// ErrCourseNotFound is returned when no snapshot is stored under a name.
var ErrCourseNotFound = errors.New("course not found")

// Store persists course snapshots by name. Saving an existing name replaces it.
type Store interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context, name string) (Snapshot, error)
	Names(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
	Close() error
}

// Open builds the store selected by cfg.Driver.
func Open(cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "", config.StorageMemory:
		return NewMemoryStore(), nil
	case config.StorageSQLite:
		return OpenSQLiteStore(cfg.Path)
	case config.StorageFile:
		return OpenFileStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

func notFound(name string) error {
	return fmt.Errorf("%w: %q", ErrCourseNotFound, name)
}
