// Package storage persists the serialised builder state. Backends only move
// bytes; shape validation belongs to the store that restores them.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Load when nothing has been saved yet.
var ErrNotFound = errors.New("storage: state not found")

// Storage loads and saves one opaque state blob.
type Storage interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Close() error
}

// Open returns a backend for location. "sqlite:<dsn>" opens a SQLite
// database; "file:<path>" or a bare path selects the file backend.
func Open(ctx context.Context, location string) (Storage, error) {
	location = strings.TrimSpace(location)
	switch {
	case location == "":
		return nil, errors.New("storage: location is required")
	case strings.HasPrefix(location, "sqlite:"):
		db, err := OpenSQLite(ctx, strings.TrimPrefix(location, "sqlite:"))
		if err != nil {
			return nil, err
		}
		return db, nil
	case strings.Contains(location, "://"):
		return nil, fmt.Errorf("storage: unsupported location %q", location)
	}
	file, err := NewFile(strings.TrimPrefix(location, "file:"))
	if err != nil {
		return nil, err
	}
	return file, nil
}
