// Package storage is the key-value persistence behind the dashboard's
// collections. Each key holds one whole JSON document.
package storage

import (
	"context"
	"fmt"
)

// Store is the key-value contract the repositories are written against.
type Store interface {
	// Get returns the value at key, or an error wrapping apperr.ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set replaces the whole value at key.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases any underlying resources.
	Close() error
}

// Drivers.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options selects and configures a driver.
type Options struct {
	Driver string
	// Path is the directory for the file driver or the database file for sqlite.
	Path string
	// DSN is the connection string for postgres.
	DSN string
}

// Open constructs the Store named by opts.Driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverFile:
		return NewFS(opts.Path)
	case DriverSQLite:
		return OpenSQLite(opts.Path)
	case DriverPostgres:
		return OpenPostgres(ctx, opts.DSN)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", opts.Driver)
	}
}
