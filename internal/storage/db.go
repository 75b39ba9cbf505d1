// Package storage provides the journal database layer for undoctl.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	badger "github.com/dgraph-io/badger/v4"

	"github.com/manav03panchal/undoctl/internal/errors"
)

const (
	// AppName is the application name used for data directories.
	AppName = "undoctl"
)

// DB wraps a Badger database connection.
type DB struct {
	db   *badger.DB
	path string
}

// Options configures the database connection.
type Options struct {
	// Path is the database directory path. Empty string uses in-memory mode.
	Path string
	// InMemory forces in-memory mode regardless of Path.
	InMemory bool
}

// DefaultPath returns the default database path following XDG spec.
func DefaultPath() string {
	return filepath.Join(xdg.DataHome, AppName, "journal")
}

// Open opens or creates a database at the given path.
func Open(opts Options) (*DB, error) {
	var badgerOpts badger.Options
	path := ""

	if opts.InMemory || opts.Path == "" {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		path = opts.Path
		if err := CheckDiskSpace(path); err != nil {
			return nil, err
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, errors.NewSystemErrorWithOp("open journal", "cannot create data directory", err)
		}
		badgerOpts = badger.DefaultOptions(path)
	}

	// Reduce logging noise
	badgerOpts = badgerOpts.WithLoggingLevel(badger.ERROR)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, classifyOpenError(path, err)
	}

	return &DB{db: db, path: path}, nil
}

// classifyOpenError maps badger's open failures onto the shared sentinels.
func classifyOpenError(path string, err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, os.ErrPermission):
		return fmt.Errorf("open %s: %w: %v", path, errors.ErrPermissionDenied, err)
	case strings.Contains(msg, "directory lock"):
		return fmt.Errorf("open %s: %w: %v", path, errors.ErrLockHeld, err)
	case strings.Contains(msg, "corrupt") || strings.Contains(msg, "checksum"):
		return fmt.Errorf("open %s: %w: %v", path, errors.ErrDatabaseCorrupted, err)
	default:
		return errors.NewSystemErrorWithOp("open journal", "cannot open database", err)
	}
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Path returns the database directory, empty for in-memory databases.
func (d *DB) Path() string {
	return d.path
}

// Badger returns the underlying Badger database for advanced operations.
func (d *DB) Badger() *badger.DB {
	return d.db
}
