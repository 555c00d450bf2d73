// Package sqlite implements the SQLite storage backend for the route timer.
// The database file in DataDir is the durable store; every multi-table
// mutation runs inside one SQLite transaction.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/routetimer/pkg/types"
)

// DatabaseFile is the name of the SQLite file inside DataDir.
const DatabaseFile = "routetimer.db"

var _ types.Repository = (*Backend)(nil)

// Backend implements types.Repository on top of a single SQLite database.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	dbPath   string

	now func() time.Time
}

// Option configures a Backend.
type Option func(*Backend)

// WithClock replaces time.Now as the source of timer departure and
// arrival times.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) {
		b.now = now
	}
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach opens the database in config.DataDir, creating the directory and
// an empty schema if needed. Failures to open the store are reported as
// ErrStoreUnavailable. Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("%w: creating data dir: %w", types.ErrStoreUnavailable, err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)
	db, err := openDB(dbPath)
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrStoreUnavailable, err)
	}

	b.db = db
	b.dbPath = dbPath
	b.config = config
	b.attached = true
	return nil
}

// Detach closes the database. After Detach, all operations return
// ErrStoreUnavailable. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	b.attached = false
	if b.db != nil {
		err := b.db.Close()
		b.db = nil
		return err
	}
	return nil
}

// Path returns the database file path, or "" when detached.
func (b *Backend) Path() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dbPath
}

// Reset deletes the database file and reinitializes an empty schema in its
// place. If reopening fails the backend detaches and later calls return
// ErrStoreUnavailable.
func (b *Backend) Reset(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreUnavailable
	}

	if err := b.db.Close(); err != nil {
		return storeErr("closing database", err)
	}
	b.db = nil

	for _, suffix := range []string{"", "-journal", "-wal", "-shm"} {
		if err := os.Remove(b.dbPath + suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
			b.attached = false
			return fmt.Errorf("%w: removing %s: %w", types.ErrStoreUnavailable, b.dbPath+suffix, err)
		}
	}

	db, err := openDB(b.dbPath)
	if err != nil {
		b.attached = false
		return fmt.Errorf("%w: %w", types.ErrStoreUnavailable, err)
	}
	b.db = db
	return nil
}

// openDB opens the SQLite file at path with a single connection and applies
// the schema.
func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// One connection keeps SQLite to a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// read runs fn with the read lock held after checking the backend is attached.
func (b *Backend) read(fn func(db *sql.DB) error) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.ErrStoreUnavailable
	}
	return fn(b.db)
}

// readTx runs fn inside a transaction with the read lock held, so every query
// fn makes sees the same state of the store. The transaction is always
// rolled back.
func (b *Backend) readTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.ErrStoreUnavailable
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr(op+": beginning transaction", err)
	}
	defer tx.Rollback()
	return fn(tx)
}

// withTx runs fn inside a transaction with the write lock held. The
// transaction is rolled back if fn or the commit fails, so the store is left
// unchanged. Errors returned by fn are passed through as is.
func (b *Backend) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreUnavailable
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr(op+": beginning transaction", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return storeErr(op+": committing", err)
	}
	return nil
}

// storeErr marks err as a failed store operation.
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, types.ErrStoreOperationFailed, err)
}

// nowMillis returns the backend clock in epoch milliseconds.
func (b *Backend) nowMillis() int64 {
	return types.EpochMillis(b.now())
}
