// Package db owns the SQLite database that persists tasks between runs.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// FileName is the database file created inside the data directory.
const FileName = "organizer.db"

const initialWait = 100 * time.Millisecond

// OpenOptions tunes the connection pool and the connectivity check.
type OpenOptions struct {
	MaxOpenConns   int
	MaxIdleConns   int
	BusyTimeout    int // milliseconds
	ConnectRetries int
	Logger         zerolog.Logger
}

// DefaultOpenOptions returns options suited to a single local process.
func DefaultOpenOptions() OpenOptions {
	return OpenOptions{
		MaxOpenConns:   1,
		MaxIdleConns:   1,
		BusyTimeout:    5000,
		ConnectRetries: 5,
		Logger:         zerolog.Nop(),
	}
}

// DB wraps a SQL database connection.
type DB struct {
	conn *sql.DB
	path string
}

// Open creates the database in dataDir (creating the directory when needed),
// verifies connectivity and applies pending migrations.
func Open(dataDir string, opts OpenOptions) (*DB, error) {
	return OpenContext(context.Background(), dataDir, opts)
}

// OpenContext is Open with a context bounding the connectivity retries and
// the migrations.
func OpenContext(ctx context.Context, dataDir string, opts OpenOptions) (*DB, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	dbPath := filepath.Join(dataDir, FileName)

	// WAL keeps readers unblocked while the persistence watcher writes.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)", dbPath, opts.BusyTimeout)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(opts.MaxOpenConns)
	conn.SetMaxIdleConns(opts.MaxIdleConns)
	conn.SetConnMaxLifetime(0)

	db := &DB{conn: conn, path: dbPath}

	if err := db.pingWithRetry(ctx, max(opts.ConnectRetries, 1)); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrateUp(ctx, conn, opts.Logger); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// Conn returns the underlying connection pool.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// WithTx executes a function within a transaction.
// If the function returns an error, the transaction is rolled back.
func (db *DB) WithTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// pingWithRetry attempts to ping the database with exponential backoff.
func (db *DB) pingWithRetry(ctx context.Context, retries int) error {
	wait := initialWait
	var lastErr error
	for i := range retries {
		if lastErr = db.conn.PingContext(ctx); lastErr == nil {
			return nil
		}

		if i < retries-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			wait *= 2
		}
	}

	return fmt.Errorf("failed to ping database after %d retries: %w", retries, lastErr)
}
