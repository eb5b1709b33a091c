package db

import (
	"context"
	"errors"
	"sync"
)

// ErrNotConnected is returned by Connector.DB before a connection succeeded.
var ErrNotConnected = errors.New("db: not connected")

// OpenFunc opens a database. Connector uses OpenContext unless told otherwise.
type OpenFunc func(ctx context.Context, dataDir string, opts OpenOptions) (*DB, error)

// Connector lazily opens the database once and hands the same handle to
// every caller. A failed attempt is not remembered: the next Connect tries
// again.
type Connector struct {
	dataDir string
	opts    OpenOptions
	open    OpenFunc

	mu sync.Mutex
	db *DB
}

// NewConnector returns a connector for the database in dataDir.
func NewConnector(dataDir string, opts OpenOptions) *Connector {
	return &Connector{dataDir: dataDir, opts: opts, open: OpenContext}
}

// NewConnectorFunc returns a connector that opens through fn.
func NewConnectorFunc(dataDir string, opts OpenOptions, fn OpenFunc) *Connector {
	return &Connector{dataDir: dataDir, opts: opts, open: fn}
}

// Connect returns the cached handle, opening it first when needed.
// Concurrent callers share a single open attempt.
func (c *Connector) Connect(ctx context.Context) (*DB, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		return c.db, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	db, err := c.open(ctx, c.dataDir, c.opts)
	if err != nil {
		return nil, err
	}
	c.db = db
	return db, nil
}

// DB returns the cached handle without connecting.
func (c *Connector) DB() (*DB, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return nil, ErrNotConnected
	}
	return c.db, nil
}

// Close closes the cached handle, if any. A later Connect opens a new one.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}
