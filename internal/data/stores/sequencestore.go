package stores

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hay-kot/organizer/internal/data/db"
	"github.com/hay-kot/organizer/internal/idalloc"
)

// SequenceStore hands out increasing numbers for named sequences.
type SequenceStore struct {
	db *db.DB
}

var _ idalloc.Sequencer = (*SequenceStore)(nil)

// NewSequenceStore creates a new SQLite-backed sequence store.
func NewSequenceStore(db *db.DB) *SequenceStore {
	return &SequenceStore{db: db}
}

// Next increments the named sequence and returns its new value. The first
// value of a sequence is 1.
func (s *SequenceStore) Next(ctx context.Context, name string) (int64, error) {
	var value int64
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, `
			INSERT INTO sequences (name, value) VALUES (?, 1)
			ON CONFLICT(name) DO UPDATE SET value = value + 1
			RETURNING value`, name).Scan(&value)
	})
	if err != nil {
		return 0, fmt.Errorf("advance sequence %s: %w", name, err)
	}
	return value, nil
}

// Seed raises the named sequence to at least floor, so that the next value
// is greater than floor.
func (s *SequenceStore) Seed(ctx context.Context, name string, floor int64) error {
	_, err := s.db.Conn().ExecContext(ctx, `
		INSERT INTO sequences (name, value) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET value = MAX(value, excluded.value)`, name, floor)
	if err != nil {
		return fmt.Errorf("seed sequence %s: %w", name, err)
	}
	return nil
}
