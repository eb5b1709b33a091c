package idalloc

import (
	"context"
	"fmt"
	"strconv"
)

// Sequencer hands out increasing numbers for a named sequence. The SQLite
// sequence store implements it.
type Sequencer interface {
	Next(ctx context.Context, name string) (int64, error)
}

// Sequence mints prefix + n with n taken from a durable sequence, so ids
// stay unique across restarts without scanning existing tasks.
type Sequence struct {
	seq    Sequencer
	name   string
	prefix string
}

// NewSequence returns an allocator drawing from the named sequence.
func NewSequence(seq Sequencer, name, prefix string) *Sequence {
	return &Sequence{seq: seq, name: name, prefix: prefix}
}

// Allocate implements Allocator.
func (s *Sequence) Allocate(ctx context.Context) (string, error) {
	n, err := s.seq.Next(ctx, s.name)
	if err != nil {
		return "", fmt.Errorf("next %s sequence value: %w", s.name, err)
	}
	return s.prefix + strconv.FormatInt(n, 10), nil
}
