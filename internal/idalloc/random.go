package idalloc

import (
	"context"

	"github.com/hay-kot/organizer/pkg/randid"
)

const (
	// DefaultRandomLength is the length of the random part of an id.
	DefaultRandomLength = 8

	randomAttempts = 8
)

// Random mints short random ids, retrying when taken reports a collision.
type Random struct {
	prefix string
	length int
	taken  func(id string) bool
	gen    func(n int) string
}

// NewRandom returns a random allocator. taken may be nil.
func NewRandom(prefix string, length int, taken func(id string) bool) *Random {
	if length <= 0 {
		length = DefaultRandomLength
	}
	if taken == nil {
		taken = func(string) bool { return false }
	}
	return &Random{prefix: prefix, length: length, taken: taken, gen: randid.Generate}
}

// Allocate implements Allocator. It gives up with ErrExhausted after a few
// consecutive collisions.
func (r *Random) Allocate(ctx context.Context) (string, error) {
	for range randomAttempts {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		id := r.prefix + r.gen(r.length)
		if !r.taken(id) {
			return id, nil
		}
	}
	return "", ErrExhausted
}
