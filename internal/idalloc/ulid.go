package idalloc

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ULID mints lexicographically sortable ids. Ids minted within the same
// millisecond stay strictly increasing.
type ULID struct {
	prefix string
	now    func() time.Time

	mu      sync.Mutex
	entropy io.Reader
}

// NewULID returns a ULID allocator reading entropy from crypto/rand.
func NewULID(prefix string) *ULID {
	return &ULID{
		prefix:  prefix,
		now:     time.Now,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Allocate implements Allocator.
func (u *ULID) Allocate(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	u.mu.Lock()
	id, err := ulid.New(ulid.Timestamp(u.now()), u.entropy)
	u.mu.Unlock()

	if errors.Is(err, ulid.ErrMonotonicOverflow) {
		return "", fmt.Errorf("%w: %w", ErrExhausted, err)
	}
	if err != nil {
		return "", fmt.Errorf("mint ulid: %w", err)
	}
	return u.prefix + id.String(), nil
}
