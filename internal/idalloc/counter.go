package idalloc

import (
	"context"
	"math"
	"strconv"
	"sync/atomic"
)

// Counter mints prefix1, prefix2, ... in process memory.
type Counter struct {
	prefix string
	last   atomic.Uint64
}

// NewCounter returns a counter whose first id is prefix + (start+1).
func NewCounter(prefix string, start uint64) *Counter {
	c := &Counter{prefix: prefix}
	c.last.Store(start)
	return c
}

// Allocate implements Allocator.
func (c *Counter) Allocate(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	for {
		cur := c.last.Load()
		if cur == math.MaxUint64 {
			return "", ErrExhausted
		}
		if c.last.CompareAndSwap(cur, cur+1) {
			return c.prefix + strconv.FormatUint(cur+1, 10), nil
		}
	}
}
