// Package idalloc mints identifiers for newly created tasks.
//
// Allocation is an extension point: the create-task watcher only sees the
// Allocator interface, and the strategy is picked from configuration.
// Implementations must be safe for concurrent use and may block on I/O; they
// return promptly with the context error once ctx is done.
package idalloc

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrExhausted is returned when an allocator cannot produce a fresh id.
var ErrExhausted = errors.New("idalloc: id space exhausted")

// Allocator produces a unique task id.
type Allocator interface {
	Allocate(ctx context.Context) (string, error)
}

// Func adapts a function to Allocator.
type Func func(ctx context.Context) (string, error)

// Allocate calls f.
func (f Func) Allocate(ctx context.Context) (string, error) { return f(ctx) }

// Strategy names an allocator implementation in configuration.
type Strategy string

const (
	StrategyCounter Strategy = "counter"
	StrategyULID    Strategy = "ulid"
	StrategyUUID    Strategy = "uuid"
	StrategyRandom  Strategy = "random"
	StrategySQLite  Strategy = "sqlite"
)

// Strategies lists every supported strategy.
func Strategies() []Strategy {
	return []Strategy{StrategyCounter, StrategyULID, StrategyUUID, StrategyRandom, StrategySQLite}
}

// ParseStrategy validates s.
func ParseStrategy(s string) (Strategy, error) {
	for _, st := range Strategies() {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown id strategy %q", s)
}

// HighestSuffix returns the largest numeric suffix among ids that start with
// prefix, or 0 when none has one. It is used to seed counters so that ids
// minted after a restart do not collide with persisted ones.
func HighestSuffix(ids []string, prefix string) uint64 {
	var highest uint64
	for _, id := range ids {
		rest, ok := strings.CutPrefix(id, prefix)
		if !ok || rest == "" {
			continue
		}
		n, err := strconv.ParseUint(rest, 10, 64)
		if err != nil {
			continue
		}
		highest = max(highest, n)
	}
	return highest
}
