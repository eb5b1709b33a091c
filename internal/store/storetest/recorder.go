// Package storetest provides test utilities for the store.
// Recorder is a middleware that captures every action traversing the
// pipeline, with wait and assertion helpers for actions dispatched from
// background watchers.
package storetest

import (
	"sync"
	"testing"
	"time"

	"github.com/hay-kot/organizer/internal/core/action"
	"github.com/hay-kot/organizer/internal/store"
)

// Recorder records actions. Install it first in the middleware list to see
// every traversal, including those started by effects.
type Recorder struct {
	mu      sync.Mutex
	actions []action.Action
}

var _ store.Middleware = (*Recorder)(nil)

// New creates an empty recorder.
func New() *Recorder {
	return &Recorder{}
}

// Handle records a and forwards it.
func (r *Recorder) Handle(_ store.API, a action.Action, next store.Next) {
	r.mu.Lock()
	r.actions = append(r.actions, a)
	r.mu.Unlock()
	next(a)
}

// Actions returns a copy of all recorded actions.
func (r *Recorder) Actions() []action.Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]action.Action, len(r.actions))
	copy(out, r.actions)
	return out
}

// OfType returns the recorded actions carrying the given tag, in order.
func (r *Recorder) OfType(t action.Type) []action.Action {
	var out []action.Action
	for _, a := range r.Actions() {
		if a.Type() == t {
			out = append(out, a)
		}
	}
	return out
}

// Count returns how many actions with the given tag were recorded.
func (r *Recorder) Count(t action.Type) int {
	return len(r.OfType(t))
}

// Reset clears all recorded actions.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = nil
}

// WaitFor blocks until n actions of the given type are recorded or the
// timeout expires. Returns true if the count was reached.
func (r *Recorder) WaitFor(t action.Type, n int, timeout time.Duration) bool {
	deadline := time.After(timeout)
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()

	for {
		if r.Count(t) >= n {
			return true
		}
		select {
		case <-deadline:
			return r.Count(t) >= n
		case <-ticker.C:
		}
	}
}

// AssertDispatched asserts that at least n actions of the given type are
// recorded within 500ms.
func (r *Recorder) AssertDispatched(t *testing.T, at action.Type, n int) {
	t.Helper()
	if !r.WaitFor(at, n, 500*time.Millisecond) {
		t.Errorf("expected %d %q actions, got %d", n, at, r.Count(at))
	}
}

// AssertNotDispatched asserts that no action of the given type is recorded
// within the given wait period.
func (r *Recorder) AssertNotDispatched(t *testing.T, at action.Type, wait time.Duration) {
	t.Helper()
	time.Sleep(wait)
	if n := r.Count(at); n > 0 {
		t.Errorf("expected no %q actions, got %d", at, n)
	}
}
