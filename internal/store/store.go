// Package store holds the application state and the dispatch pipeline that
// is the only way to change it.
//
// A Store is built from a root reducer, an initial state and an ordered list
// of middleware. Dispatch runs the action through the middleware, then
// through the reducer, replaces the state and notifies listeners, all before
// it returns. Reductions are serialized: two dispatches never interleave
// their reducer execution.
package store

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hay-kot/organizer/internal/core/action"
	"github.com/hay-kot/organizer/internal/core/task"
)

// Listener is notified after every dispatch. It receives nothing; call
// GetState to read the new state, and never modify what it returns.
type Listener func()

type listener struct {
	id uint64
	fn Listener
}

// Store is an isolated state container. The zero value is not usable; call
// New.
type Store struct {
	reduce RootReducer
	log    zerolog.Logger

	mu    sync.RWMutex
	state task.State

	listenersMu sync.Mutex
	listeners   []listener
	nextID      uint64

	mws []Middleware
}

var _ API = (*Store)(nil)

// New creates a store holding initial. Middleware is applied in the given
// order, the first entry outermost.
func New(reduce RootReducer, initial task.State, log zerolog.Logger, mws ...Middleware) *Store {
	s := &Store{
		reduce: reduce,
		log:    log.With().Str("component", "store").Logger(),
		state:  initial,
		mws:    mws,
	}
	return s
}

// GetState returns the current aggregate.
func (s *Store) GetState() task.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch sends a through the middleware pipeline and the reducers. Nil
// actions are ignored; pointer variants are dispatched as values.
func (s *Store) Dispatch(a action.Action) {
	a = action.Normalize(a)
	if a == nil {
		return
	}
	d := &dispatch{Store: s}
	chain(d, s.mws, d.commit)(a)
}

// Subscribe registers fn to run after every dispatch, after all listeners
// registered before it. The returned func removes it; calling it twice is
// harmless.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.listenersMu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	s.listenersMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.removeListener(id) })
	}
}

// Transition is the state before and after one reduction.
type Transition struct {
	Prev task.State
	Next task.State
}

// Reduction is implemented by the API handed to middleware. It reports the
// transition produced by the action currently passing through, once the
// reducers have run. ok is false while the action has not been reduced, or
// when a middleware swallowed it.
type Reduction interface {
	Reduced() (tr Transition, ok bool)
}

// dispatch is the API seen by middleware during one Dispatch call.
type dispatch struct {
	*Store

	tr      Transition
	reduced bool
}

var _ Reduction = (*dispatch)(nil)

func (d *dispatch) Reduced() (Transition, bool) {
	return d.tr, d.reduced
}

// commit is the innermost step of the pipeline: reduce, replace, notify.
func (d *dispatch) commit(a action.Action) {
	d.tr, d.reduced = d.Store.reduceLocked(a), true
	d.Store.notify(a)
}

func (s *Store) reduceLocked(a action.Action) Transition {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state
	s.state = s.reduce(prev, a)
	return Transition{Prev: prev, Next: s.state}
}

func (s *Store) notify(a action.Action) {
	s.listenersMu.Lock()
	current := make([]listener, len(s.listeners))
	copy(current, s.listeners)
	s.listenersMu.Unlock()

	for _, l := range current {
		s.call(l, a)
	}
}

// call runs one listener, containing a panic so that the remaining listeners
// still run and the store stays usable.
func (s *Store) call(l listener, a action.Action) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().
				Str("action", a.Type().String()).
				Uint64("listener", l.id).
				Str("panic", fmt.Sprint(r)).
				Msg("listener panicked")
		}
	}()
	l.fn()
}

func (s *Store) removeListener(id uint64) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	for i, l := range s.listeners {
		if l.id == id {
			s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
			return
		}
	}
}
