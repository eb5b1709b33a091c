package eventbus

import (
	"context"
	"sync"

	"github.com/hay-kot/organizer/internal/core/action"
)

// Subscription is one subscriber's queue. It is safe for one reader and any
// number of publishers.
type Subscription struct {
	name  string
	match Pattern
	bus   *Bus

	mu      sync.Mutex
	queue   []action.Action
	closed  bool
	waiting bool // reader blocked in Next on an empty queue

	ready chan struct{} // signalled on push, capacity 1
	done  chan struct{} // closed on close
}

func newSubscription(bus *Bus, name string, p Pattern) *Subscription {
	return &Subscription{
		name:  name,
		match: p,
		bus:   bus,
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// Name returns the subscriber name given to Subscribe.
func (s *Subscription) Name() string { return s.name }

// Next returns the oldest queued action, blocking until one is published,
// ctx is done, or the subscription is closed. Queued actions are still
// returned after close; ErrClosed is returned only once the queue is empty.
func (s *Subscription) Next(ctx context.Context) (action.Action, error) {
	for {
		s.mu.Lock()
		if len(s.queue) > 0 {
			a := s.queue[0]
			s.queue[0] = nil
			s.queue = s.queue[1:]
			s.waiting = false
			s.mu.Unlock()
			return a, nil
		}
		closed := s.closed
		s.waiting = !closed
		s.mu.Unlock()

		if closed {
			return nil, ErrClosed
		}

		select {
		case <-ctx.Done():
			s.mu.Lock()
			s.waiting = false
			s.mu.Unlock()
			return nil, ctx.Err()
		case <-s.ready:
		case <-s.done:
		}
	}
}

// Idle reports whether the reader is blocked in Next with nothing queued.
func (s *Subscription) Idle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waiting && len(s.queue) == 0
}

// Pending returns the number of queued actions.
func (s *Subscription) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Closed reports whether the subscription stopped receiving publishes.
func (s *Subscription) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Unsubscribe detaches the subscription from the bus and closes it.
func (s *Subscription) Unsubscribe() {
	s.bus.remove(s)
	s.close()
}

func (s *Subscription) push(a action.Action) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.queue = append(s.queue, a)
	s.mu.Unlock()

	select {
	case s.ready <- struct{}{}:
	default:
	}
	return true
}

func (s *Subscription) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.done)
}
