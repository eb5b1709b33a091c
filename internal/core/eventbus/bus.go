// Package eventbus broadcasts dispatched actions to background subscribers.
//
// Each subscription owns an unbounded FIFO queue filtered by a pattern, so a
// subscriber that is busy (for instance blocked on I/O) never loses an action
// published in the meantime. Publish never blocks on a subscriber.
package eventbus

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/hay-kot/organizer/internal/core/action"
)

// ErrClosed is returned by Publish after Close, and by Subscription.Next once
// the subscription is closed and its queue is drained.
var ErrClosed = errors.New("eventbus: closed")

// Bus fans actions out to subscriptions. The zero value is not usable; call
// New.
type Bus struct {
	mu     sync.Mutex
	subs   []*Subscription
	closed bool

	published atomic.Uint64

	hooks hooks
}

// New creates an open bus with no subscribers.
func New() *Bus {
	return &Bus{}
}

// Publish appends a to the queue of every subscription whose pattern matches
// it. All subscriptions observe publishes in the same order.
func (bus *Bus) Publish(a action.Action) error {
	bus.mu.Lock()
	if bus.closed {
		bus.mu.Unlock()
		bus.runOnDrop(a)
		return ErrClosed
	}

	bus.published.Add(1)
	delivered := 0
	for _, sub := range bus.subs {
		if sub.match(a) && sub.push(a) {
			delivered++
		}
	}
	bus.mu.Unlock()

	bus.runOnPublish(a, delivered)
	return nil
}

// Subscribe registers a subscription receiving every later publish matching
// p. Subscribing to a closed bus returns an already closed subscription.
func (bus *Bus) Subscribe(name string, p Pattern) *Subscription {
	if p == nil {
		p = MatchAll
	}
	sub := newSubscription(bus, name, p)

	bus.mu.Lock()
	if bus.closed {
		bus.mu.Unlock()
		sub.close()
		return sub
	}
	bus.subs = append(bus.subs, sub)
	bus.mu.Unlock()

	bus.runOnSubscribe(name)
	return sub
}

// Close stops accepting publishes and closes every subscription. Actions
// already queued stay readable until drained.
func (bus *Bus) Close() {
	bus.mu.Lock()
	if bus.closed {
		bus.mu.Unlock()
		return
	}
	bus.closed = true
	subs := bus.subs
	bus.subs = nil
	bus.mu.Unlock()

	for _, sub := range subs {
		sub.close()
	}
}

// Published returns how many actions were accepted since New.
func (bus *Bus) Published() uint64 {
	return bus.published.Load()
}

// Closed reports whether Close has been called.
func (bus *Bus) Closed() bool {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	return bus.closed
}

func (bus *Bus) remove(sub *Subscription) {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	for i, s := range bus.subs {
		if s == sub {
			bus.subs = append(bus.subs[:i:i], bus.subs[i+1:]...)
			return
		}
	}
}
