package eventbus

import (
	"sync"

	"github.com/hay-kot/organizer/internal/core/action"
)

// hooks holds the lifecycle hook state for the Bus.
type hooks struct {
	mu          sync.RWMutex
	onPublish   []func(action.Action, int)
	onDrop      []func(action.Action)
	onSubscribe []func(string)
	onPanic     []func(string, action.Action, any)
}

// OnPublish registers a hook that fires after an action is enqueued. It
// receives the number of subscriptions the action was delivered to.
func (bus *Bus) OnPublish(fn func(action.Action, int)) {
	bus.hooks.mu.Lock()
	bus.hooks.onPublish = append(bus.hooks.onPublish, fn)
	bus.hooks.mu.Unlock()
}

// OnDrop registers a hook that fires when an action is published to a closed
// bus.
func (bus *Bus) OnDrop(fn func(action.Action)) {
	bus.hooks.mu.Lock()
	bus.hooks.onDrop = append(bus.hooks.onDrop, fn)
	bus.hooks.mu.Unlock()
}

// OnSubscribe registers a hook that fires after a subscriber is registered.
func (bus *Bus) OnSubscribe(fn func(string)) {
	bus.hooks.mu.Lock()
	bus.hooks.onSubscribe = append(bus.hooks.onSubscribe, fn)
	bus.hooks.mu.Unlock()
}

// OnPanic registers a hook that fires when a subscriber reports a panic
// through ReportPanic.
func (bus *Bus) OnPanic(fn func(string, action.Action, any)) {
	bus.hooks.mu.Lock()
	bus.hooks.onPanic = append(bus.hooks.onPanic, fn)
	bus.hooks.mu.Unlock()
}

// ReportPanic is called by a subscriber that recovered from a panic while
// handling a (nil when it panicked outside a handler).
func (bus *Bus) ReportPanic(subscriber string, a action.Action, recovered any) {
	bus.runOnPanic(subscriber, a, recovered)
}

func (bus *Bus) runOnPublish(a action.Action, delivered int) {
	bus.hooks.mu.RLock()
	hooks := make([]func(action.Action, int), len(bus.hooks.onPublish))
	copy(hooks, bus.hooks.onPublish)
	bus.hooks.mu.RUnlock()
	for _, fn := range hooks {
		fn(a, delivered)
	}
}

func (bus *Bus) runOnDrop(a action.Action) {
	bus.hooks.mu.RLock()
	hooks := make([]func(action.Action), len(bus.hooks.onDrop))
	copy(hooks, bus.hooks.onDrop)
	bus.hooks.mu.RUnlock()
	for _, fn := range hooks {
		fn(a)
	}
}

func (bus *Bus) runOnSubscribe(name string) {
	bus.hooks.mu.RLock()
	hooks := make([]func(string), len(bus.hooks.onSubscribe))
	copy(hooks, bus.hooks.onSubscribe)
	bus.hooks.mu.RUnlock()
	for _, fn := range hooks {
		fn(name)
	}
}

func (bus *Bus) runOnPanic(subscriber string, a action.Action, recovered any) {
	bus.hooks.mu.RLock()
	hooks := make([]func(string, action.Action, any), len(bus.hooks.onPanic))
	copy(hooks, bus.hooks.onPanic)
	bus.hooks.mu.RUnlock()
	for _, fn := range hooks {
		func() {
			defer func() { recover() }() //nolint:errcheck
			fn(subscriber, a, recovered)
		}()
	}
}
