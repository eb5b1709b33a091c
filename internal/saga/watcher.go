// Package saga runs long-lived effect watchers next to the store.
//
// A watcher is a goroutine that repeatedly takes the next dispatched action
// matching its pattern, performs side effects that may block, and puts
// follow-up actions back into the store. Each watcher reads its own queue, so
// it handles one action at a time and never misses an action published while
// it was busy.
package saga

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/hay-kot/organizer/internal/core/action"
	"github.com/hay-kot/organizer/internal/core/eventbus"
	"github.com/hay-kot/organizer/internal/core/logging"
	"github.com/hay-kot/organizer/internal/core/task"
	"github.com/hay-kot/organizer/internal/store"
)

// Body is the code of a watcher. It returns nil once Take reports the
// channel closed; any other return before shutdown is a supervisory fault.
type Body func(ctx context.Context, ch *Channel) error

// Watcher names a body and the actions it wants to see.
type Watcher struct {
	Name    string
	Pattern eventbus.Pattern
	Run     Body
}

// Channel is a watcher's view of the store and of its queue.
type Channel struct {
	name string
	sub  *eventbus.Subscription
	api  store.API
	log  zerolog.Logger

	last action.Action
}

// Take blocks until the next matching action. It returns eventbus.ErrClosed
// once the orchestrator is stopping and the queue is empty, or the context
// error when cancelled.
func (c *Channel) Take(ctx context.Context) (action.Action, error) {
	a, err := c.sub.Next(ctx)
	if err != nil {
		return nil, err
	}
	c.last = a
	return a, nil
}

// Put dispatches a from the top of the middleware pipeline and returns once
// it has been reduced.
func (c *Channel) Put(a action.Action) {
	c.api.Dispatch(a)
}

// State returns the current store state.
func (c *Channel) State() task.State {
	return c.api.GetState()
}

// Pending returns how many matching actions wait in the queue.
func (c *Channel) Pending() int {
	return c.sub.Pending()
}

// Logger returns the watcher's logger.
func (c *Channel) Logger() zerolog.Logger {
	return c.log
}

// Handler processes one action taken by TakeEvery.
type Handler func(ctx context.Context, ch *Channel, a action.Action) error

// TakeEvery returns a body that handles each matching action in turn. A
// handler error is logged and the loop goes on with the next action.
func TakeEvery(h Handler) Body {
	return func(ctx context.Context, ch *Channel) error {
		for {
			a, err := ch.Take(ctx)
			if errors.Is(err, eventbus.ErrClosed) {
				return nil
			}
			if err != nil {
				return err
			}

			actx := logging.WithAction(ctx, a.Type().String())
			if err := h(actx, ch, a); err != nil {
				ch.log.Error().Ctx(actx).Err(err).Msg("effect failed")
			}
		}
	}
}
