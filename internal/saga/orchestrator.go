package saga

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/organizer/internal/core/action"
	"github.com/hay-kot/organizer/internal/core/eventbus"
	"github.com/hay-kot/organizer/internal/core/logging"
	"github.com/hay-kot/organizer/internal/store"
)

// DefaultRestartDelay is the pause before a panicked watcher is restarted.
const DefaultRestartDelay = 50 * time.Millisecond

const quiescePoll = 2 * time.Millisecond

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRestartDelay sets the pause before a panicked watcher is restarted.
func WithRestartDelay(d time.Duration) Option {
	return func(o *Orchestrator) { o.restartDelay = d }
}

// Orchestrator owns the watchers and the middleware that feeds them.
type Orchestrator struct {
	bus *eventbus.Bus
	log zerolog.Logger

	restartDelay time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	channels []*Channel

	faults   atomic.Int64
	restarts atomic.Int64
}

// New creates an orchestrator publishing to bus.
func New(bus *eventbus.Bus, log zerolog.Logger, opts ...Option) *Orchestrator {
	ctx, cancel := context.WithCancel(context.Background())
	o := &Orchestrator{
		bus:          bus,
		log:          logging.Attach(log, "saga"),
		restartDelay: DefaultRestartDelay,
		ctx:          ctx,
		cancel:       cancel,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Middleware returns the effect layer. It must be the innermost middleware:
// the action is reduced first and only then offered to watchers, so a
// watcher always reads a state that already includes it.
func (o *Orchestrator) Middleware() store.Middleware {
	return store.MiddlewareFunc(func(_ store.API, a action.Action, next store.Next) {
		next(a)
		if err := o.bus.Publish(a); err != nil {
			o.log.Debug().Str("action", a.Type().String()).Err(err).Msg("action not offered to watchers")
		}
	})
}

// Run subscribes every watcher and starts it. Subscriptions are registered
// before Run returns, so no action dispatched afterwards is missed.
func (o *Orchestrator) Run(api store.API, watchers ...Watcher) {
	for _, w := range watchers {
		sub := o.bus.Subscribe(w.Name, w.Pattern)
		ch := &Channel{
			name: w.Name,
			sub:  sub,
			api:  api,
			log:  o.log,
		}

		o.mu.Lock()
		o.channels = append(o.channels, ch)
		o.mu.Unlock()

		o.wg.Add(1)
		go o.supervise(w, ch)
	}
}

// Stop waits until every watcher is idle, so actions put by one watcher
// still reach the others, then closes the queues and waits for the watchers
// to return. Callers must stop dispatching first. A watcher blocked outside
// Take keeps Stop waiting; use Cancel to abort.
func (o *Orchestrator) Stop() {
	o.quiesce()
	o.bus.Close()
	o.wg.Wait()
	o.cancel()
}

// Cancel aborts all watchers without draining their queues and waits for
// them to return.
func (o *Orchestrator) Cancel() {
	o.cancel()
	o.bus.Close()
	o.wg.Wait()
}

// Faults returns how many watchers exited before shutdown.
func (o *Orchestrator) Faults() int64 { return o.faults.Load() }

// Restarts returns how many times a panicked watcher was restarted.
func (o *Orchestrator) Restarts() int64 { return o.restarts.Load() }

// quiesce returns once no watcher has work: each one is blocked in Take on an
// empty queue (or gone) and nothing was published while checking.
func (o *Orchestrator) quiesce() {
	ticker := time.NewTicker(quiescePoll)
	defer ticker.Stop()

	for {
		before := o.bus.Published()
		if o.idle() && o.bus.Published() == before {
			return
		}

		select {
		case <-o.ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (o *Orchestrator) idle() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, ch := range o.channels {
		if !ch.sub.Idle() && !ch.sub.Closed() {
			return false
		}
	}
	return true
}

func (o *Orchestrator) supervise(w Watcher, ch *Channel) {
	defer o.wg.Done()
	defer ch.sub.Unsubscribe()

	ctx := logging.WithWatcher(o.ctx, w.Name)

	for {
		recovered, panicked, err := o.runOnce(ctx, w, ch)
		if panicked {
			o.bus.ReportPanic(w.Name, ch.last, recovered)
			o.log.Error().Ctx(ctx).
				Str("panic", fmt.Sprint(recovered)).
				Msg("watcher panicked, restarting")

			select {
			case <-ctx.Done():
				return
			case <-time.After(o.restartDelay):
			}
			o.restarts.Add(1)
			continue
		}

		switch {
		case ctx.Err() != nil:
			o.log.Debug().Ctx(ctx).Msg("watcher cancelled")
		case ch.sub.Closed() && (err == nil || errors.Is(err, eventbus.ErrClosed)):
			o.log.Debug().Ctx(ctx).Msg("watcher drained")
		default:
			o.faults.Add(1)
			if err == nil {
				err = errors.New("returned before shutdown")
			}
			o.log.Error().Ctx(ctx).Err(err).Msg("watcher exited")
		}
		return
	}
}

func (o *Orchestrator) runOnce(ctx context.Context, w Watcher, ch *Channel) (recovered any, panicked bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			recovered, panicked = r, true
		}
	}()
	return nil, false, w.Run(ctx, ch)
}
