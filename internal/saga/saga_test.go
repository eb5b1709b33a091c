package saga_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/organizer/internal/core/action"
	"github.com/hay-kot/organizer/internal/core/eventbus"
	"github.com/hay-kot/organizer/internal/core/task"
	"github.com/hay-kot/organizer/internal/saga"
	"github.com/hay-kot/organizer/internal/store"
	"github.com/hay-kot/organizer/internal/store/storetest"
)

type harness struct {
	store *store.Store
	orch  *saga.Orchestrator
	rec   *storetest.Recorder
}

func newHarness(t *testing.T, watchers ...saga.Watcher) *harness {
	t.Helper()

	rec := storetest.New()
	orch := saga.New(eventbus.New(), zerolog.Nop(), saga.WithRestartDelay(time.Millisecond))
	s := store.New(store.Combine(store.DefaultReducers()), task.State{Session: task.Session{UserID: "u1"}},
		zerolog.Nop(), rec, orch.Middleware())
	orch.Run(s, watchers...)
	t.Cleanup(orch.Cancel)

	return &harness{store: s, orch: orch, rec: rec}
}

// committer turns every request into a commit with an id taken from ids.
func committer(ids <-chan string) saga.Watcher {
	return saga.Watcher{
		Name:    "committer",
		Pattern: eventbus.Match(action.TypeCreateTaskRequest),
		Run: saga.TakeEvery(func(ctx context.Context, ch *saga.Channel, a action.Action) error {
			req := a.(action.CreateTaskRequest)
			select {
			case id := <-ids:
				ch.Put(action.CommitTask(id, req.GroupID, ch.State().Session.UserID))
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}),
	}
}

func TestOrchestrator_CommitFollowsRequest(t *testing.T) {
	ids := make(chan string, 1)
	ids <- "t1"
	h := newHarness(t, committer(ids))

	h.store.Dispatch(action.RequestTaskCreation("g1"))

	h.rec.AssertDispatched(t, action.TypeCreateTask, 1)
	assert.Equal(t, []action.Action{
		action.RequestTaskCreation("g1"),
		action.CommitTask("t1", "g1", "u1"),
	}, h.rec.Actions())
	require.Len(t, h.store.GetState().Tasks, 1)
}

func TestOrchestrator_RequestsWhileBusyAreNotDropped(t *testing.T) {
	ids := make(chan string)
	h := newHarness(t, committer(ids))

	h.store.Dispatch(action.RequestTaskCreation("g1"))
	h.store.Dispatch(action.RequestTaskCreation("g2"))
	h.store.Dispatch(action.RequestTaskCreation("g3"))

	h.rec.AssertNotDispatched(t, action.TypeCreateTask, 30*time.Millisecond)

	ids <- "t1"
	ids <- "t2"
	ids <- "t3"

	h.rec.AssertDispatched(t, action.TypeCreateTask, 3)

	commits := h.rec.OfType(action.TypeCreateTask)
	require.Len(t, commits, 3)
	assert.Equal(t, action.CommitTask("t1", "g1", "u1"), commits[0])
	assert.Equal(t, action.CommitTask("t2", "g2", "u1"), commits[1])
	assert.Equal(t, action.CommitTask("t3", "g3", "u1"), commits[2])
}

func TestOrchestrator_OneActionInFlightPerWatcher(t *testing.T) {
	var inFlight, maxInFlight atomic.Int32
	var handled atomic.Int32

	w := saga.Watcher{
		Name:    "serial",
		Pattern: eventbus.MatchAll,
		Run: saga.TakeEvery(func(context.Context, *saga.Channel, action.Action) error {
			n := inFlight.Add(1)
			for {
				m := maxInFlight.Load()
				if n <= m || maxInFlight.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inFlight.Add(-1)
			handled.Add(1)
			return nil
		}),
	}
	h := newHarness(t, w)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.store.Dispatch(action.Unknown{Tag: "PING"})
		}()
	}
	wg.Wait()
	h.orch.Stop()

	assert.EqualValues(t, 20, handled.Load())
	assert.EqualValues(t, 1, maxInFlight.Load())
}

func TestOrchestrator_WatcherSeesReducedState(t *testing.T) {
	seen := make(chan int, 1)
	w := saga.Watcher{
		Name:    "observer",
		Pattern: eventbus.Match(action.TypeCreateTask),
		Run: saga.TakeEvery(func(_ context.Context, ch *saga.Channel, _ action.Action) error {
			seen <- len(ch.State().Tasks)
			return nil
		}),
	}
	h := newHarness(t, w)

	h.store.Dispatch(action.CommitTask("t1", "g1", "u1"))

	select {
	case n := <-seen:
		assert.Equal(t, 1, n)
	case <-time.After(time.Second):
		t.Fatal("watcher did not run")
	}
}

func TestOrchestrator_HandlerErrorDoesNotStopWatcher(t *testing.T) {
	var calls atomic.Int32
	w := saga.Watcher{
		Name:    "flaky",
		Pattern: eventbus.MatchAll,
		Run: saga.TakeEvery(func(context.Context, *saga.Channel, action.Action) error {
			calls.Add(1)
			return errors.New("transient")
		}),
	}
	h := newHarness(t, w)

	h.store.Dispatch(action.Unknown{Tag: "A"})
	h.store.Dispatch(action.Unknown{Tag: "B"})
	h.orch.Stop()

	assert.EqualValues(t, 2, calls.Load())
	assert.Zero(t, h.orch.Faults())
}

func TestOrchestrator_PanickedWatcherIsRestarted(t *testing.T) {
	var calls atomic.Int32
	w := saga.Watcher{
		Name:    "fragile",
		Pattern: eventbus.MatchAll,
		Run: saga.TakeEvery(func(_ context.Context, ch *saga.Channel, a action.Action) error {
			if calls.Add(1) == 1 {
				panic("first action explodes")
			}
			ch.Put(action.CommitTask("t1", "g1", "u1"))
			return nil
		}),
	}
	h := newHarness(t, w)

	h.store.Dispatch(action.Unknown{Tag: "A"})
	h.store.Dispatch(action.Unknown{Tag: "B"})

	h.rec.AssertDispatched(t, action.TypeCreateTask, 1)
	assert.EqualValues(t, 1, h.orch.Restarts())
}

func TestOrchestrator_EarlyReturnIsFault(t *testing.T) {
	w := saga.Watcher{
		Name:    "quitter",
		Pattern: eventbus.MatchAll,
		Run: func(context.Context, *saga.Channel) error {
			return errors.New("gave up")
		},
	}
	h := newHarness(t, w)

	require.Eventually(t, func() bool { return h.orch.Faults() == 1 }, time.Second, 5*time.Millisecond)
}

func TestOrchestrator_StopDrainsQueue(t *testing.T) {
	ids := make(chan string, 3)
	gate := make(chan struct{})
	w := saga.Watcher{
		Name:    "gated",
		Pattern: eventbus.Match(action.TypeCreateTaskRequest),
		Run: saga.TakeEvery(func(_ context.Context, ch *saga.Channel, a action.Action) error {
			<-gate
			ch.Put(action.CommitTask(<-ids, a.(action.CreateTaskRequest).GroupID, "u1"))
			return nil
		}),
	}
	h := newHarness(t, w)

	ids <- "t1"
	ids <- "t2"
	ids <- "t3"
	h.store.Dispatch(action.RequestTaskCreation("g1"))
	h.store.Dispatch(action.RequestTaskCreation("g2"))
	h.store.Dispatch(action.RequestTaskCreation("g3"))

	close(gate)
	h.orch.Stop()

	assert.Equal(t, 3, h.rec.Count(action.TypeCreateTask))
	assert.Len(t, h.store.GetState().Tasks, 3)
	assert.Zero(t, h.orch.Faults())
}

func TestOrchestrator_CancelAbortsBlockedWatcher(t *testing.T) {
	h := newHarness(t, committer(make(chan string)))

	h.store.Dispatch(action.RequestTaskCreation("g1"))

	done := make(chan struct{})
	go func() {
		h.orch.Cancel()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Cancel did not return")
	}
	assert.Zero(t, h.rec.Count(action.TypeCreateTask))
	assert.Zero(t, h.orch.Faults())

	h.store.Dispatch(action.RequestTaskCreation("g2"))
	assert.Len(t, h.store.GetState().Tasks, 0, "store keeps working without watchers")
}

func TestOrchestrator_StopDeliversActionsPutDuringDrain(t *testing.T) {
	var renamed atomic.Int64
	commit := saga.Watcher{
		Name:    "commit",
		Pattern: eventbus.Match(action.TypeCreateTaskRequest),
		Run: saga.TakeEvery(func(_ context.Context, ch *saga.Channel, a action.Action) error {
			time.Sleep(10 * time.Millisecond)
			ch.Put(action.CommitTask("t1", a.(action.CreateTaskRequest).GroupID, "u1"))
			return nil
		}),
	}
	rename := saga.Watcher{
		Name:    "rename",
		Pattern: eventbus.Match(action.TypeCreateTask),
		Run: saga.TakeEvery(func(_ context.Context, ch *saga.Channel, a action.Action) error {
			ch.Put(action.RenameTask(a.(action.CreateTask).TaskID, "named"))
			return nil
		}),
	}
	audit := saga.Watcher{
		Name:    "audit",
		Pattern: eventbus.Match(action.TypeSetTaskName),
		Run: saga.TakeEvery(func(context.Context, *saga.Channel, action.Action) error {
			renamed.Add(1)
			return nil
		}),
	}
	h := newHarness(t, commit, rename, audit)

	h.store.Dispatch(action.RequestTaskCreation("g1"))
	h.orch.Stop()

	assert.Equal(t, int64(1), renamed.Load(), "two hops after the request still observed")
	require.Len(t, h.store.GetState().Tasks, 1)
	assert.Equal(t, "named", h.store.GetState().Tasks[0].Name)
}
