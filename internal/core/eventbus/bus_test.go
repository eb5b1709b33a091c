package eventbus_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/organizer/internal/core/action"
	"github.com/hay-kot/organizer/internal/core/eventbus"
)

func next(t *testing.T, sub *eventbus.Subscription) action.Action {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	a, err := sub.Next(ctx)
	require.NoError(t, err)
	return a
}

func TestBus_PublishFiltersByPattern(t *testing.T) {
	bus := eventbus.New()
	requests := bus.Subscribe("requests", eventbus.Match(action.TypeCreateTaskRequest))
	all := bus.Subscribe("all", eventbus.MatchAll)

	require.NoError(t, bus.Publish(action.RenameTask("t1", "x")))
	require.NoError(t, bus.Publish(action.RequestTaskCreation("g1")))

	assert.Equal(t, 1, requests.Pending())
	assert.Equal(t, 2, all.Pending())

	assert.Equal(t, action.RequestTaskCreation("g1"), next(t, requests))
	assert.Equal(t, action.RenameTask("t1", "x"), next(t, all))
	assert.Equal(t, action.RequestTaskCreation("g1"), next(t, all))
}

func TestBus_NilPatternMatchesAll(t *testing.T) {
	bus := eventbus.New()
	sub := bus.Subscribe("any", nil)

	require.NoError(t, bus.Publish(action.Unknown{Tag: "X"}))
	assert.Equal(t, 1, sub.Pending())
}

func TestBus_QueueIsUnboundedAndOrdered(t *testing.T) {
	bus := eventbus.New()
	sub := bus.Subscribe("slow", eventbus.MatchAll)

	const n = 1000
	for i := range n {
		require.NoError(t, bus.Publish(action.RequestTaskCreation(fmt.Sprintf("g%d", i))))
	}

	require.Equal(t, n, sub.Pending())
	for i := range n {
		got := next(t, sub).(action.CreateTaskRequest)
		require.Equal(t, fmt.Sprintf("g%d", i), got.GroupID)
	}
}

func TestSubscription_NextBlocksUntilPublish(t *testing.T) {
	bus := eventbus.New()
	sub := bus.Subscribe("waiter", eventbus.MatchAll)

	got := make(chan action.Action, 1)
	go func() {
		a, err := sub.Next(context.Background())
		if err == nil {
			got <- a
		}
	}()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, bus.Publish(action.RequestTaskCreation("g1")))

	select {
	case a := <-got:
		assert.Equal(t, action.RequestTaskCreation("g1"), a)
	case <-time.After(time.Second):
		t.Fatal("Next did not return after publish")
	}
}

func TestSubscription_NextHonorsContext(t *testing.T) {
	bus := eventbus.New()
	sub := bus.Subscribe("waiter", eventbus.MatchAll)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := sub.Next(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBus_CloseDrainsQueuedActions(t *testing.T) {
	bus := eventbus.New()
	sub := bus.Subscribe("drain", eventbus.MatchAll)

	require.NoError(t, bus.Publish(action.RequestTaskCreation("g1")))
	require.NoError(t, bus.Publish(action.RequestTaskCreation("g2")))
	bus.Close()

	assert.True(t, bus.Closed())
	assert.True(t, sub.Closed())
	assert.ErrorIs(t, bus.Publish(action.RequestTaskCreation("g3")), eventbus.ErrClosed)

	assert.Equal(t, action.RequestTaskCreation("g1"), next(t, sub))
	assert.Equal(t, action.RequestTaskCreation("g2"), next(t, sub))

	_, err := sub.Next(context.Background())
	assert.ErrorIs(t, err, eventbus.ErrClosed)
}

func TestBus_CloseWakesBlockedReader(t *testing.T) {
	bus := eventbus.New()
	sub := bus.Subscribe("waiter", eventbus.MatchAll)

	errs := make(chan error, 1)
	go func() {
		_, err := sub.Next(context.Background())
		errs <- err
	}()

	time.Sleep(20 * time.Millisecond)
	bus.Close()
	bus.Close()

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, eventbus.ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("Next did not return after close")
	}
}

func TestBus_SubscribeAfterClose(t *testing.T) {
	bus := eventbus.New()
	bus.Close()

	sub := bus.Subscribe("late", eventbus.MatchAll)
	assert.True(t, sub.Closed())

	_, err := sub.Next(context.Background())
	assert.ErrorIs(t, err, eventbus.ErrClosed)
}

func TestSubscription_Unsubscribe(t *testing.T) {
	bus := eventbus.New()
	gone := bus.Subscribe("gone", eventbus.MatchAll)
	kept := bus.Subscribe("kept", eventbus.MatchAll)

	gone.Unsubscribe()
	require.NoError(t, bus.Publish(action.RequestTaskCreation("g1")))

	assert.Equal(t, 0, gone.Pending())
	assert.Equal(t, 1, kept.Pending())
}

func TestBus_ConcurrentPublishersKeepOneOrder(t *testing.T) {
	bus := eventbus.New()
	a := bus.Subscribe("a", eventbus.MatchAll)
	b := bus.Subscribe("b", eventbus.MatchAll)

	const n = 200
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = bus.Publish(action.RequestTaskCreation(fmt.Sprintf("g%d", i)))
		}()
	}
	wg.Wait()

	require.Equal(t, n, a.Pending())
	for range n {
		assert.Equal(t, next(t, a), next(t, b))
	}
}

func TestBus_Hooks(t *testing.T) {
	bus := eventbus.New()

	var (
		published []int
		dropped   []action.Type
		subs      []string
		panics    []any
	)
	bus.OnPublish(func(_ action.Action, delivered int) { published = append(published, delivered) })
	bus.OnDrop(func(a action.Action) { dropped = append(dropped, a.Type()) })
	bus.OnSubscribe(func(name string) { subs = append(subs, name) })
	bus.OnPanic(func(_ string, _ action.Action, r any) {
		panics = append(panics, r)
		panic("hooks must not take the bus down")
	})

	bus.Subscribe("one", eventbus.Match(action.TypeCreateTask))
	bus.Subscribe("two", eventbus.MatchAll)

	require.NoError(t, bus.Publish(action.CommitTask("t1", "g1", "u1")))
	require.NoError(t, bus.Publish(action.RenameTask("t1", "x")))
	require.NotPanics(t, func() { bus.ReportPanic("two", nil, "boom") })
	bus.Close()
	_ = bus.Publish(action.RequestTaskCreation("g1"))

	assert.Equal(t, []string{"one", "two"}, subs)
	assert.Equal(t, []int{2, 1}, published)
	assert.Equal(t, []action.Type{action.TypeCreateTaskRequest}, dropped)
	assert.Equal(t, []any{"boom"}, panics)
}

func TestSubscription_Idle(t *testing.T) {
	bus := eventbus.New()
	sub := bus.Subscribe("waiter", eventbus.MatchAll)
	assert.False(t, sub.Idle(), "not idle before the reader waits")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan action.Action, 1)
	go func() {
		for {
			a, err := sub.Next(ctx)
			if err != nil {
				return
			}
			got <- a
		}
	}()

	require.Eventually(t, sub.Idle, time.Second, time.Millisecond)

	require.NoError(t, bus.Publish(action.RequestTaskCreation("g1")))
	assert.Equal(t, uint64(1), bus.Published())
	<-got

	require.Eventually(t, sub.Idle, time.Second, time.Millisecond)

	cancel()
	require.Eventually(t, func() bool { return !sub.Idle() }, time.Second, time.Millisecond)
}

func TestBus_PublishedIgnoresClosedBus(t *testing.T) {
	bus := eventbus.New()
	require.NoError(t, bus.Publish(action.RequestTaskCreation("g1")))
	bus.Close()
	require.ErrorIs(t, bus.Publish(action.RequestTaskCreation("g2")), eventbus.ErrClosed)

	assert.Equal(t, uint64(1), bus.Published())
}
