package organizer

import (
	"context"
	"errors"
	"fmt"

	"github.com/hay-kot/organizer/internal/core/action"
	"github.com/hay-kot/organizer/internal/core/eventbus"
	"github.com/hay-kot/organizer/internal/core/task"
	"github.com/hay-kot/organizer/internal/idalloc"
	"github.com/hay-kot/organizer/internal/saga"
)

// CreateTaskWatcher turns each CREATE_TASK_REQUEST into a CREATE_TASK with a
// freshly allocated id. The owner is the request's, or the session user when
// the request has none. When allocation fails a CREATE_TASK_FAILED is put
// instead and the watcher moves on to the next request.
func CreateTaskWatcher(alloc idalloc.Allocator) saga.Watcher {
	return saga.Watcher{
		Name:    "create-task",
		Pattern: eventbus.Match(action.TypeCreateTaskRequest),
		Run: saga.TakeEvery(func(ctx context.Context, ch *saga.Channel, a action.Action) error {
			req, ok := a.(action.CreateTaskRequest)
			if !ok {
				return nil
			}

			id, err := alloc.Allocate(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return err
				}
				failed := action.TaskCreationFailed(req.GroupID, err)
				failed.RequestID = req.RequestID
				ch.Put(failed)
				return fmt.Errorf("allocate task id: %w", err)
			}

			owner := req.OwnerID
			if owner == "" {
				owner = ch.State().Session.UserID
			}

			commit := action.CommitTask(id, req.GroupID, owner)
			commit.RequestID = req.RequestID
			ch.Put(commit)
			return nil
		}),
	}
}

// PersistenceWatcher writes every task touched by a committed action to
// store, reading the task as it is in the current state.
func PersistenceWatcher(store task.Store) saga.Watcher {
	return saga.Watcher{
		Name: "persist-task",
		Pattern: eventbus.Match(
			action.TypeCreateTask,
			action.TypeSetTaskComplete,
			action.TypeSetTaskName,
			action.TypeSetTaskGroup,
		),
		Run: saga.TakeEvery(func(ctx context.Context, ch *saga.Channel, a action.Action) error {
			id, ok := action.TaskID(a)
			if !ok {
				return nil
			}

			t, err := task.Find(ch.State(), id)
			if errors.Is(err, task.ErrNotFound) {
				log := ch.Logger()
				log.Debug().Ctx(ctx).Str("task", id).Msg("nothing to persist")
				return nil
			}

			if _, created := a.(action.CreateTask); created {
				err = store.AddNewTask(ctx, *t)
				if errors.Is(err, task.ErrDuplicate) {
					err = store.UpdateTask(ctx, *t)
				}
			} else {
				err = store.UpdateTask(ctx, *t)
				if errors.Is(err, task.ErrNotFound) {
					err = store.AddNewTask(ctx, *t)
				}
			}
			if err != nil {
				return fmt.Errorf("persist task %s: %w", id, err)
			}
			return nil
		}),
	}
}
