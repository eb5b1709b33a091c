package organizer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/hay-kot/organizer/internal/core/action"
	"github.com/hay-kot/organizer/internal/core/eventbus"
	"github.com/hay-kot/organizer/internal/core/task"
)

// ErrCreateFailed is returned by CreateTask when the id allocation failed.
var ErrCreateFailed = errors.New("task creation failed")

// CreateTask requests a new task in groupID and waits until the watcher
// commits it or reports a failure. ownerID may be empty. Each call tags its
// request with a fresh id and only accepts the outcome carrying that id.
func (a *App) CreateTask(ctx context.Context, groupID, ownerID string) (task.Task, error) {
	sub := a.bus.Subscribe("create-task-request", eventbus.Match(action.TypeCreateTask, action.TypeCreateTaskFailed))
	defer sub.Unsubscribe()

	req := action.RequestTaskCreation(groupID)
	req.OwnerID = ownerID
	req.RequestID = uuid.NewString()
	a.store.Dispatch(req)

	for {
		next, err := sub.Next(ctx)
		if err != nil {
			return task.Task{}, fmt.Errorf("wait for task creation: %w", err)
		}

		switch v := next.(type) {
		case action.CreateTask:
			if v.RequestID != req.RequestID {
				continue
			}
			t, err := task.Find(a.store.GetState(), v.TaskID)
			if err != nil {
				return task.Task{}, err
			}
			return *t, nil
		case action.CreateTaskFailed:
			if v.RequestID != req.RequestID {
				continue
			}
			return task.Task{}, fmt.Errorf("%w: %s", ErrCreateFailed, v.Reason)
		}
	}
}

// SetComplete marks a task complete or open. Returns task.ErrNotFound, after
// dispatching, when no task has id.
func (a *App) SetComplete(id string, complete bool) error {
	return a.dispatchFor(id, action.SetTaskCompletion(id, complete))
}

// Rename changes a task's name.
func (a *App) Rename(id, name string) error {
	return a.dispatchFor(id, action.RenameTask(id, name))
}

// Move files a task under another group.
func (a *App) Move(id, groupID string) error {
	return a.dispatchFor(id, action.MoveTask(id, groupID))
}

// dispatchFor dispatches act and reports whether its target exists. A
// missing target is still dispatched: reducers treat it as a no-op.
func (a *App) dispatchFor(id string, act action.Action) error {
	a.store.Dispatch(act)
	_, err := task.Find(a.store.GetState(), id)
	return err
}
