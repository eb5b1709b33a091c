package task

import (
	"context"
	"errors"
)

// ErrDuplicate is returned when adding a task whose id is already persisted.
var ErrDuplicate = errors.New("task already exists")

// Store persists tasks outside the process. Implementations live in
// internal/data/stores.
type Store interface {
	// AddNewTask persists a task that was just created.
	AddNewTask(ctx context.Context, t Task) error
	// UpdateTask overwrites every field of a persisted task. It returns
	// ErrNotFound when no task has t.ID.
	UpdateTask(ctx context.Context, t Task) error
	// List returns all persisted tasks in creation order.
	List(ctx context.Context) ([]Task, error)
}
