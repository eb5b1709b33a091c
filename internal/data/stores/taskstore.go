package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/hay-kot/organizer/internal/core/task"
	"github.com/hay-kot/organizer/internal/data/db"
)

// TaskStore implements task.Store using SQLite.
type TaskStore struct {
	db  *db.DB
	now func() time.Time
}

var _ task.Store = (*TaskStore)(nil)

// NewTaskStore creates a new SQLite-backed task store.
func NewTaskStore(db *db.DB) *TaskStore {
	return &TaskStore{db: db, now: time.Now}
}

// AddNewTask persists a newly created task. Returns task.ErrDuplicate when
// the id is already stored.
func (s *TaskStore) AddNewTask(ctx context.Context, t task.Task) error {
	now := s.now().UnixNano()

	_, err := s.db.Conn().ExecContext(ctx, `
		INSERT INTO tasks (id, name, group_id, owner_id, is_complete, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Group, t.Owner, boolToInt(t.IsComplete), now, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: %s", task.ErrDuplicate, t.ID)
		}
		return fmt.Errorf("add task: %w", err)
	}

	return nil
}

// UpdateTask overwrites the stored fields of t. Returns task.ErrNotFound when
// no task has t.ID.
func (s *TaskStore) UpdateTask(ctx context.Context, t task.Task) error {
	res, err := s.db.Conn().ExecContext(ctx, `
		UPDATE tasks
		SET name = ?, group_id = ?, owner_id = ?, is_complete = ?, updated_at = ?
		WHERE id = ?`,
		t.Name, t.Group, t.Owner, boolToInt(t.IsComplete), s.now().UnixNano(), t.ID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", task.ErrNotFound, t.ID)
	}

	return nil
}

// Get returns a single task by id.
func (s *TaskStore) Get(ctx context.Context, id string) (task.Task, error) {
	row := s.db.Conn().QueryRowContext(ctx, `
		SELECT id, name, group_id, owner_id, is_complete
		FROM tasks WHERE id = ?`, id)

	t, err := scanTask(row)
	if err != nil {
		if IsNotFoundError(err) {
			return task.Task{}, fmt.Errorf("%w: %s", task.ErrNotFound, id)
		}
		return task.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// List returns all stored tasks in insertion order.
func (s *TaskStore) List(ctx context.Context) ([]task.Task, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT id, name, group_id, owner_id, is_complete
		FROM tasks ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Exists reports whether a task with id is stored.
func (s *TaskStore) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.Conn().QueryRowContext(ctx, "SELECT 1 FROM tasks WHERE id = ?", id).Scan(&one)
	if IsNotFoundError(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check task: %w", err)
	}
	return true, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (task.Task, error) {
	var (
		t        task.Task
		complete int64
	)
	if err := row.Scan(&t.ID, &t.Name, &t.Group, &t.Owner, &complete); err != nil {
		return task.Task{}, err
	}
	t.IsComplete = complete != 0
	return t, nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
