package organizer

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hay-kot/organizer/internal/core/task"
	"github.com/hay-kot/organizer/internal/data/db"
	"github.com/hay-kot/organizer/internal/data/stores"
)

// connect opens the task database, moving a corrupted file aside once.
func (a *App) connect(ctx context.Context) error {
	p := a.Config.Persistence
	a.connector = db.NewConnector(a.Config.DataDir, db.OpenOptions{
		MaxOpenConns:   p.MaxOpenConns,
		MaxIdleConns:   p.MaxIdleConns,
		BusyTimeout:    p.BusyTimeout,
		ConnectRetries: p.ConnectRetries,
		Logger:         a.log,
	})

	handle, err := a.connector.Connect(ctx)
	if err != nil && stores.IsCorruptionError(err) {
		backup, recErr := stores.RecoverFromCorruption(a.Config.DataDir)
		if recErr != nil {
			return fmt.Errorf("recover corrupted database: %w", recErr)
		}
		a.log.Warn().Err(err).Str("backup", backup).Msg("database corrupted, starting fresh")
		handle, err = a.connector.Connect(ctx)
	}
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	a.tasks = stores.NewTaskStore(handle)
	return nil
}

// hydrate replaces the starting tasks with the persisted ones. On first use
// the store is empty; it is then seeded with the starting tasks so that later
// updates to them have a row to write to.
func hydrate(ctx context.Context, store task.Store, st task.State, log zerolog.Logger) (task.State, error) {
	persisted, err := store.List(ctx)
	if err != nil {
		return st, fmt.Errorf("hydrate tasks: %w", err)
	}

	if len(persisted) == 0 {
		for _, t := range st.Tasks {
			if t == nil {
				continue
			}
			if err := store.AddNewTask(ctx, *t); err != nil && !errors.Is(err, task.ErrDuplicate) {
				return st, fmt.Errorf("seed tasks: %w", err)
			}
		}
		log.Debug().Int("tasks", len(st.Tasks)).Msg("seeded task store")
		return st, nil
	}

	tasks := make([]*task.Task, len(persisted))
	for i := range persisted {
		tasks[i] = &persisted[i]
	}
	st.Tasks = tasks

	log.Debug().Int("tasks", len(tasks)).Msg("hydrated tasks from store")
	return st, nil
}
