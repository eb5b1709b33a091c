package organizer

import (
	"context"
	"fmt"

	"github.com/hay-kot/organizer/internal/core/task"
	"github.com/hay-kot/organizer/internal/data/db"
	"github.com/hay-kot/organizer/internal/data/stores"
	"github.com/hay-kot/organizer/internal/idalloc"
)

// taskSequence is the sequence name used by the sqlite strategy.
const taskSequence = "tasks"

// newAllocator builds the configured allocator. Counting strategies start
// above the highest id already present in initial.
func (a *App) newAllocator(ctx context.Context, initial task.State) (idalloc.Allocator, error) {
	prefix := a.Config.IDPrefix
	highest := idalloc.HighestSuffix(task.IDs(initial.Tasks), prefix)

	switch a.Config.Strategy() {
	case idalloc.StrategyCounter:
		return idalloc.NewCounter(prefix, highest), nil
	case idalloc.StrategyUUID:
		return idalloc.NewUUID(""), nil
	case idalloc.StrategyRandom:
		return idalloc.NewRandom(prefix, idalloc.DefaultRandomLength, a.taken), nil
	case idalloc.StrategySQLite:
		if a.connector == nil {
			return nil, fmt.Errorf("sqlite id strategy requires the sqlite task store")
		}
		handle, err := a.connector.Connect(ctx)
		if err != nil {
			return nil, err
		}
		if err := stores.NewSequenceStore(handle).Seed(ctx, taskSequence, int64(highest)); err != nil {
			return nil, err
		}
		return idalloc.NewSequence(connectedSequence{a.connector}, taskSequence, prefix), nil
	default:
		return idalloc.NewULID(""), nil
	}
}

// taken reports whether id is already used by a task in the current state.
func (a *App) taken(id string) bool {
	if a.store == nil {
		return false
	}
	_, err := task.Find(a.store.GetState(), id)
	return err == nil
}

// connectedSequence fetches the handle from the connector on every call, so
// a refused connection fails that allocation only and the next one retries.
type connectedSequence struct {
	connector *db.Connector
}

func (c connectedSequence) Next(ctx context.Context, name string) (int64, error) {
	handle, err := c.connector.Connect(ctx)
	if err != nil {
		return 0, fmt.Errorf("connect: %w", err)
	}
	return stores.NewSequenceStore(handle).Next(ctx, name)
}
