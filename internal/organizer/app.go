// Package organizer wires the store, the effect watchers, id allocation and
// persistence into the application used by the CLI.
package organizer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hay-kot/organizer/internal/core/action"
	"github.com/hay-kot/organizer/internal/core/config"
	"github.com/hay-kot/organizer/internal/core/eventbus"
	"github.com/hay-kot/organizer/internal/core/logging"
	"github.com/hay-kot/organizer/internal/core/task"
	"github.com/hay-kot/organizer/internal/data/db"
	"github.com/hay-kot/organizer/internal/idalloc"
	"github.com/hay-kot/organizer/internal/saga"
	"github.com/hay-kot/organizer/internal/store"
)

// Options customizes New. Zero fields are derived from the configuration.
type Options struct {
	// Initial replaces the snapshot/default starting state.
	Initial *task.State
	// Allocator replaces the configured id strategy.
	Allocator idalloc.Allocator
	// Tasks replaces the SQLite task store. Persistence is still controlled
	// by the configuration.
	Tasks task.Store
	// Middleware is installed between the logger and the effect layer.
	Middleware []store.Middleware
	// SagaOptions are passed to the orchestrator.
	SagaOptions []saga.Option
}

// App is the central entry point for all organizer operations.
// Commands consume App instead of cherry-picking raw dependencies.
type App struct {
	Config *config.Config

	store     *store.Store
	bus       *eventbus.Bus
	orch      *saga.Orchestrator
	alloc     idalloc.Allocator
	tasks     task.Store
	connector *db.Connector
	log       zerolog.Logger
}

// New builds the store with its middleware, hydrates it from the task store
// when persistence is enabled, and starts the watchers.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger, opts Options) (*App, error) {
	app := &App{
		Config: cfg,
		log:    log.With().Str("component", "organizer").Logger(),
	}

	initial, err := app.initialState(opts)
	if err != nil {
		return nil, err
	}

	if cfg.Persistence.Enabled {
		app.tasks = opts.Tasks
		if app.tasks == nil {
			if err := app.connect(ctx); err != nil {
				return nil, err
			}
		}

		initial, err = hydrate(ctx, app.tasks, initial, app.log)
		if err != nil {
			_ = app.closeDB()
			return nil, err
		}
	}

	app.alloc = opts.Allocator
	if app.alloc == nil {
		app.alloc, err = app.newAllocator(ctx, initial)
		if err != nil {
			_ = app.closeDB()
			return nil, err
		}
	}

	app.bus = eventbus.New()
	eventbus.RegisterDebugLogger(app.bus, logging.Attach(log, "eventbus"))
	app.orch = saga.New(app.bus, log, opts.SagaOptions...)

	mws := make([]store.Middleware, 0, len(opts.Middleware)+2)
	mws = append(mws, store.Logger(log))
	mws = append(mws, opts.Middleware...)
	mws = append(mws, app.orch.Middleware())

	app.store = store.New(store.Combine(store.DefaultReducers()), initial, log, mws...)

	watchers := []saga.Watcher{CreateTaskWatcher(app.alloc)}
	if app.tasks != nil {
		watchers = append(watchers, PersistenceWatcher(app.tasks))
	}
	app.orch.Run(app.store, watchers...)

	app.log.Debug().
		Str("id_strategy", cfg.IDStrategy).
		Bool("persistence", app.tasks != nil).
		Int("tasks", len(initial.Tasks)).
		Msg("organizer started")

	return app, nil
}

// Store returns the state container.
func (a *App) Store() *store.Store { return a.store }

// GetState returns the current state.
func (a *App) GetState() task.State { return a.store.GetState() }

// Dispatch sends an action through the pipeline.
func (a *App) Dispatch(act action.Action) { a.store.Dispatch(act) }

// Close drains the watchers, so queued creations and writes finish, then
// closes the database.
func (a *App) Close() error {
	a.orch.Stop()
	return a.closeDB()
}

// Abort cancels the watchers without draining them and closes the database.
func (a *App) Abort() error {
	a.orch.Cancel()
	return a.closeDB()
}

func (a *App) initialState(opts Options) (task.State, error) {
	switch {
	case opts.Initial != nil:
		return *opts.Initial, nil
	case a.Config.Snapshot != "":
		st, err := task.LoadSnapshot(a.Config.Snapshot)
		if err != nil {
			return task.State{}, fmt.Errorf("load snapshot: %w", err)
		}
		return st, nil
	default:
		return task.DefaultState(), nil
	}
}

func (a *App) closeDB() error {
	if a.connector == nil {
		return nil
	}
	return a.connector.Close()
}
