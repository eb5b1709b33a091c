package store

import (
	"github.com/rs/zerolog"

	"github.com/hay-kot/organizer/internal/core/action"
)

// Logger returns the observability tap. For every action it emits one record
// on entry and one with the resulting state on exit. It forwards the action
// untouched and never lets a logging fault reach the caller.
//
// The exit record describes the reduction of this action only, as reported by
// the store. Dispatches committed concurrently do not leak into it.
func Logger(log zerolog.Logger) Middleware {
	log = log.With().Str("component", "action-log").Logger()

	return MiddlewareFunc(func(api API, a action.Action, next Next) {
		bestEffort(func() {
			log.Debug().
				Str("action", a.Type().String()).
				Bool("known", a.Type().IsKnown()).
				Interface("payload", a).
				Msg("action dispatched")
		})

		next(a)

		bestEffort(func() {
			var (
				tr      Transition
				reduced bool
			)
			if r, ok := api.(Reduction); ok {
				tr, reduced = r.Reduced()
			}
			if !reduced {
				log.Debug().
					Str("action", a.Type().String()).
					Bool("reduced", false).
					Msg("state updated")
				return
			}

			st := tr.Next
			changes := Diff(tr.Prev, tr.Next)
			log.Debug().
				Str("action", a.Type().String()).
				Bool("reduced", true).
				Bool("changed", changes.Any()).
				Bool("tasks_changed", changes.Tasks).
				Int("tasks", len(st.Tasks)).
				Int("groups", len(st.Groups)).
				Int("users", len(st.Users)).
				Int("comments", len(st.Comments)).
				Msg("state updated")

			if log.GetLevel() <= zerolog.TraceLevel {
				log.Trace().Interface("state", st).Msg("state snapshot")
			}
		})
	})
}

// bestEffort runs fn and discards any panic it raises.
func bestEffort(fn func()) {
	defer func() { recover() }() //nolint:errcheck

	fn()
}
