package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook copies the watcher and action stored on an event's context
// into the event.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == context.Background() || ctx == nil {
		return
	}

	if name := GetWatcher(ctx); name != "" {
		e.Str("watcher", name)
	}

	if t := GetAction(ctx); t != "" {
		e.Str("action", t)
	}
}
