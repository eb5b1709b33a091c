// Package logging holds the zerolog helpers shared by every component.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component creates a new logger with a component identifier.
// Uses the "cmp" key for consistency with zerolog conventions.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}

// Attach returns a child of base that carries the component identifier and
// resolves context fields through ContextHook.
func Attach(base zerolog.Logger, name string) zerolog.Logger {
	return base.With().Str("cmp", name).Logger().Hook(ContextHook{})
}
