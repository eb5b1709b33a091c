package eventbus

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hay-kot/organizer/internal/core/action"
)

// RegisterDebugLogger registers bus hooks that log all bus activity.
// Publishes and subscriptions are logged at debug level, drops at warn and
// subscriber panics at error.
func RegisterDebugLogger(bus *Bus, logger zerolog.Logger) {
	bus.OnPublish(func(a action.Action, delivered int) {
		logger.Debug().
			Str("action", a.Type().String()).
			Int("delivered", delivered).
			Msg("action published")
	})

	bus.OnDrop(func(a action.Action) {
		logger.Warn().Str("action", a.Type().String()).Msg("action dropped: bus closed")
	})

	bus.OnSubscribe(func(name string) {
		logger.Debug().Str("subscriber", name).Msg("subscriber registered")
	})

	bus.OnPanic(func(name string, a action.Action, recovered any) {
		evt := logger.Error().
			Str("subscriber", name).
			Str("panic", fmt.Sprint(recovered))
		if a != nil {
			evt = evt.Str("action", a.Type().String())
		}
		evt.Msg("subscriber panicked")
	})
}
