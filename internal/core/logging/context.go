package logging

import "context"

type contextKey string

const (
	watcherKey contextKey = "watcher"
	actionKey  contextKey = "action"
)

// WithWatcher adds the name of the running watcher to the context.
func WithWatcher(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, watcherKey, name)
}

// WithAction adds the type tag of the action being handled to the context.
func WithAction(ctx context.Context, actionType string) context.Context {
	return context.WithValue(ctx, actionKey, actionType)
}

// GetWatcher retrieves the watcher name from the context.
// Returns empty string if not present.
func GetWatcher(ctx context.Context) string {
	if name, ok := ctx.Value(watcherKey).(string); ok {
		return name
	}
	return ""
}

// GetAction retrieves the action type from the context.
// Returns empty string if not present.
func GetAction(ctx context.Context) string {
	if t, ok := ctx.Value(actionKey).(string); ok {
		return t
	}
	return ""
}
