package store

import (
	"github.com/hay-kot/organizer/internal/core/action"
	"github.com/hay-kot/organizer/internal/core/task"
)

// API is the view of the store handed to middleware and effects. Dispatch
// always enters the pipeline from the top.
type API interface {
	GetState() task.State
	Dispatch(a action.Action)
}

// Next forwards an action to the next interceptor, or to the reducers when
// called from the innermost middleware.
type Next func(a action.Action)

// Middleware intercepts every dispatched action. An implementation observes
// or acts on the action and calls next to forward it; not calling next
// swallows the action.
type Middleware interface {
	Handle(api API, a action.Action, next Next)
}

// MiddlewareFunc adapts a function to Middleware.
type MiddlewareFunc func(api API, a action.Action, next Next)

// Handle calls f.
func (f MiddlewareFunc) Handle(api API, a action.Action, next Next) {
	f(api, a, next)
}

// chain composes mws around base. mws[0] is the outermost interceptor and
// sees each action first.
func chain(api API, mws []Middleware, base Next) Next {
	next := base
	for i := len(mws) - 1; i >= 0; i-- {
		mw, inner := mws[i], next
		next = func(a action.Action) {
			mw.Handle(api, a, inner)
		}
	}
	return next
}
