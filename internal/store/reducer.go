package store

import (
	"github.com/hay-kot/organizer/internal/core/action"
	"github.com/hay-kot/organizer/internal/core/task"
)

// Reducer computes the next value of one collection. It must not panic and
// must return its input unchanged when the action does not concern it.
type Reducer[T any] func(current T, a action.Action) T

// RootReducer computes the next aggregate state.
type RootReducer func(st task.State, a action.Action) task.State

// Reducers maps each collection of the aggregate to its reducer. A nil entry
// keeps the collection as it is.
type Reducers struct {
	Tasks    Reducer[[]*task.Task]
	Groups   Reducer[[]task.Group]
	Users    Reducer[[]task.User]
	Comments Reducer[[]task.Comment]
	Session  Reducer[task.Session]
}

// DefaultReducers returns the reducers of the current release: tasks have
// transition logic, every other collection is static.
func DefaultReducers() Reducers {
	return Reducers{
		Tasks: task.Reduce,
	}
}

// Combine builds the root reducer that applies each collection's reducer to
// its own slice of the state and reassembles the aggregate.
func Combine(r Reducers) RootReducer {
	tasks := orStatic(r.Tasks)
	groups := orStatic(r.Groups)
	users := orStatic(r.Users)
	comments := orStatic(r.Comments)
	session := orStatic(r.Session)

	return func(st task.State, a action.Action) task.State {
		return task.State{
			Tasks:    tasks(st.Tasks, a),
			Groups:   groups(st.Groups, a),
			Users:    users(st.Users, a),
			Comments: comments(st.Comments, a),
			Session:  session(st.Session, a),
		}
	}
}

// Static is the fallback reducer for collections without transition logic.
func Static[T any](current T, _ action.Action) T {
	return current
}

func orStatic[T any](r Reducer[T]) Reducer[T] {
	if r == nil {
		return Static[T]
	}
	return r
}
