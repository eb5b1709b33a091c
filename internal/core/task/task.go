// Package task defines the records of the task manager and the reducers that
// compute the next task collection from a dispatched action.
package task

import "errors"

// ErrNotFound is returned by lookups for an id that is not in the state.
var ErrNotFound = errors.New("task not found")

// Task is a unit of work owned by a user and filed under a group. Group and
// Owner are weak references: nothing checks that they resolve.
type Task struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Group      string `json:"group" yaml:"group"`
	Owner      string `json:"owner" yaml:"owner"`
	IsComplete bool   `json:"isComplete" yaml:"isComplete"`
}

// Group is a column of tasks (e.g. "To Do").
type Group struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Owner string `json:"owner" yaml:"owner"`
}

// User is a member who can own tasks and groups.
type User struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Comment is a note left by a user on a task.
type Comment struct {
	ID      string `json:"id" yaml:"id"`
	Task    string `json:"task" yaml:"task"`
	Owner   string `json:"owner" yaml:"owner"`
	Content string `json:"content" yaml:"content"`
}

// Session describes who is operating the store.
type Session struct {
	UserID        string `json:"userId" yaml:"userId"`
	Authenticated bool   `json:"authenticated" yaml:"authenticated"`
}

// State is the aggregate of every collection at one point in time. A State
// is never modified after it has been handed out: reducers build new slices
// and leave untouched collections (and tasks) shared with the previous State.
type State struct {
	Tasks    []*Task   `json:"tasks" yaml:"tasks"`
	Groups   []Group   `json:"groups" yaml:"groups"`
	Users    []User    `json:"users" yaml:"users"`
	Comments []Comment `json:"comments" yaml:"comments"`
	Session  Session   `json:"session" yaml:"session"`
}
