package store

import (
	"unsafe"

	"github.com/hay-kot/organizer/internal/core/task"
)

// Changes lists which collections differ by identity between two states.
type Changes struct {
	Tasks    bool
	Groups   bool
	Users    bool
	Comments bool
	Session  bool
}

// Any reports whether at least one collection changed.
func (c Changes) Any() bool {
	return c.Tasks || c.Groups || c.Users || c.Comments || c.Session
}

// Diff compares prev and next by identity. Reducers return their input when
// nothing happened, so identity is enough to detect change without walking
// the collections.
func Diff(prev, next task.State) Changes {
	return Changes{
		Tasks:    !Same(prev.Tasks, next.Tasks),
		Groups:   !Same(prev.Groups, next.Groups),
		Users:    !Same(prev.Users, next.Users),
		Comments: !Same(prev.Comments, next.Comments),
		Session:  prev.Session != next.Session,
	}
}

// Changed reports whether any collection of next differs from prev.
func Changed(prev, next task.State) bool {
	return Diff(prev, next).Any()
}

// Same reports whether a and b are the same slice: same backing array, same
// length.
func Same[T any](a, b []T) bool {
	return len(a) == len(b) && unsafe.SliceData(a) == unsafe.SliceData(b)
}
