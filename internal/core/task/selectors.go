package task

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// Find returns the task with the given id.
func Find(st State, id string) (*Task, error) {
	i := indexOf(st.Tasks, id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return st.Tasks[i], nil
}

// ByGroup returns the tasks filed under groupID, in insertion order.
func ByGroup(st State, groupID string) []*Task {
	var out []*Task
	for _, t := range st.Tasks {
		if t != nil && t.Group == groupID {
			out = append(out, t)
		}
	}
	return out
}

// Open drops completed tasks.
func Open(tasks []*Task) []*Task {
	var out []*Task
	for _, t := range tasks {
		if t != nil && !t.IsComplete {
			out = append(out, t)
		}
	}
	return out
}

// Matching returns the tasks whose name matches a doublestar glob
// (e.g. "*release*").
func Matching(tasks []*Task, pattern string) ([]*Task, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}

	var out []*Task
	for _, t := range tasks {
		if t == nil {
			continue
		}
		ok, err := doublestar.Match(pattern, t.Name)
		if err != nil {
			return nil, fmt.Errorf("match %q: %w", pattern, err)
		}
		if ok {
			out = append(out, t)
		}
	}
	return out, nil
}

// GroupName resolves a group id to its display name, falling back to the id
// for dangling references.
func GroupName(st State, groupID string) string {
	for _, g := range st.Groups {
		if g.ID == groupID {
			return g.Name
		}
	}
	return groupID
}

// IDs returns the ids of tasks in order.
func IDs(tasks []*Task) []string {
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		if t != nil {
			ids = append(ids, t.ID)
		}
	}
	return ids
}
