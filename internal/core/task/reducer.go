package task

import "github.com/hay-kot/organizer/internal/core/action"

// PlaceholderName is the name given to a freshly committed task.
func PlaceholderName(id string) string {
	return "New task.. " + id
}

// Reduce returns the task collection that results from applying a to tasks.
//
// The input slice and the tasks it points to are never modified. When a does
// not affect the collection (foreign tag, unknown task id) the input slice is
// returned as is, so callers can detect "no change" by identity.
func Reduce(tasks []*Task, a action.Action) []*Task {
	switch a := a.(type) {
	case action.CreateTask:
		next := make([]*Task, len(tasks), len(tasks)+1)
		copy(next, tasks)
		return append(next, &Task{
			ID:         a.TaskID,
			Name:       PlaceholderName(a.TaskID),
			Group:      a.GroupID,
			Owner:      a.OwnerID,
			IsComplete: false,
		})
	case action.SetTaskComplete:
		return update(tasks, a.TaskID, func(t *Task) { t.IsComplete = a.IsComplete })
	case action.SetTaskName:
		return update(tasks, a.TaskID, func(t *Task) { t.Name = a.Name })
	case action.SetTaskGroup:
		return update(tasks, a.TaskID, func(t *Task) { t.Group = a.GroupID })
	default:
		return tasks
	}
}

// update replaces the task with the given id by a modified copy. Every other
// element keeps its pointer.
func update(tasks []*Task, id string, mutate func(*Task)) []*Task {
	i := indexOf(tasks, id)
	if i < 0 {
		return tasks
	}

	cp := *tasks[i]
	mutate(&cp)

	next := make([]*Task, len(tasks))
	copy(next, tasks)
	next[i] = &cp
	return next
}

func indexOf(tasks []*Task, id string) int {
	for i, t := range tasks {
		if t != nil && t.ID == id {
			return i
		}
	}
	return -1
}
