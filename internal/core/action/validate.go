package action

import (
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"
)

// Validate checks that the identifying fields of an action are present.
// Reducers never call it; it guards actions read from outside the process.
// Unknown actions only need a tag. Pointer variants are checked as values.
func Validate(a Action) error {
	switch a := Normalize(a).(type) {
	case nil:
		return ErrMissingType
	case CreateTaskRequest:
		return criterio.ValidateStruct(
			criterio.Run("groupId", a.GroupID, required),
		)
	case CreateTask:
		return criterio.ValidateStruct(
			criterio.Run("taskId", a.TaskID, required),
			criterio.Run("groupId", a.GroupID, required),
			criterio.Run("ownerId", a.OwnerID, required),
		)
	case CreateTaskFailed:
		return criterio.ValidateStruct(
			criterio.Run("groupId", a.GroupID, required),
		)
	case SetTaskComplete:
		return criterio.ValidateStruct(
			criterio.Run("taskId", a.TaskID, required),
		)
	case SetTaskName:
		return criterio.ValidateStruct(
			criterio.Run("taskId", a.TaskID, required),
			criterio.Run("name", a.Name, required),
		)
	case SetTaskGroup:
		return criterio.ValidateStruct(
			criterio.Run("taskId", a.TaskID, required),
			criterio.Run("groupId", a.GroupID, required),
		)
	default:
		if a.Type() == "" {
			return ErrMissingType
		}
		return nil
	}
}

func required(v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("is required")
	}
	return nil
}
