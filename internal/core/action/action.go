// Package action defines the closed vocabulary of state mutation intents.
//
// Actions are plain data records. They are built by the creator functions in
// this package, dispatched through the store, observed by middleware and
// consumed by zero or more reducers. Nothing retains them afterwards.
package action

// Action is a single mutation intent. The interface is sealed: only the
// variants declared in this package satisfy it. Pointers to a variant also
// satisfy it; Normalize turns them back into values, and the store does so
// before dispatching, so a type switch over values is exhaustive apart from
// its default arm.
type Action interface {
	Type() Type
	sealed()
}

// CreateTaskRequest asks for a new task in a group. The task id is not known
// yet; it is minted by the effect layer, which then commits CreateTask.
type CreateTaskRequest struct {
	GroupID string `json:"groupId"`
	OwnerID string `json:"ownerId,omitempty"` // empty = the session user

	// RequestID correlates the request with its outcome. Optional.
	RequestID string `json:"requestId,omitempty"`
}

// CreateTask commits a task whose id has already been allocated.
type CreateTask struct {
	TaskID  string `json:"taskId"`
	GroupID string `json:"groupId"`
	OwnerID string `json:"ownerId"`

	RequestID string `json:"requestId,omitempty"` // echoed from the request
}

// CreateTaskFailed reports that a CreateTaskRequest could not be committed.
type CreateTaskFailed struct {
	GroupID string `json:"groupId"`
	Reason  string `json:"reason"`

	RequestID string `json:"requestId,omitempty"` // echoed from the request
}

// SetTaskComplete marks a task complete or open.
type SetTaskComplete struct {
	TaskID     string `json:"taskId"`
	IsComplete bool   `json:"isComplete"`
}

// SetTaskName renames a task.
type SetTaskName struct {
	TaskID string `json:"taskId"`
	Name   string `json:"name"`
}

// SetTaskGroup moves a task to another group.
type SetTaskGroup struct {
	TaskID  string `json:"taskId"`
	GroupID string `json:"groupId"`
}

// Unknown carries an action whose tag is outside the vocabulary. It is not an
// error: other collections may learn to handle the tag in a later release.
type Unknown struct {
	Tag     Type           `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

func (CreateTaskRequest) Type() Type { return TypeCreateTaskRequest }
func (CreateTask) Type() Type        { return TypeCreateTask }
func (CreateTaskFailed) Type() Type  { return TypeCreateTaskFailed }
func (SetTaskComplete) Type() Type   { return TypeSetTaskComplete }
func (SetTaskName) Type() Type       { return TypeSetTaskName }
func (SetTaskGroup) Type() Type      { return TypeSetTaskGroup }
func (u Unknown) Type() Type         { return u.Tag }

func (CreateTaskRequest) sealed() {}
func (CreateTask) sealed()        {}
func (CreateTaskFailed) sealed()  {}
func (SetTaskComplete) sealed()   {}
func (SetTaskName) sealed()       {}
func (SetTaskGroup) sealed()      {}
func (Unknown) sealed()           {}

// Normalize returns a with any pointer variant replaced by its value. A nil
// action or nil pointer yields nil.
func Normalize(a Action) Action {
	switch v := a.(type) {
	case *CreateTaskRequest:
		return deref(v)
	case *CreateTask:
		return deref(v)
	case *CreateTaskFailed:
		return deref(v)
	case *SetTaskComplete:
		return deref(v)
	case *SetTaskName:
		return deref(v)
	case *SetTaskGroup:
		return deref(v)
	case *Unknown:
		return deref(v)
	default:
		return a
	}
}

func deref[T Action](p *T) Action {
	if p == nil {
		return nil
	}
	return *p
}

// RequestTaskCreation builds the intent to create a task in groupID.
func RequestTaskCreation(groupID string) CreateTaskRequest {
	return CreateTaskRequest{GroupID: groupID}
}

// CommitTask builds the commit for a task with an allocated id.
func CommitTask(taskID, groupID, ownerID string) CreateTask {
	return CreateTask{TaskID: taskID, GroupID: groupID, OwnerID: ownerID}
}

// TaskCreationFailed builds the failure report for a request in groupID.
func TaskCreationFailed(groupID string, err error) CreateTaskFailed {
	reason := "unknown error"
	if err != nil {
		reason = err.Error()
	}
	return CreateTaskFailed{GroupID: groupID, Reason: reason}
}

// SetTaskCompletion builds a completion toggle.
func SetTaskCompletion(taskID string, isComplete bool) SetTaskComplete {
	return SetTaskComplete{TaskID: taskID, IsComplete: isComplete}
}

// RenameTask builds a rename.
func RenameTask(taskID, name string) SetTaskName {
	return SetTaskName{TaskID: taskID, Name: name}
}

// MoveTask builds a group reassignment.
func MoveTask(taskID, groupID string) SetTaskGroup {
	return SetTaskGroup{TaskID: taskID, GroupID: groupID}
}

// TaskID returns the id of the task an action targets. Requests and failure
// reports target no task yet and return false.
func TaskID(a Action) (string, bool) {
	switch a := a.(type) {
	case CreateTask:
		return a.TaskID, true
	case SetTaskComplete:
		return a.TaskID, true
	case SetTaskName:
		return a.TaskID, true
	case SetTaskGroup:
		return a.TaskID, true
	default:
		return "", false
	}
}
