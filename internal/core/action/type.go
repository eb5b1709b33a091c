package action

// Type tags an action with its place in the vocabulary. The set of known tags
// is closed per release; actions carrying any other tag are represented by
// Unknown and pass through every reducer unchanged.
type Type string

const (
	TypeCreateTaskRequest Type = "CREATE_TASK_REQUEST"
	TypeCreateTask        Type = "CREATE_TASK"
	TypeCreateTaskFailed  Type = "CREATE_TASK_FAILED"
	TypeSetTaskComplete   Type = "SET_TASK_COMPLETE"
	TypeSetTaskName       Type = "SET_TASK_NAME"
	TypeSetTaskGroup      Type = "SET_TASK_GROUP"
)

// knownTypes lists every tag the current release understands.
var knownTypes = map[Type]bool{
	TypeCreateTaskRequest: true,
	TypeCreateTask:        true,
	TypeCreateTaskFailed:  true,
	TypeSetTaskComplete:   true,
	TypeSetTaskName:       true,
	TypeSetTaskGroup:      true,
}

// IsKnown reports whether t belongs to the closed vocabulary.
func (t Type) IsKnown() bool {
	return knownTypes[t]
}

func (t Type) String() string {
	return string(t)
}
