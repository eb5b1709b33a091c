package action

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestType_IsKnown(t *testing.T) {
	assert.True(t, TypeCreateTaskRequest.IsKnown())
	assert.True(t, TypeSetTaskGroup.IsKnown())
	assert.False(t, Type("ARCHIVE_TASK").IsKnown())
	assert.False(t, Type("").IsKnown())
}

func TestCreators(t *testing.T) {
	assert.Equal(t, CreateTaskRequest{GroupID: "G1"}, RequestTaskCreation("G1"))
	assert.Equal(t, CreateTask{TaskID: "T1", GroupID: "G1", OwnerID: "U1"}, CommitTask("T1", "G1", "U1"))
	assert.Equal(t, SetTaskComplete{TaskID: "T1", IsComplete: true}, SetTaskCompletion("T1", true))
	assert.Equal(t, SetTaskName{TaskID: "T1", Name: "Ship it"}, RenameTask("T1", "Ship it"))
	assert.Equal(t, SetTaskGroup{TaskID: "T1", GroupID: "G2"}, MoveTask("T1", "G2"))

	failed := TaskCreationFailed("G1", errors.New("connection refused"))
	assert.Equal(t, "G1", failed.GroupID)
	assert.Equal(t, "connection refused", failed.Reason)
	assert.Equal(t, "unknown error", TaskCreationFailed("G1", nil).Reason)
}

func TestTaskID(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		want   string
		ok     bool
	}{
		{"commit", CommitTask("T1", "G1", "U1"), "T1", true},
		{"complete", SetTaskCompletion("T2", true), "T2", true},
		{"rename", RenameTask("T3", "x"), "T3", true},
		{"move", MoveTask("T4", "G2"), "T4", true},
		{"request", RequestTaskCreation("G1"), "", false},
		{"failure", TaskCreationFailed("G1", nil), "", false},
		{"unknown", Unknown{Tag: "PING"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TaskID(tt.action)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode(t *testing.T) {
	t.Run("known variant", func(t *testing.T) {
		a, err := Decode(Envelope{
			Type:    TypeSetTaskName,
			Payload: json.RawMessage(`{"taskId":"T1","name":"Write docs"}`),
		})
		require.NoError(t, err)
		assert.Equal(t, RenameTask("T1", "Write docs"), a)
	})

	t.Run("empty payload yields zero variant", func(t *testing.T) {
		a, err := Decode(Envelope{Type: TypeCreateTaskRequest})
		require.NoError(t, err)
		assert.Equal(t, CreateTaskRequest{}, a)
	})

	t.Run("unknown tag passes through", func(t *testing.T) {
		a, err := Decode(Envelope{
			Type:    "ADD_COMMENT",
			Payload: json.RawMessage(`{"taskId":"T1","content":"hi"}`),
		})
		require.NoError(t, err)

		u, ok := a.(Unknown)
		require.True(t, ok)
		assert.Equal(t, Type("ADD_COMMENT"), u.Type())
		assert.Equal(t, "hi", u.Payload["content"])
	})

	t.Run("missing type", func(t *testing.T) {
		_, err := Decode(Envelope{})
		require.ErrorIs(t, err, ErrMissingType)
	})

	t.Run("malformed payload", func(t *testing.T) {
		_, err := Decode(Envelope{Type: TypeCreateTask, Payload: json.RawMessage(`{"taskId":1}`)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "CREATE_TASK")
	})
}

func TestEncode(t *testing.T) {
	env, err := Encode(CommitTask("T1", "G1", "U1"))
	require.NoError(t, err)
	assert.Equal(t, TypeCreateTask, env.Type)
	assert.JSONEq(t, `{"taskId":"T1","groupId":"G1","ownerId":"U1"}`, string(env.Payload))

	env, err = Encode(Unknown{Tag: "PING"})
	require.NoError(t, err)
	assert.Equal(t, Type("PING"), env.Type)
	assert.Empty(t, env.Payload)

	_, err = Encode(nil)
	require.ErrorIs(t, err, ErrMissingType)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(RequestTaskCreation("G1")))
	require.NoError(t, Validate(CommitTask("T1", "G1", "U1")))
	require.NoError(t, Validate(Unknown{Tag: "PING"}))

	err := Validate(CommitTask("", "G1", ""))
	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 2)
	assert.Equal(t, "taskId", fieldErrs[0].Field)
	assert.Equal(t, "ownerId", fieldErrs[1].Field)

	require.Error(t, Validate(RenameTask("T1", "  ")))
	require.ErrorIs(t, Validate(nil), ErrMissingType)
	require.ErrorIs(t, Validate(Unknown{}), ErrMissingType)
}

func TestNormalize(t *testing.T) {
	commit := CommitTask("T1", "G1", "U1")
	assert.Equal(t, Action(commit), Normalize(&commit))
	assert.Equal(t, Action(commit), Normalize(commit))

	unknown := Unknown{Tag: "PING"}
	assert.Equal(t, Action(unknown), Normalize(&unknown))

	assert.Nil(t, Normalize(nil))
	assert.Nil(t, Normalize((*SetTaskName)(nil)))
}

func TestValidate_PointerVariants(t *testing.T) {
	err := Validate(&CreateTask{GroupID: "G1"})
	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 2)

	require.NoError(t, Validate(&SetTaskName{TaskID: "T1", Name: "renamed"}))
	require.ErrorIs(t, Validate((*SetTaskGroup)(nil)), ErrMissingType)
}
