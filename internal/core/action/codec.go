package action

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingType is returned when an envelope carries no type tag.
var ErrMissingType = errors.New("action type is required")

// Envelope is the JSON wire shape of an action: a type tag plus the fields of
// the matching variant.
type Envelope struct {
	Type    Type            `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Decode converts an envelope into its Action variant. Tags outside the
// vocabulary decode to Unknown rather than failing.
func Decode(env Envelope) (Action, error) {
	switch env.Type {
	case "":
		return nil, ErrMissingType
	case TypeCreateTaskRequest:
		return decodeAs[CreateTaskRequest](env.Payload)
	case TypeCreateTask:
		return decodeAs[CreateTask](env.Payload)
	case TypeCreateTaskFailed:
		return decodeAs[CreateTaskFailed](env.Payload)
	case TypeSetTaskComplete:
		return decodeAs[SetTaskComplete](env.Payload)
	case TypeSetTaskName:
		return decodeAs[SetTaskName](env.Payload)
	case TypeSetTaskGroup:
		return decodeAs[SetTaskGroup](env.Payload)
	default:
		u := Unknown{Tag: env.Type}
		if len(env.Payload) > 0 {
			if err := json.Unmarshal(env.Payload, &u.Payload); err != nil {
				return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
			}
		}
		return u, nil
	}
}

// Encode converts an action into its envelope.
func Encode(a Action) (Envelope, error) {
	if a == nil {
		return Envelope{}, ErrMissingType
	}

	var payload any = a
	if u, ok := a.(Unknown); ok {
		if len(u.Payload) == 0 {
			return Envelope{Type: u.Tag}, nil
		}
		payload = u.Payload
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s payload: %w", a.Type(), err)
	}

	return Envelope{Type: a.Type(), Payload: raw}, nil
}

func decodeAs[T Action](raw json.RawMessage) (Action, error) {
	var v T
	if len(raw) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", v.Type(), err)
	}
	return v, nil
}
