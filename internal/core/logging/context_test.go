package logging

import (
	"context"
	"testing"
)

func TestWithWatcher(t *testing.T) {
	ctx := WithWatcher(context.Background(), "create-task")

	if got := GetWatcher(ctx); got != "create-task" {
		t.Errorf("GetWatcher() = %q, want %q", got, "create-task")
	}
}

func TestWithAction(t *testing.T) {
	ctx := WithAction(context.Background(), "CREATE_TASK_REQUEST")

	if got := GetAction(ctx); got != "CREATE_TASK_REQUEST" {
		t.Errorf("GetAction() = %q, want %q", got, "CREATE_TASK_REQUEST")
	}
}

func TestGetters_NotPresent(t *testing.T) {
	ctx := context.Background()

	if got := GetWatcher(ctx); got != "" {
		t.Errorf("GetWatcher() = %q, want empty string", got)
	}

	if got := GetAction(ctx); got != "" {
		t.Errorf("GetAction() = %q, want empty string", got)
	}
}
