package idalloc

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// UUID mints time-ordered version 7 UUIDs.
type UUID struct {
	prefix string
}

// NewUUID returns a UUID allocator.
func NewUUID(prefix string) *UUID {
	return &UUID{prefix: prefix}
}

// Allocate implements Allocator.
func (u *UUID) Allocate(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("mint uuid: %w", err)
	}
	return u.prefix + id.String(), nil
}
