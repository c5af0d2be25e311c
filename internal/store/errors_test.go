package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		notFound  bool
		duplicate bool
	}{
		{name: "nil error", err: nil},
		{name: "generic error", err: errors.New("boom")},
		{name: "ErrNotFound", err: ErrNotFound, notFound: true},
		{name: "ErrTaskNotFound", err: ErrTaskNotFound, notFound: true},
		{name: "wrapped ErrProfileNotFound", err: fmt.Errorf("load: %w", ErrProfileNotFound), notFound: true},
		{name: "ErrUserNotFound in StoreError", err: NewStoreError("user", "get", "lookup", ErrUserNotFound), notFound: true},
		{name: "ErrDuplicate", err: ErrDuplicate, duplicate: true},
		{name: "wrapped ErrEmailExists", err: fmt.Errorf("register: %w", ErrEmailExists), duplicate: true},
		{name: "concurrent modification", err: ErrConcurrentModification},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.notFound, IsNotFoundError(tt.err))
			assert.Equal(t, tt.duplicate, IsDuplicateError(tt.err))
		})
	}
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	wrapped := NewStoreError("profile", "update", "version mismatch", ErrConcurrentModification)
	assert.Equal(t,
		"update operation on profile failed: version mismatch: entity was modified concurrently",
		wrapped.Error())
	assert.ErrorIs(t, wrapped, ErrConcurrentModification)

	bare := NewStoreError("task", "delete", "no rows", nil)
	assert.Equal(t, "delete operation on task failed: no rows", bare.Error())
	assert.Nil(t, bare.Unwrap())
}
