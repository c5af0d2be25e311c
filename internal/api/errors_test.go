package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/scholar-api/internal/api/shared"
	"github.com/phrazzld/scholar-api/internal/domain"
	"github.com/phrazzld/scholar-api/internal/domain/gamification"
	"github.com/phrazzld/scholar-api/internal/domain/srs"
	"github.com/phrazzld/scholar-api/internal/service"
	"github.com/phrazzld/scholar-api/internal/service/auth"
	"github.com/phrazzld/scholar-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"bad credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized},
		{"not owned", fmt.Errorf("get task: %w", service.ErrNotOwned), http.StatusForbidden},
		{"task not found", store.ErrTaskNotFound, http.StatusNotFound},
		{"review item not found", srs.ErrItemNotFound, http.StatusNotFound},
		{"email exists", store.ErrEmailExists, http.StatusConflict},
		{"already completed", service.ErrTaskAlreadyCompleted, http.StatusConflict},
		{"completion outside complete action", service.ErrCompletionRequired, http.StatusBadRequest},
		{"concurrent modification", store.ErrConcurrentModification, http.StatusConflict},
		{"field validation", domain.NewValidationError("limit", "bad", nil), http.StatusBadRequest},
		{"invalid id", domain.ErrInvalidID, http.StatusBadRequest},
		{"not a review item", srs.ErrNotAReviewItem, http.StatusBadRequest},
		{"rating out of range", srs.ErrInvalidDifficultyRating, http.StatusBadRequest},
		{"unknown event", gamification.ErrUnknownEvent, http.StatusBadRequest},
		{"domain input", domain.ErrPasswordTooShort, http.StatusBadRequest},
		{"wrapped service error", service.NewServiceError("CompleteTask", "boom", errors.New("io")), http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "An unexpected error occurred"},
		{"expired token", auth.ErrExpiredToken, "Token expired"},
		{"wrong token type", auth.ErrWrongTokenType, "Invalid token"},
		{"profile missing", store.ErrProfileNotFound, "Profile not found"},
		{"user missing", store.ErrUserNotFound, "User not found"},
		{"generic not found", store.ErrNotFound, "Resource not found"},
		{"domain input", fmt.Errorf("register: %w", domain.ErrInvalidEmail), "Invalid email format"},
		{"field error", domain.NewValidationError("limit", "must be a non-negative integer", nil),
			"Invalid limit: must be a non-negative integer"},
		{"internal detail hidden", errors.New(`pq: relation "tasks" does not exist`), "An unexpected error occurred"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, GetSafeErrorMessage(tc.err))
		})
	}
}

func TestHandleAPIErrorUsesFallbackOnlyForServerErrors(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	HandleAPIError(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("disk full"), "Failed to load")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to load", errorMessage(t, rec))

	rec = httptest.NewRecorder()
	HandleAPIError(rec, httptest.NewRequest(http.MethodGet, "/", nil), store.ErrTaskNotFound, "Failed to load")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Task not found", errorMessage(t, rec))
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := shared.ValidateRequest(&CreateTaskRequest{Subject: "Math", Priority: "whenever"})
	require.Error(t, err)
	assert.Equal(t, "Invalid Priority: invalid value", SanitizeValidationError(err))
	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("other")))
}
