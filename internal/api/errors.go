package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/scholar-api/internal/api/shared"
	"github.com/phrazzld/scholar-api/internal/domain"
	"github.com/phrazzld/scholar-api/internal/domain/gamification"
	"github.com/phrazzld/scholar-api/internal/domain/srs"
	"github.com/phrazzld/scholar-api/internal/service"
	"github.com/phrazzld/scholar-api/internal/service/auth"
	"github.com/phrazzld/scholar-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// exposing the errors themselves.
func MapErrorToStatusCode(err error) int {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrNotOwned):
		return http.StatusForbidden

	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, srs.ErrItemNotFound):
		return http.StatusNotFound

	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, service.ErrTaskAlreadyCompleted),
		errors.Is(err, store.ErrConcurrentModification):
		return http.StatusConflict

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, srs.ErrNotAReviewItem),
		errors.Is(err, srs.ErrInvalidDifficultyRating),
		errors.Is(err, service.ErrCompletionRequired),
		errors.Is(err, gamification.ErrUnknownEvent),
		errors.As(err, &verrs),
		isDomainInputError(err):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// domainInputErrors are validation sentinels whose messages are safe to
// show to the client verbatim.
var domainInputErrors = []error{
	domain.ErrEmptyEmail,
	domain.ErrInvalidEmail,
	domain.ErrPasswordTooShort,
	domain.ErrPasswordTooLong,
	domain.ErrEmptyPassword,
	domain.ErrEmptyTaskSubject,
	domain.ErrTaskSubjectTooLong,
	domain.ErrInvalidTaskPriority,
	domain.ErrInvalidTaskStatus,
	domain.ErrDifficultyRatingOutOfRange,
}

func isDomainInputError(err error) bool {
	for _, target := range domainInputErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// GetSafeErrorMessage returns a client-facing message for err that never
// includes internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	for _, target := range domainInputErrors {
		if errors.Is(err, target) {
			return capitalize(target.Error())
		}
	}

	var verrs validator.ValidationErrors
	var fieldErr *domain.ValidationError
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, domain.ErrUnauthorized):
		return "Authentication required"

	case errors.Is(err, service.ErrNotOwned):
		return "You do not have access to this resource"

	case errors.Is(err, store.ErrTaskNotFound), errors.Is(err, srs.ErrItemNotFound):
		return "Task not found"
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrProfileNotFound):
		return "Profile not found"
	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"
	case errors.Is(err, service.ErrTaskAlreadyCompleted):
		return "Task is already completed"
	case errors.Is(err, service.ErrCompletionRequired):
		return "Use the complete action to complete a task"
	case errors.Is(err, store.ErrConcurrentModification):
		return "The resource was modified concurrently, please retry"

	case errors.Is(err, srs.ErrNotAReviewItem):
		return "Task is not a review task"
	case errors.Is(err, srs.ErrInvalidDifficultyRating):
		return "Difficulty rating must be between 1 and 5"
	case errors.Is(err, gamification.ErrUnknownEvent):
		return "Unknown activity type"
	case errors.As(err, &verrs):
		return SanitizeValidationError(err)
	case errors.As(err, &fieldErr):
		return fmt.Sprintf("Invalid %s: %s", fieldErr.Field, fieldErr.Message)
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"
	case errors.Is(err, domain.ErrValidation), errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the status and safe message for err. fallback
// replaces the generic message of unmapped (500) errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// SanitizeValidationError turns validator field errors into a short message
// naming the first offending field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}
	fe := verrs[0]
	return fmt.Sprintf("Invalid %s: %s", fe.Field(), validationTagMessage(fe.Tag()))
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min", "gte", "gt":
		return "too small"
	case "max", "lte", "lt":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
