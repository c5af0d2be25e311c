package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/scholar-api/internal/api/shared"
	"github.com/phrazzld/scholar-api/internal/platform/logger"
	"github.com/phrazzld/scholar-api/internal/service"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	users  service.UserService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(users service.UserService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		users:  users,
		logger: logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("user registered",
		slog.String("user_id", result.User.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, authResponse(result))
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		status := MapErrorToStatusCode(err)
		var opts []shared.ResponseOption
		if status == http.StatusUnauthorized {
			opts = append(opts, shared.WithElevatedLogLevel())
		}
		message := GetSafeErrorMessage(err)
		if status == http.StatusInternalServerError {
			message = "Failed to authenticate user"
		}
		shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, authResponse(result))
}

func authResponse(result *service.AuthResult) AuthResponse {
	return AuthResponse{
		UserID:    result.User.ID,
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt.UTC().Format(time.RFC3339),
	}
}
