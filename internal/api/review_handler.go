package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/phrazzld/scholar-api/internal/api/shared"
	"github.com/phrazzld/scholar-api/internal/platform/logger"
	"github.com/phrazzld/scholar-api/internal/service"
)

// ReviewHandler serves the /reviews routes.
type ReviewHandler struct {
	reviews service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a ReviewHandler.
func NewReviewHandler(reviews service.ReviewService, logger *slog.Logger) *ReviewHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ReviewHandler")
	}
	return &ReviewHandler{
		reviews: reviews,
		logger:  logger.With(slog.String("component", "review_handler")),
	}
}

// ListDue handles GET /reviews/due.
func (h *ReviewHandler) ListDue(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	due, err := h.reviews.ListDue(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list due reviews")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, due)
}

// CompleteReview handles POST /reviews/{id}/complete. The body is optional.
func (h *ReviewHandler) CompleteReview(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req CompleteReviewRequest
	if err := shared.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	result, err := h.reviews.CompleteReview(r.Context(), userID, taskID, req.DifficultyRating)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to complete review")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("review completed",
		slog.String("task_id", taskID.String()),
		slog.Int("days_until_next_review", result.DaysUntilNextReview))
	shared.RespondWithJSON(w, r, http.StatusOK, CompleteReviewResponse{
		Task:                result.Item,
		DaysUntilNextReview: result.DaysUntilNextReview,
	})
}
