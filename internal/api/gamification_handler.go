package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/scholar-api/internal/api/shared"
	"github.com/phrazzld/scholar-api/internal/domain/gamification"
	"github.com/phrazzld/scholar-api/internal/platform/logger"
	"github.com/phrazzld/scholar-api/internal/service"
)

// GamificationHandler serves the /gamification routes.
type GamificationHandler struct {
	gamification service.GamificationService
	logger       *slog.Logger
}

// NewGamificationHandler creates a GamificationHandler.
func NewGamificationHandler(svc service.GamificationService, logger *slog.Logger) *GamificationHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for GamificationHandler")
	}
	return &GamificationHandler{
		gamification: svc,
		logger:       logger.With(slog.String("component", "gamification_handler")),
	}
}

// GetProfile handles GET /gamification/profile.
func (h *GamificationHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	summary, err := h.gamification.GetProfile(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load profile")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}

// CheckIn handles POST /gamification/check-in. A second check-in on the
// same day succeeds without awarding anything.
func (h *GamificationHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	outcome, err := h.gamification.RecordEvent(r.Context(), userID, gamification.NewDailyCheckInEvent())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to check in")
		return
	}

	resp := newOutcomeResponse(outcome)
	resp.Message = checkInMessage(outcome)
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

func checkInMessage(o *gamification.Outcome) string {
	if o.AlreadyCheckedIn {
		return "Already checked in today"
	}
	streak := 0
	if o.Profile != nil {
		streak = o.Profile.StreakDays
	}
	if streak == 1 {
		return "Checked in! Your streak starts today"
	}
	return fmt.Sprintf("Checked in! %d-day streak", streak)
}

// CompletePomodoro handles POST /gamification/pomodoro.
func (h *GamificationHandler) CompletePomodoro(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req PomodoroRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	event := gamification.NewPomodoroCompletedEvent(req.DurationMinutes, gamification.SessionType(req.SessionType))
	h.record(w, r, userID, event)
}

// ReviewFlashcards handles POST /gamification/flashcards.
func (h *GamificationHandler) ReviewFlashcards(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req FlashcardsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	h.record(w, r, userID, gamification.NewFlashcardReviewedEvent(req.Count))
}

func (h *GamificationHandler) record(w http.ResponseWriter, r *http.Request, userID uuid.UUID, event gamification.Event) {
	outcome, err := h.gamification.RecordEvent(r.Context(), userID, event)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to record activity")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("activity recorded",
		slog.String("user_id", userID.String()),
		slog.String("event", string(event.Type)),
		slog.Int("points_awarded", outcome.PointsAwarded))
	shared.RespondWithJSON(w, r, http.StatusOK, newOutcomeResponse(outcome))
}

// Leaderboard handles GET /gamification/leaderboard?limit=.
func (h *GamificationHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	entries, err := h.gamification.Leaderboard(r.Context(), limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load leaderboard")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, entries)
}

// RecentActivity handles GET /gamification/activity?limit=.
func (h *GamificationHandler) RecentActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	limit, err := queryLimit(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	entries, err := h.gamification.RecentActivity(r.Context(), userID, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load activity")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, entries)
}
