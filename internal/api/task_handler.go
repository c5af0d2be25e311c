package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/scholar-api/internal/api/shared"
	"github.com/phrazzld/scholar-api/internal/domain"
	"github.com/phrazzld/scholar-api/internal/platform/logger"
	"github.com/phrazzld/scholar-api/internal/service"
	"github.com/phrazzld/scholar-api/internal/store"
)

// TaskHandler serves the /tasks routes.
type TaskHandler struct {
	tasks  service.TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a TaskHandler.
func NewTaskHandler(tasks service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}
	return &TaskHandler{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "task_handler")),
	}
}

// CreateTask handles POST /tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.tasks.CreateTask(r.Context(), userID, service.CreateTaskInput{
		Subject:      req.Subject,
		Description:  req.Description,
		Priority:     domain.Priority(req.Priority),
		DueAt:        req.DueAt,
		IsReviewTask: req.IsReviewTask,
		Status:       domain.TaskStatus(req.Status),
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, task)
}

// ListTasks handles GET /tasks with optional ?status= and ?review=true filters.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	filter := store.TaskFilter{
		Status:     domain.TaskStatus(query.Get("status")),
		ReviewOnly: query.Get("review") == "true",
	}

	tasks, err := h.tasks.ListTasks(r.Context(), userID, filter)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}

// GetTask handles GET /tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// UpdateTask handles PUT /tasks/{id}.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.tasks.UpdateTask(r.Context(), userID, taskID, req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// CompleteTask handles POST /tasks/{id}/complete.
func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	completion, err := h.tasks.CompleteTask(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to complete task")
		return
	}

	resp := CompleteTaskResponse{Task: completion.Task, NewAchievements: []domain.Achievement{}}
	if o := completion.Outcome; o != nil {
		out := newOutcomeResponse(o)
		resp.PointsAwarded = out.PointsAwarded
		resp.LeveledUp = out.LeveledUp
		resp.Level = out.Level
		resp.NewAchievements = out.NewAchievements
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("task completed",
		slog.String("task_id", taskID.String()),
		slog.Int("points_awarded", resp.PointsAwarded))
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// DeleteTask handles DELETE /tasks/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.tasks.DeleteTask(r.Context(), userID, taskID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// TaskStats handles GET /tasks/stats.
func (h *TaskHandler) TaskStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	counts, err := h.tasks.TaskStats(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load task statistics")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, counts)
}
