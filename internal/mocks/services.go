package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scholar-api/internal/domain"
	"github.com/phrazzld/scholar-api/internal/domain/gamification"
	"github.com/phrazzld/scholar-api/internal/domain/srs"
	"github.com/phrazzld/scholar-api/internal/service"
	"github.com/phrazzld/scholar-api/internal/store"
)

// MockUserService implements service.UserService for testing
type MockUserService struct {
	RegisterFn func(ctx context.Context, email, password string) (*service.AuthResult, error)
	LoginFn    func(ctx context.Context, email, password string) (*service.AuthResult, error)
	GetUserFn  func(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	Result *service.AuthResult
	User   *domain.User
	Err    error
}

var _ service.UserService = (*MockUserService)(nil)

func (m *MockUserService) Register(ctx context.Context, email, password string) (*service.AuthResult, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, email, password)
	}
	return m.Result, m.Err
}

func (m *MockUserService) Login(ctx context.Context, email, password string) (*service.AuthResult, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, email, password)
	}
	return m.Result, m.Err
}

func (m *MockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.GetUserFn != nil {
		return m.GetUserFn(ctx, userID)
	}
	return m.User, m.Err
}

// MockTaskService implements service.TaskService for testing
type MockTaskService struct {
	CreateTaskFn   func(ctx context.Context, userID uuid.UUID, input service.CreateTaskInput) (*domain.Task, error)
	GetTaskFn      func(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)
	ListTasksFn    func(ctx context.Context, userID uuid.UUID, filter store.TaskFilter) ([]*domain.Task, error)
	UpdateTaskFn   func(ctx context.Context, userID, taskID uuid.UUID, input service.UpdateTaskInput) (*domain.Task, error)
	CompleteTaskFn func(ctx context.Context, userID, taskID uuid.UUID) (*service.TaskCompletion, error)
	DeleteTaskFn   func(ctx context.Context, userID, taskID uuid.UUID) error
	TaskStatsFn    func(ctx context.Context, userID uuid.UUID) (*store.TaskCounts, error)

	Task       *domain.Task
	Tasks      []*domain.Task
	Completion *service.TaskCompletion
	Counts     *store.TaskCounts
	Err        error
}

var _ service.TaskService = (*MockTaskService)(nil)

func (m *MockTaskService) CreateTask(
	ctx context.Context,
	userID uuid.UUID,
	input service.CreateTaskInput,
) (*domain.Task, error) {
	if m.CreateTaskFn != nil {
		return m.CreateTaskFn(ctx, userID, input)
	}
	return m.Task, m.Err
}

func (m *MockTaskService) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	if m.GetTaskFn != nil {
		return m.GetTaskFn(ctx, userID, taskID)
	}
	return m.Task, m.Err
}

func (m *MockTaskService) ListTasks(
	ctx context.Context,
	userID uuid.UUID,
	filter store.TaskFilter,
) ([]*domain.Task, error) {
	if m.ListTasksFn != nil {
		return m.ListTasksFn(ctx, userID, filter)
	}
	return m.Tasks, m.Err
}

func (m *MockTaskService) UpdateTask(
	ctx context.Context,
	userID, taskID uuid.UUID,
	input service.UpdateTaskInput,
) (*domain.Task, error) {
	if m.UpdateTaskFn != nil {
		return m.UpdateTaskFn(ctx, userID, taskID, input)
	}
	return m.Task, m.Err
}

func (m *MockTaskService) CompleteTask(ctx context.Context, userID, taskID uuid.UUID) (*service.TaskCompletion, error) {
	if m.CompleteTaskFn != nil {
		return m.CompleteTaskFn(ctx, userID, taskID)
	}
	return m.Completion, m.Err
}

func (m *MockTaskService) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	if m.DeleteTaskFn != nil {
		return m.DeleteTaskFn(ctx, userID, taskID)
	}
	return m.Err
}

func (m *MockTaskService) TaskStats(ctx context.Context, userID uuid.UUID) (*store.TaskCounts, error) {
	if m.TaskStatsFn != nil {
		return m.TaskStatsFn(ctx, userID)
	}
	return m.Counts, m.Err
}

// MockReviewService implements service.ReviewService for testing
type MockReviewService struct {
	CompleteReviewFn func(ctx context.Context, userID, taskID uuid.UUID, rating *int) (*srs.ReviewResult, error)
	ListDueFn        func(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	Result *srs.ReviewResult
	Due    []*domain.Task
	Err    error
}

var _ service.ReviewService = (*MockReviewService)(nil)

func (m *MockReviewService) CompleteReview(
	ctx context.Context,
	userID, taskID uuid.UUID,
	rating *int,
) (*srs.ReviewResult, error) {
	if m.CompleteReviewFn != nil {
		return m.CompleteReviewFn(ctx, userID, taskID, rating)
	}
	return m.Result, m.Err
}

func (m *MockReviewService) ListDue(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	if m.ListDueFn != nil {
		return m.ListDueFn(ctx, userID)
	}
	return m.Due, m.Err
}

// MockGamificationService implements service.GamificationService for testing
type MockGamificationService struct {
	GetProfileFn     func(ctx context.Context, userID uuid.UUID) (*service.ProfileSummary, error)
	RecordEventFn    func(ctx context.Context, userID uuid.UUID, event gamification.Event) (*gamification.Outcome, error)
	LeaderboardFn    func(ctx context.Context, limit int) ([]service.LeaderboardEntry, error)
	RecentActivityFn func(ctx context.Context, userID uuid.UUID, limit int) ([]*store.ActivityEntry, error)

	Summary  *service.ProfileSummary
	Outcome  *gamification.Outcome
	Entries  []service.LeaderboardEntry
	Activity []*store.ActivityEntry
	Err      error
}

var _ service.GamificationService = (*MockGamificationService)(nil)

func (m *MockGamificationService) GetProfile(ctx context.Context, userID uuid.UUID) (*service.ProfileSummary, error) {
	if m.GetProfileFn != nil {
		return m.GetProfileFn(ctx, userID)
	}
	return m.Summary, m.Err
}

func (m *MockGamificationService) RecordEvent(
	ctx context.Context,
	userID uuid.UUID,
	event gamification.Event,
) (*gamification.Outcome, error) {
	if m.RecordEventFn != nil {
		return m.RecordEventFn(ctx, userID, event)
	}
	return m.Outcome, m.Err
}

// RecordEventTx is not used by handlers; it delegates to RecordEvent.
func (m *MockGamificationService) RecordEventTx(
	ctx context.Context,
	_ *sql.Tx,
	userID uuid.UUID,
	event gamification.Event,
	_ time.Time,
) (*gamification.Outcome, error) {
	return m.RecordEvent(ctx, userID, event)
}

func (m *MockGamificationService) PublishOutcome(context.Context, uuid.UUID, *gamification.Outcome, time.Time) {
}

func (m *MockGamificationService) Leaderboard(ctx context.Context, limit int) ([]service.LeaderboardEntry, error) {
	if m.LeaderboardFn != nil {
		return m.LeaderboardFn(ctx, limit)
	}
	return m.Entries, m.Err
}

func (m *MockGamificationService) RecentActivity(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*store.ActivityEntry, error) {
	if m.RecentActivityFn != nil {
		return m.RecentActivityFn(ctx, userID, limit)
	}
	return m.Activity, m.Err
}
