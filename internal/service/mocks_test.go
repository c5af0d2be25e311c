package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scholar-api/internal/domain"
	"github.com/phrazzld/scholar-api/internal/domain/gamification"
	"github.com/phrazzld/scholar-api/internal/events"
	"github.com/phrazzld/scholar-api/internal/service/auth"
	"github.com/phrazzld/scholar-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockTaskStore mocks store.TaskStore. WithTx returns the same mock so
// expectations cover transactional calls too.
type MockTaskStore struct {
	mock.Mock
}

func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskStore) ListByUser(ctx context.Context, userID uuid.UUID, filter store.TaskFilter) ([]*domain.Task, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Task), args.Error(1)
}

func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *MockTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTaskStore) CountByUser(ctx context.Context, userID uuid.UUID, now time.Time) (*store.TaskCounts, error) {
	args := m.Called(ctx, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.TaskCounts), args.Error(1)
}

func (m *MockTaskStore) WithTx(*sql.Tx) store.TaskStore {
	return m
}

// MockProfileStore mocks store.ProfileStore.
type MockProfileStore struct {
	mock.Mock
}

func (m *MockProfileStore) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileStore) GetForUpdate(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileStore) Create(ctx context.Context, p *domain.Profile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProfileStore) Update(ctx context.Context, p *domain.Profile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProfileStore) TopByPoints(ctx context.Context, limit int) ([]*domain.Profile, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Profile), args.Error(1)
}

func (m *MockProfileStore) WithTx(*sql.Tx) store.ProfileStore {
	return m
}

// MockActivityStore mocks store.ActivityStore.
type MockActivityStore struct {
	mock.Mock
}

func (m *MockActivityStore) Create(ctx context.Context, entry *store.ActivityEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockActivityStore) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*store.ActivityEntry, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*store.ActivityEntry), args.Error(1)
}

func (m *MockActivityStore) WithTx(*sql.Tx) store.ActivityStore {
	return m
}

// MockUserStore mocks store.UserStore.
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) WithTx(*sql.Tx) store.UserStore {
	return m
}

// MockEventEmitter mocks events.EventEmitter.
type MockEventEmitter struct {
	mock.Mock
}

func (m *MockEventEmitter) EmitEvent(ctx context.Context, event *events.ActivityEvent) error {
	return m.Called(ctx, event).Error(0)
}

// MockGamificationService mocks GamificationService.
type MockGamificationService struct {
	mock.Mock
}

func (m *MockGamificationService) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ProfileSummary), args.Error(1)
}

func (m *MockGamificationService) RecordEvent(
	ctx context.Context,
	userID uuid.UUID,
	event gamification.Event,
) (*gamification.Outcome, error) {
	args := m.Called(ctx, userID, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gamification.Outcome), args.Error(1)
}

func (m *MockGamificationService) RecordEventTx(
	ctx context.Context,
	tx *sql.Tx,
	userID uuid.UUID,
	event gamification.Event,
	now time.Time,
) (*gamification.Outcome, error) {
	args := m.Called(ctx, tx, userID, event, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gamification.Outcome), args.Error(1)
}

func (m *MockGamificationService) PublishOutcome(
	ctx context.Context,
	userID uuid.UUID,
	outcome *gamification.Outcome,
	now time.Time,
) {
	m.Called(ctx, userID, outcome, now)
}

func (m *MockGamificationService) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]LeaderboardEntry), args.Error(1)
}

func (m *MockGamificationService) RecentActivity(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*store.ActivityEntry, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*store.ActivityEntry), args.Error(1)
}

// MockJWTService mocks auth.JWTService.
type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockJWTService) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Claims), args.Error(1)
}

func (m *MockJWTService) TokenLifetime() time.Duration {
	return time.Hour
}

// MockPasswordVerifier mocks auth.PasswordVerifier.
type MockPasswordVerifier struct {
	mock.Mock
}

func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	return m.Called(hashedPassword, password).Error(0)
}
