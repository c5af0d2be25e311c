package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scholar-api/internal/domain"
	"github.com/phrazzld/scholar-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testPassword = "correct-horse-battery"

func newUserService(t *testing.T) (*userServiceImpl, *MockUserStore, *MockJWTService, *MockPasswordVerifier) {
	t.Helper()
	users := &MockUserStore{}
	tokens := &MockJWTService{}
	verifier := &MockPasswordVerifier{}

	svc, err := NewUserService(users, tokens, verifier, newTestLogger())
	require.NoError(t, err)
	impl := svc.(*userServiceImpl)
	impl.clock = fixedClock

	t.Cleanup(func() {
		users.AssertExpectations(t)
		tokens.AssertExpectations(t)
		verifier.AssertExpectations(t)
	})
	return impl, users, tokens, verifier
}

func TestNewUserService_NilDependencies(t *testing.T) {
	t.Parallel()

	_, err := NewUserService(nil, &MockJWTService{}, &MockPasswordVerifier{}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = NewUserService(&MockUserStore{}, nil, &MockPasswordVerifier{}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = NewUserService(&MockUserStore{}, &MockJWTService{}, nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUserService_Register(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		svc, users, tokens, _ := newUserService(t)
		users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.Email == "ada@example.com" && u.Password == testPassword
		})).Return(nil).Once()
		tokens.On("GenerateToken", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return("signed.jwt.token", nil).Once()

		result, err := svc.Register(context.Background(), " Ada@Example.com ", testPassword)

		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", result.User.Email)
		assert.Equal(t, "signed.jwt.token", result.Token)
		assert.Equal(t, testNow.Add(time.Hour), result.ExpiresAt)
	})

	t.Run("email taken", func(t *testing.T) {
		t.Parallel()
		svc, users, _, _ := newUserService(t)
		users.On("Create", mock.Anything, mock.Anything).Return(store.ErrEmailExists).Once()

		_, err := svc.Register(context.Background(), "ada@example.com", testPassword)

		assert.ErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("invalid input", func(t *testing.T) {
		t.Parallel()
		svc, _, _, _ := newUserService(t)

		_, err := svc.Register(context.Background(), "not-an-email", testPassword)
		assert.ErrorIs(t, err, domain.ErrInvalidEmail)

		_, err = svc.Register(context.Background(), "ada@example.com", "short")
		assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
	})

	t.Run("token failure", func(t *testing.T) {
		t.Parallel()
		svc, users, tokens, _ := newUserService(t)
		users.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
		tokens.On("GenerateToken", mock.Anything, mock.Anything).Return("", errors.New("signing failed")).Once()

		_, err := svc.Register(context.Background(), "ada@example.com", testPassword)

		var svcErr *ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "register", svcErr.Operation)
	})
}

func TestUserService_Login(t *testing.T) {
	t.Parallel()

	stored := &domain.User{
		ID:             uuid.New(),
		Email:          "ada@example.com",
		HashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
	}

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		svc, users, tokens, verifier := newUserService(t)
		users.On("GetByEmail", mock.Anything, "ada@example.com").Return(stored, nil).Once()
		verifier.On("Compare", stored.HashedPassword, testPassword).Return(nil).Once()
		tokens.On("GenerateToken", mock.Anything, stored.ID).Return("tok", nil).Once()

		result, err := svc.Login(context.Background(), "ada@example.com", testPassword)

		require.NoError(t, err)
		assert.Same(t, stored, result.User)
		assert.Equal(t, "tok", result.Token)
	})

	t.Run("unknown email", func(t *testing.T) {
		t.Parallel()
		svc, users, _, _ := newUserService(t)
		users.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, store.ErrUserNotFound).Once()

		_, err := svc.Login(context.Background(), "nobody@example.com", testPassword)

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		svc, users, _, verifier := newUserService(t)
		users.On("GetByEmail", mock.Anything, "ada@example.com").Return(stored, nil).Once()
		verifier.On("Compare", stored.HashedPassword, "guess").Return(errors.New("mismatch")).Once()

		_, err := svc.Login(context.Background(), "ada@example.com", "guess")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		svc, users, _, _ := newUserService(t)
		users.On("GetByEmail", mock.Anything, "ada@example.com").Return(nil, errors.New("timeout")).Once()

		_, err := svc.Login(context.Background(), "ada@example.com", testPassword)

		assert.NotErrorIs(t, err, ErrInvalidCredentials)
		var svcErr *ServiceError
		assert.ErrorAs(t, err, &svcErr)
	})
}

func TestUserService_GetUser(t *testing.T) {
	t.Parallel()

	svc, users, _, _ := newUserService(t)
	user := &domain.User{ID: uuid.New(), Email: "ada@example.com"}
	missing := uuid.New()
	users.On("GetByID", mock.Anything, user.ID).Return(user, nil).Once()
	users.On("GetByID", mock.Anything, missing).Return(nil, store.ErrUserNotFound).Once()

	got, err := svc.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Same(t, user, got)

	_, err = svc.GetUser(context.Background(), missing)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}
