package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scholar-api/internal/domain"
	"github.com/phrazzld/scholar-api/internal/platform/logger"
	"github.com/phrazzld/scholar-api/internal/service/auth"
	"github.com/phrazzld/scholar-api/internal/store"
)

// AuthResult is returned by a successful registration or login.
type AuthResult struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// UserService registers users and authenticates them.
type UserService interface {
	// Register creates an account and signs the user in.
	// Returns store.ErrEmailExists when the email is taken.
	Register(ctx context.Context, email, password string) (*AuthResult, error)

	// Login verifies credentials and issues a token.
	// Returns ErrInvalidCredentials on any mismatch.
	Login(ctx context.Context, email, password string) (*AuthResult, error)

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

type userServiceImpl struct {
	users    store.UserStore
	tokens   auth.JWTService
	verifier auth.PasswordVerifier
	clock    func() time.Time
	logger   *slog.Logger
}

var _ UserService = (*userServiceImpl)(nil)

// NewUserService creates a UserService.
// It returns an error if any of the required dependencies are nil.
func NewUserService(
	users store.UserStore,
	tokens auth.JWTService,
	verifier auth.PasswordVerifier,
	logger *slog.Logger,
) (UserService, error) {
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if tokens == nil {
		return nil, domain.NewValidationError("tokens", "cannot be nil", domain.ErrValidation)
	}
	if verifier == nil {
		return nil, domain.NewValidationError("verifier", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &userServiceImpl{
		users:    users,
		tokens:   tokens,
		verifier: verifier,
		clock:    time.Now,
		logger:   logger.With(slog.String("component", "user_service")),
	}, nil
}

// Register implements UserService.Register
func (s *userServiceImpl) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(email, password)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if store.IsDuplicateError(err) {
			return nil, store.ErrEmailExists
		}
		log.Error("failed to create user", slog.String("error", err.Error()))
		return nil, NewServiceError("register", "failed to create user", err)
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	return s.issue(ctx, "register", user)
}

// Login implements UserService.Login
func (s *userServiceImpl) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to look up user", slog.String("error", err.Error()))
		return nil, NewServiceError("login", "failed to look up user", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("password mismatch", slog.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	return s.issue(ctx, "login", user)
}

func (s *userServiceImpl) issue(ctx context.Context, op string, user *domain.User) (*AuthResult, error) {
	token, err := s.tokens.GenerateToken(ctx, user.ID)
	if err != nil {
		return nil, NewServiceError(op, "failed to issue token", err)
	}
	return &AuthResult{
		User:      user,
		Token:     token,
		ExpiresAt: s.clock().UTC().Add(s.tokens.TokenLifetime()),
	}, nil
}

// GetUser implements UserService.GetUser
func (s *userServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		return nil, NewServiceError("get_user", "failed to retrieve user", err)
	}
	return user, nil
}
