package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/scholar-api/internal/domain"
	"github.com/phrazzld/scholar-api/internal/platform/postgres"
	"github.com/phrazzld/scholar-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPostgresUserStore_Create(t *testing.T) {
	t.Parallel()

	t.Run("hashes the password", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		user, err := domain.NewUser("Student@Example.com", "correct-horse-battery")
		require.NoError(t, err)

		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, "student@example.com", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		s := postgres.NewPostgresUserStore(db, nil, bcrypt.MinCost)
		require.NoError(t, s.Create(context.Background(), user))

		assert.Empty(t, user.Password)
		require.NotEmpty(t, user.HashedPassword)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte("correct-horse-battery")))
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		user, err := domain.NewUser("student@example.com", "correct-horse-battery")
		require.NoError(t, err)

		mock.ExpectExec("INSERT INTO users").WillReturnError(newPgError("23505"))

		err = postgres.NewPostgresUserStore(db, nil, bcrypt.MinCost).Create(context.Background(), user)
		assert.ErrorIs(t, err, store.ErrEmailExists)
		assert.ErrorIs(t, err, store.ErrDuplicate)
	})

	t.Run("short password", func(t *testing.T) {
		t.Parallel()
		db, _ := newMockDB(t)
		user := &domain.User{ID: uuid.New(), Email: "student@example.com", Password: "short"}

		err := postgres.NewPostgresUserStore(db, nil, bcrypt.MinCost).Create(context.Background(), user)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
	})
}

func TestPostgresUserStore_Get(t *testing.T) {
	t.Parallel()

	columns := []string{"id", "email", "hashed_password", "created_at", "updated_at"}

	t.Run("by email is case-insensitive", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		id := uuid.New()
		now := time.Now().UTC()

		mock.ExpectQuery(`WHERE LOWER\(email\) = \$1`).
			WithArgs("student@example.com").
			WillReturnRows(sqlmock.NewRows(columns).AddRow(id.String(), "student@example.com", "$2a$04$hash", now, now))

		user, err := postgres.NewPostgresUserStore(db, nil, 0).GetByEmail(context.Background(), " Student@Example.COM ")
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, "$2a$04$hash", user.HashedPassword)
	})

	t.Run("by id not found", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		mock.ExpectQuery(`WHERE id = \$1`).WillReturnError(sql.ErrNoRows)

		_, err := postgres.NewPostgresUserStore(db, nil, 0).GetByID(context.Background(), uuid.New())
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}
