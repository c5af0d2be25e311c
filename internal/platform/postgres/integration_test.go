//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scholar-api/internal/domain"
	"github.com/phrazzld/scholar-api/internal/platform/postgres"
	"github.com/phrazzld/scholar-api/internal/store"
	"github.com/phrazzld/scholar-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func createUser(t *testing.T, tx *sql.Tx) *domain.User {
	t.Helper()

	user, err := domain.NewUser(uuid.NewString()+"@example.com", "correct-horse-battery")
	require.NoError(t, err)
	require.NoError(t, postgres.NewPostgresUserStore(tx, quietLogger(), bcrypt.MinCost).Create(context.Background(), user))
	return user
}

func TestUserStoreIntegration(t *testing.T) {
	t.Parallel()
	db := testdb.Open(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		users := postgres.NewPostgresUserStore(tx, quietLogger(), bcrypt.MinCost)

		user, err := domain.NewUser(uuid.NewString()+"@Example.com", "correct-horse-battery")
		require.NoError(t, err)
		require.NoError(t, users.Create(ctx, user))
		assert.Empty(t, user.Password)

		got, err := users.GetByEmail(ctx, user.Email)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(got.HashedPassword), []byte("correct-horse-battery")))

		_, err = users.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrUserNotFound)

		// A unique violation aborts the transaction, so this runs last.
		dup := *user
		dup.ID = uuid.New()
		dup.Password = "correct-horse-battery"
		assert.ErrorIs(t, users.Create(ctx, &dup), store.ErrEmailExists)
	})
}

func TestTaskStoreIntegration(t *testing.T) {
	t.Parallel()
	db := testdb.Open(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		user := createUser(t, tx)
		tasks := postgres.NewPostgresTaskStore(tx, quietLogger())
		now := time.Now().UTC().Truncate(time.Microsecond)

		plain, err := domain.NewTask(user.ID, "Essay outline", "", domain.PriorityHigh, nil, false, now)
		require.NoError(t, err)
		review, err := domain.NewTask(user.ID, "Kanji set 3", "", "", nil, true, now)
		require.NoError(t, err)
		require.NoError(t, tasks.Create(ctx, plain))
		require.NoError(t, tasks.Create(ctx, review))

		reviews, err := tasks.ListByUser(ctx, user.ID, store.TaskFilter{ReviewOnly: true})
		require.NoError(t, err)
		require.Len(t, reviews, 1)
		assert.Equal(t, review.ID, reviews[0].ID)

		locked, err := tasks.GetForUpdate(ctx, review.ID)
		require.NoError(t, err)
		locked.ReviewLevel = 1
		locked.LastReviewedAt = &now
		locked.NextReviewAt = now.AddDate(0, 0, 1)
		locked.UpdatedAt = now
		require.NoError(t, tasks.Update(ctx, locked))

		got, err := tasks.GetByID(ctx, review.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.ReviewLevel)
		require.NotNil(t, got.LastReviewedAt)
		assert.True(t, now.Equal(*got.LastReviewedAt))

		counts, err := tasks.CountByUser(ctx, user.ID, now)
		require.NoError(t, err)
		assert.Equal(t, 2, counts.Total)

		require.NoError(t, tasks.Delete(ctx, plain.ID))
		assert.ErrorIs(t, tasks.Delete(ctx, plain.ID), store.ErrTaskNotFound)
	})
}

func TestProfileStoreIntegration(t *testing.T) {
	t.Parallel()
	db := testdb.Open(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		user := createUser(t, tx)
		profiles := postgres.NewPostgresProfileStore(tx, quietLogger())
		now := time.Now().UTC().Truncate(time.Microsecond)

		p, err := domain.NewProfile(user.ID, now)
		require.NoError(t, err)
		require.NoError(t, profiles.Create(ctx, p))

		p.Points = 140
		p.Level = 2
		p.StreakDays = 3
		p.Achievements.Add(domain.Achievement{Name: "First Steps", EarnedAt: now})
		p.DailyHistory.Record(now)
		stale := *p
		require.NoError(t, profiles.Update(ctx, p))

		stale.Points = 999
		assert.ErrorIs(t, profiles.Update(ctx, &stale), store.ErrConcurrentModification)

		got, err := profiles.GetForUpdate(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 140, got.Points)
		assert.True(t, got.Achievements.Has("First Steps"))
		assert.Equal(t, 1, got.DailyHistory.On(now))

		top, err := profiles.TopByPoints(ctx, 50)
		require.NoError(t, err)
		require.NotEmpty(t, top)
		assert.GreaterOrEqual(t, top[0].Points, 140)
	})
}

func TestActivityStoreIntegration(t *testing.T) {
	t.Parallel()
	db := testdb.Open(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		user := createUser(t, tx)
		activities := postgres.NewPostgresActivityStore(tx, quietLogger())
		base := time.Now().UTC().Truncate(time.Microsecond)

		for i, title := range []string{"First Steps", "Reached level 2", "7-day streak"} {
			require.NoError(t, activities.Create(ctx, &store.ActivityEntry{
				ID:         uuid.New(),
				UserID:     user.ID,
				Kind:       "achievement_earned",
				Title:      title,
				OccurredAt: base.Add(time.Duration(i) * time.Minute),
			}))
		}

		recent, err := activities.ListRecent(ctx, user.ID, 2)
		require.NoError(t, err)
		require.Len(t, recent, 2)
		assert.Equal(t, "7-day streak", recent[0].Title)
		assert.Equal(t, "Reached level 2", recent[1].Title)
	})
}
