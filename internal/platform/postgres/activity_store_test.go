package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/scholar-api/internal/platform/postgres"
	"github.com/phrazzld/scholar-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresActivityStore_Create(t *testing.T) {
	t.Parallel()
	db, mock := newMockDB(t)

	entry := &store.ActivityEntry{
		UserID:     uuid.New(),
		Kind:       "achievement_earned",
		Title:      "Week Warrior",
		OccurredAt: time.Now().UTC(),
	}

	mock.ExpectExec(`INSERT INTO activity_log .* ON CONFLICT \(id\) DO NOTHING`).
		WithArgs(sqlmock.AnyArg(), entry.UserID, "achievement_earned", "Week Warrior", "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, postgres.NewPostgresActivityStore(db, nil).Create(context.Background(), entry))
	assert.NotEqual(t, uuid.Nil, entry.ID)
}

func TestPostgresActivityStore_ListRecent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{name: "default", limit: 0, wantLimit: 20},
		{name: "explicit", limit: 5, wantLimit: 5},
		{name: "capped", limit: 1000, wantLimit: 100},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			db, mock := newMockDB(t)
			userID := uuid.New()
			now := time.Now().UTC()

			mock.ExpectQuery(`FROM activity_log WHERE user_id = \$1 ORDER BY occurred_at DESC LIMIT \$2`).
				WithArgs(userID, tc.wantLimit).
				WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "kind", "title", "detail", "occurred_at"}).
					AddRow(uuid.New().String(), userID.String(), "level_up", "Reached level 3", "", now))

			got, err := postgres.NewPostgresActivityStore(db, nil).ListRecent(context.Background(), userID, tc.limit)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, "level_up", got[0].Kind)
		})
	}
}
