package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/scholar-api/internal/platform/logger"
	"github.com/phrazzld/scholar-api/internal/store"
)

// maxConflictAttempts bounds retries of a transaction that lost an
// optimistic-lock race on a gamification profile.
const maxConflictAttempts = 3

// retryOnConflict runs fn until it succeeds, fails with anything other than
// store.ErrConcurrentModification, or runs out of attempts.
func retryOnConflict(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxConflictAttempts; attempt++ {
		err = fn()
		if !errors.Is(err, store.ErrConcurrentModification) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		logger.FromContext(ctx).Debug("retrying after concurrent modification",
			slog.Int("attempt", attempt))
	}
	return err
}
