package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scholar-api/internal/api/shared"
	"github.com/stretchr/testify/assert"
)

func newTestLimiter(rps float64, burst int, now *time.Time) *RateLimiter {
	rl := NewRateLimiter(rps, burst)
	rl.now = func() time.Time { return *now }
	return rl
}

func TestRateLimiter_Allow(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	rl := newTestLimiter(1, 2, &now)

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"), "burst exhausted")
	assert.True(t, rl.Allow("b"), "keys are independent")

	now = now.Add(time.Second)
	assert.True(t, rl.Allow("a"), "one token refilled")
	assert.False(t, rl.Allow("a"))
}

func TestRateLimiter_BoundsKeys(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	rl := newTestLimiter(1, 1, &now)
	rl.maxKeys = 3

	rl.Allow("a")
	now = now.Add(time.Second)
	rl.Allow("b")
	now = now.Add(time.Second)
	rl.Allow("c")
	now = now.Add(time.Second)
	rl.Allow("d")

	assert.Equal(t, 3, rl.Len())
	_, kept := rl.limits["a"]
	assert.False(t, kept, "least recently seen key is evicted")

	now = now.Add(DefaultLimiterIdleTTL + time.Minute)
	rl.Allow("e")
	assert.Equal(t, 1, rl.Len(), "idle keys are swept")
}

func TestRateLimiter_Limit(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	rl := newTestLimiter(1, 1, &now)
	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	send := func(remote string, userID uuid.UUID) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		req.RemoteAddr = remote
		if userID != uuid.Nil {
			req = req.WithContext(shared.WithUserID(req.Context(), userID))
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, send("10.0.0.1:5000", uuid.Nil).Code)
	limited := send("10.0.0.1:6000", uuid.Nil)
	assert.Equal(t, http.StatusTooManyRequests, limited.Code, "same IP, different port")
	assert.Equal(t, "1", limited.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"Too many requests"}`, limited.Body.String())

	user := uuid.New()
	assert.Equal(t, http.StatusNoContent, send("10.0.0.1:7000", user).Code, "users have their own bucket")
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.2:7000", user).Code)
}
