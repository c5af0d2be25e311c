package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/phrazzld/scholar-api/internal/api/shared"
	"golang.org/x/time/rate"
)

// Limiter table bounds.
const (
	DefaultMaxLimiterKeys = 10000
	DefaultLimiterIdleTTL = 10 * time.Minute
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client key. The table holds at
// most maxKeys entries; idle entries are evicted first, then the least
// recently seen.
type RateLimiter struct {
	mu      sync.Mutex
	limits  map[string]*limiterEntry
	rps     rate.Limit
	burst   int
	maxKeys int
	idleTTL time.Duration
	now     func() time.Time
}

// NewRateLimiter creates a RateLimiter allowing rps requests per second per
// key with the given burst.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		limits:  make(map[string]*limiterEntry),
		rps:     rate.Limit(rps),
		burst:   burst,
		maxKeys: DefaultMaxLimiterKeys,
		idleTTL: DefaultLimiterIdleTTL,
		now:     time.Now,
	}
}

// Allow reports whether a request for key may proceed now.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	entry, ok := rl.limits[key]
	if !ok {
		if len(rl.limits) >= rl.maxKeys {
			rl.evict(now)
		}
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.limits[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

// Len returns the number of tracked keys.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limits)
}

// evict removes idle entries, or the least recently seen one when none are
// idle. Caller holds mu.
func (rl *RateLimiter) evict(now time.Time) {
	var oldestKey string
	var oldest time.Time
	for key, e := range rl.limits {
		if now.Sub(e.lastSeen) > rl.idleTTL {
			delete(rl.limits, key)
			continue
		}
		if oldestKey == "" || e.lastSeen.Before(oldest) {
			oldestKey, oldest = key, e.lastSeen
		}
	}
	if len(rl.limits) >= rl.maxKeys && oldestKey != "" {
		delete(rl.limits, oldestKey)
	}
}

// Limit rejects requests over the limit with 429. Authenticated requests
// are keyed by user ID, anonymous ones by client IP, so it must run after
// Authenticate on protected routes.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(clientKey(r)) {
			w.Header().Set("Retry-After", strconv.Itoa(rl.retryAfterSeconds()))
			shared.RespondWithErrorAndLog(w, r, http.StatusTooManyRequests,
				"Too many requests", fmt.Errorf("rate limit exceeded for %s", r.URL.Path))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) retryAfterSeconds() int {
	if rl.rps <= 0 {
		return 1
	}
	return max(1, int(1/float64(rl.rps)+0.5))
}

func clientKey(r *http.Request) string {
	if userID, ok := shared.UserIDFromContext(r.Context()); ok {
		return "user:" + userID.String()
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
