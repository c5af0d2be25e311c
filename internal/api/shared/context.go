package shared

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ContextKey is the type of the request context keys set by middleware.
type ContextKey string

const (
	// UserIDContextKey holds the authenticated user's uuid.UUID.
	UserIDContextKey ContextKey = "userID"

	// TraceIDKey holds the request's trace ID string.
	TraceIDKey ContextKey = "traceID"

	// TraceIDLength is the trace ID size in bytes (32 hex characters).
	TraceIDLength = 16
)

// SetTraceID returns a copy of ctx carrying a new trace ID.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID())
}

// GetTraceID returns the request's trace ID, or "" if none is set.
func GetTraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(TraceIDKey).(string)
	return traceID
}

// WithUserID returns a copy of ctx carrying the authenticated user's ID.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, UserIDContextKey, userID)
}

// UserIDFromContext returns the authenticated user's ID. ok is false when
// the request was not authenticated.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}

// generateTraceID returns 32 random hex characters. If the random source
// fails it falls back to a clock-derived ID rather than a constant.
func generateTraceID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		b := make([]byte, TraceIDLength)
		now := time.Now()
		binary.BigEndian.PutUint64(b[:8], uint64(now.UnixNano()))
		binary.BigEndian.PutUint64(b[8:], uint64(now.Nanosecond())<<32|uint64(now.Unix()&0xffffffff))
		return hex.EncodeToString(b)
	}
	return strings.ReplaceAll(id.String(), "-", "")
}
