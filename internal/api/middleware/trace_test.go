package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/scholar-api/internal/api/shared"
	"github.com/phrazzld/scholar-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceMiddleware(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	base := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var traceID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("handled")
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
	})

	rec := httptest.NewRecorder()
	TraceMiddleware(base)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks/x", nil))

	require.Len(t, traceID, 32)
	assert.Contains(t, rec.Body.String(), traceID, "error body carries the trace ID")

	logs := buf.String()
	assert.Contains(t, logs, "request started")
	assert.Contains(t, logs, "msg=handled trace_id="+traceID)
	assert.Contains(t, logs, "path=/api/tasks/x")
}
