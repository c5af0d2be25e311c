package middleware

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/scholar-api/internal/api/shared"
	"github.com/phrazzld/scholar-api/internal/platform/logger"
)

// TraceMiddleware assigns the request a trace ID and stores a logger
// carrying it in the context, so every log line and error body for the
// request can be correlated. Apply it before any middleware that logs or
// writes errors.
func TraceMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())

			log := base.With(
				slog.String("trace_id", shared.GetTraceID(ctx)),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path))
			ctx = logger.WithLogger(ctx, log)

			log.Debug("request started", slog.String("remote_addr", r.RemoteAddr))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
