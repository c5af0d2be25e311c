// Package logger configures structured JSON logging with log/slog and
// carries request-scoped loggers through context.Context.
//
// Middleware stores an enriched logger (trace ID, method, path) with
// WithLogger; downstream code retrieves it with FromContextOrDefault so that
// every line logged while handling a request can be correlated.
package logger
