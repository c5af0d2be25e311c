package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/scholar-api/internal/api"
	apiMiddleware "github.com/phrazzld/scholar-api/internal/api/middleware"
	"github.com/phrazzld/scholar-api/internal/service/auth"
)

const healthCheckTimeout = 2 * time.Second

type routeHandlers struct {
	auth         *api.AuthHandler
	tasks        *api.TaskHandler
	reviews      *api.ReviewHandler
	gamification *api.GamificationHandler
}

type routerConfig struct {
	Logger        *slog.Logger
	JWT           auth.JWTService
	RatePerSecond float64
	RateBurst     int
	// HealthCheck reports whether the database is reachable. Nil skips it.
	HealthCheck func(ctx context.Context) error
	Handlers    routeHandlers
}

// newRouter mounts every API route under /api plus an unauthenticated
// /health check.
func newRouter(cfg routerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(cfg.Logger))

	authMiddleware := apiMiddleware.NewAuthMiddleware(cfg.JWT)
	limiter := apiMiddleware.NewRateLimiter(cfg.RatePerSecond, cfg.RateBurst)
	h := cfg.Handlers

	r.Route("/api", func(r chi.Router) {
		// Public routes are limited per client IP.
		r.Group(func(r chi.Router) {
			r.Use(limiter.Limit)
			r.Post("/auth/register", h.auth.Register)
			r.Post("/auth/login", h.auth.Login)
			r.Get("/gamification/leaderboard", h.gamification.Leaderboard)
		})

		// Authenticated routes are limited per user.
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(limiter.Limit)

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", h.tasks.ListTasks)
				r.Post("/", h.tasks.CreateTask)
				r.Get("/stats", h.tasks.TaskStats)
				r.Get("/{id}", h.tasks.GetTask)
				r.Put("/{id}", h.tasks.UpdateTask)
				r.Delete("/{id}", h.tasks.DeleteTask)
				r.Post("/{id}/complete", h.tasks.CompleteTask)
			})

			r.Get("/reviews/due", h.reviews.ListDue)
			r.Post("/reviews/{id}/complete", h.reviews.CompleteReview)

			r.Route("/gamification", func(r chi.Router) {
				r.Get("/profile", h.gamification.GetProfile)
				r.Post("/check-in", h.gamification.CheckIn)
				r.Post("/pomodoro", h.gamification.CompletePomodoro)
				r.Post("/flashcards", h.gamification.ReviewFlashcards)
				r.Get("/activity", h.gamification.RecentActivity)
			})
		})
	})

	r.Get("/health", healthHandler(cfg.HealthCheck, cfg.Logger))

	return r
}

func healthHandler(check func(ctx context.Context) error, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, body := http.StatusOK, "OK"
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
			defer cancel()
			if err := check(ctx); err != nil {
				logger.Warn("health check failed", "error", err)
				status, body = http.StatusServiceUnavailable, "database unavailable"
			}
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(status)
		if _, err := w.Write([]byte(body)); err != nil {
			logger.Error("failed to write health check response", "error", err)
		}
	}
}
