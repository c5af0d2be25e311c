package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scholar-api/internal/api"
	"github.com/phrazzld/scholar-api/internal/config"
	"github.com/phrazzld/scholar-api/internal/domain/gamification"
	"github.com/phrazzld/scholar-api/internal/domain/srs"
	"github.com/phrazzld/scholar-api/internal/events"
	"github.com/phrazzld/scholar-api/internal/platform/postgres"
	"github.com/phrazzld/scholar-api/internal/service"
	"github.com/phrazzld/scholar-api/internal/service/auth"
)

// application holds the wired dependencies of a running server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jwtService auth.JWTService

	userService         service.UserService
	taskService         service.TaskService
	reviewService       service.ReviewService
	gamificationService service.GamificationService
}

// newApplication builds stores, domain engines, services and the event
// pipeline on top of an open database.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	loc, err := cfg.Gamification.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to load gamification timezone: %w", err)
	}
	flavor, err := gamification.ParseFlavor(cfg.Gamification.Flavor)
	if err != nil {
		return nil, err
	}
	params := gamification.NewDefaultParams(flavor)
	params.Location = loc
	engine := gamification.NewEngineWithParams(params)

	scheduler := srs.NewSchedulerWithParams(srsParams(cfg.SRS))

	userStore := postgres.NewPostgresUserStore(db, logger, cfg.Auth.BCryptCost)
	taskStore := postgres.NewPostgresTaskStore(db, logger)
	profileStore := postgres.NewPostgresProfileStore(db, logger)
	activityStore := postgres.NewPostgresActivityStore(db, logger)

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(events.NewActivityRecorder(activityStore))

	app.userService, err = service.NewUserService(userStore, app.jwtService, auth.NewBcryptVerifier(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	app.gamificationService, err = service.NewGamificationService(
		db, profileStore, activityStore, engine, emitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create gamification service: %w", err)
	}

	app.taskService, err = service.NewTaskService(db, taskStore, app.gamificationService, loc, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	app.reviewService, err = service.NewReviewService(db, taskStore, scheduler, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create review service: %w", err)
	}

	logger.Info("application initialized",
		"gamification_flavor", flavor,
		"strict_difficulty", cfg.SRS.StrictDifficulty,
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)
	return app, nil
}

// srsParams maps the srs config section onto scheduler parameters.
func srsParams(cfg config.SRSConfig) *srs.Params {
	return srs.NewParams(srs.ParamsConfig{
		FirstReviewInterval:    cfg.FirstReviewIntervalDays,
		SecondReviewInterval:   cfg.SecondReviewIntervalDays,
		BaseEaseFactor:         cfg.BaseEaseFactor,
		EaseFactorStep:         cfg.EaseFactorStep,
		HardIntervalMultiplier: cfg.HardIntervalMultiplier,
		EasyIntervalMultiplier: cfg.EasyIntervalMultiplier,
		StrictDifficulty:       cfg.StrictDifficulty,
	})
}

// handlers builds the HTTP handler set over the application's services.
func (app *application) handlers() routeHandlers {
	return routeHandlers{
		auth:         api.NewAuthHandler(app.userService, app.logger),
		tasks:        api.NewTaskHandler(app.taskService, app.logger),
		reviews:      api.NewReviewHandler(app.reviewService, app.logger),
		gamification: api.NewGamificationHandler(app.gamificationService, app.logger),
	}
}

// runServe is the "serve" command: load config, connect, wire, and serve
// until ctx is canceled.
func runServe(ctx context.Context, configFile string) error {
	cfg, log, err := loadConfigAndLogger(configFile)
	if err != nil {
		return err
	}

	db, err := openDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}

	app, err := newApplication(cfg, log, db)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer app.cleanup()

	return app.Run(ctx)
}

// Run serves HTTP until ctx is canceled or the listener fails.
func (app *application) Run(ctx context.Context) error {
	router := newRouter(routerConfig{
		Logger:        app.logger,
		JWT:           app.jwtService,
		RatePerSecond: app.config.Server.RateLimitPerSecond,
		RateBurst:     app.config.Server.RateLimitBurst,
		HealthCheck:   app.db.PingContext,
		Handlers:      app.handlers(),
	})

	if err := serveHTTP(ctx, fmt.Sprintf(":%d", app.config.Server.Port), router, app.logger); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}
	app.logger.Info("application shutdown completed")
}
