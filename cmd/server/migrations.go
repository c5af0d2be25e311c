package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/scholar-api/internal/platform/postgres/migrations"
	"github.com/pressly/goose/v3"
)

// migrationCommands lists the goose operations exposed by "scholar migrate".
var migrationCommands = []string{"up", "down", "status", "version"}

// slogGooseLogger adapts goose's logger interface to slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf forwards goose progress output at info level.
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf logs at error level. It does not exit; the failing goose call
// returns its error to the caller.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// runMigrations applies command to db using the embedded SQL migrations.
func runMigrations(ctx context.Context, db *sql.DB, command string, log *slog.Logger) error {
	log = log.With("component", "migrations", "command", command)

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(&slogGooseLogger{logger: log})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	start := time.Now()
	var err error
	switch command {
	case "up":
		err = goose.UpContext(ctx, db, ".")
	case "down":
		err = goose.DownContext(ctx, db, ".")
	case "status":
		err = goose.StatusContext(ctx, db, ".")
	case "version":
		err = goose.VersionContext(ctx, db, ".")
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}
	if err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}

	log.Info("migration command finished", "duration_ms", time.Since(start).Milliseconds())
	return nil
}
