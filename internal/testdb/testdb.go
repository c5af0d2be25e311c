//go:build integration

package testdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/scholar-api/internal/platform/postgres/migrations"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
)

// EnvDatabaseURL names the variable holding the test database URL.
const EnvDatabaseURL = "SCHOLAR_TEST_DATABASE_URL"

// TestTimeout bounds connection checks and migration runs.
const TestTimeout = 30 * time.Second

var (
	migrateOnce sync.Once
	migrateErr  error
)

// testGooseLogger routes goose output to the test log.
type testGooseLogger struct {
	t testing.TB
}

func (l *testGooseLogger) Printf(format string, v ...interface{}) {
	l.t.Log("goose: " + strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l *testGooseLogger) Fatalf(format string, v ...interface{}) {
	l.t.Log("goose fatal: " + strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Open connects to the test database, skipping the test when none is
// configured, and makes sure the schema is migrated. The connection is
// closed when the test finishes.
func Open(t testing.TB) *sql.DB {
	t.Helper()

	dbURL := os.Getenv(EnvDatabaseURL)
	if dbURL == "" {
		t.Skipf("%s not set; skipping database integration test", EnvDatabaseURL)
	}

	db, err := sql.Open("pgx", dbURL)
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "test database is not reachable")

	migrateOnce.Do(func() {
		goose.SetBaseFS(migrations.FS)
		goose.SetLogger(&testGooseLogger{t: t})
		if err := goose.SetDialect("postgres"); err != nil {
			migrateErr = err
			return
		}
		migrateErr = goose.UpContext(ctx, db, ".")
	})
	require.NoError(t, migrateErr, "failed to apply migrations")

	return db
}

// WithTx runs fn inside a transaction that is rolled back afterwards, even
// when fn fails the test or panics.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err, "failed to begin test transaction")

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("failed to roll back test transaction: %v", err)
		}
	}()

	fn(t, tx)
}
