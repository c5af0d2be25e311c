package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/phrazzld/scholar-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "", want: slog.LevelInfo},
		{in: " warn ", want: slog.LevelWarn},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "verbose", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := logger.ParseLevel(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log, err := logger.New(&buf, "warn")
	require.NoError(t, err)

	log.Info("dropped")
	log.Warn("kept", slog.String("component", "test"))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "test", entry["component"])

	_, err = logger.New(&buf, "loud")
	assert.Error(t, err)
}

func TestContextLoggers(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	stored := slog.New(slog.NewJSONHandler(&buf, nil))
	fallback := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	ctx := logger.WithLogger(context.Background(), stored)
	assert.Same(t, stored, logger.FromContext(ctx))
	assert.Same(t, stored, logger.FromContextOrDefault(ctx, fallback))

	assert.Same(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))
	assert.NotNil(t, logger.FromContextOrDefault(context.Background(), nil))
	assert.NotNil(t, logger.FromContext(context.Background()))
}
