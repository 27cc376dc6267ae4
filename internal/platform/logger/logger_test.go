package logger_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/phrazzld/spelldeck-api/internal/config"
	"github.com/phrazzld/spelldeck-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreDefault(t *testing.T) {
	t.Helper()
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })
}

func TestSetupWithWriter(t *testing.T) {
	restoreDefault(t)
	buf := &logger.TestLogBuffer{}

	l, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: "info", Port: 8000}, buf)
	require.NoError(t, err)
	require.NotNil(t, l)

	l.Info("hello", "word", "Apple")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "Apple", entry["word"])
	assert.Equal(t, "spelldeck-api", entry["service"])
}

func TestSetupInstallsDefault(t *testing.T) {
	restoreDefault(t)
	buf := &logger.TestLogBuffer{}

	_, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: "debug"}, buf)
	require.NoError(t, err)

	slog.Debug("via default")
	logger.AssertLogContains(t, buf, "via default")
}

func TestSetupLevelFiltering(t *testing.T) {
	tests := []struct {
		level      string
		debugShown bool
		infoShown  bool
		warnShown  bool
	}{
		{"debug", true, true, true},
		{"info", false, true, true},
		{"warn", false, false, true},
		{"error", false, false, false},
		{"INFO", false, true, true},
		{"invalid_level", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			restoreDefault(t)
			buf := &logger.TestLogBuffer{}

			l, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: tt.level}, buf)
			require.NoError(t, err, "invalid levels fall back instead of failing")

			l.Debug("debug message")
			l.Info("info message")
			l.Warn("warn message")

			out := buf.String()
			assert.Equal(t, tt.debugShown, strings.Contains(out, "debug message"))
			assert.Equal(t, tt.infoShown, strings.Contains(out, "info message"))
			assert.Equal(t, tt.warnShown, strings.Contains(out, "warn message"))
		})
	}
}

func TestParseLevel(t *testing.T) {
	level, ok := logger.ParseLevel("Warning")
	assert.True(t, ok)
	assert.Equal(t, slog.LevelWarn, level)

	level, ok = logger.ParseLevel("verbose")
	assert.False(t, ok)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestFromContext(t *testing.T) {
	t.Run("falls back to default", func(t *testing.T) {
		assert.Same(t, slog.Default(), logger.FromContext(context.Background()))
	})

	t.Run("returns attached logger", func(t *testing.T) {
		ctx, buf := logger.TestContext(t)
		logger.FromContext(ctx).Info("attached")
		logger.AssertLogContains(t, buf, "attached")
	})

	t.Run("job id annotation", func(t *testing.T) {
		ctx, buf := logger.TestContext(t)
		ctx = logger.WithJobID(ctx, "job-123")
		logger.FromContext(ctx).Info("processing")
		logger.AssertLogField(t, buf, "job_id", "job-123")
	})
}

func TestCaptureLogs(t *testing.T) {
	out := logger.CaptureLogs(t, func(l *slog.Logger) {
		l.Warn("captured", "count", 2)
	})
	assert.Contains(t, out, `"msg":"captured"`)
	assert.Contains(t, out, `"count":2`)
}
