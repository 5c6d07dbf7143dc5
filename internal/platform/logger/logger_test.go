package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/phrazzld/buyone/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
		ok    bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"Warn", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseLevel(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestSetup_WritesJSONWithServiceName(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	buf := &TestLogBuffer{}
	l := setup(buf, config.ServerConfig{LogLevel: "warn"}, "product")

	l.Info("dropped")
	l.Warn("kept", "key", "value")

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0]["msg"])
	assert.Equal(t, "product", entries[0]["service"])
	assert.Equal(t, "value", entries[0]["key"])
	assert.Same(t, l, slog.Default())
}

func TestFromContext(t *testing.T) {
	buf, l, cleanup := SetupTestLogger(t)
	defer cleanup()

	assert.Same(t, l, FromContext(context.Background()), "falls back to default logger")

	scoped := l.With("trace_id", "abc")
	ctx := WithContext(context.Background(), scoped)
	FromContext(ctx).Info("hello")

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "abc", entries[0]["trace_id"])
}
