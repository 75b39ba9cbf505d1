package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, slog.LevelWarn, cfg.Level)
	assert.False(t, cfg.JSON)
}

func TestDebugConfig(t *testing.T) {
	cfg := DebugConfig()
	assert.Equal(t, slog.LevelDebug, cfg.Level)
	assert.True(t, cfg.JSON)
	assert.True(t, cfg.AddSource)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" INFO ", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelWarn},
		{"verbose", slog.LevelWarn},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestInit(t *testing.T) {
	t.Cleanup(func() { Init(DefaultConfig()) })

	t.Run("text_output", func(t *testing.T) {
		var buf bytes.Buffer
		Init(Config{Level: slog.LevelInfo, Output: &buf})

		Info("group committed", KeyGroup, "g1")
		assert.Contains(t, buf.String(), "group committed")
		assert.Contains(t, buf.String(), "group=g1")
		assert.False(t, Debug)
	})

	t.Run("json_output", func(t *testing.T) {
		var buf bytes.Buffer
		Init(Config{Level: slog.LevelDebug, JSON: true, Output: &buf})
		assert.True(t, Debug)

		DebugLog("replay", KeyState, "undoing", KeyCount, 3)
		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "replay", entry["msg"])
		assert.Equal(t, "undoing", entry[KeyState])
		assert.InDelta(t, 3, entry[KeyCount], 0)
	})

	t.Run("level_filters", func(t *testing.T) {
		var buf bytes.Buffer
		Init(Config{Level: slog.LevelWarn, Output: &buf})

		DebugLog("hidden")
		Info("hidden")
		Warn("shown")
		Error("also shown")
		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, "shown")
		assert.Contains(t, out, "also shown")
	})

	t.Run("nil_output_uses_stderr", func(t *testing.T) {
		Init(Config{Level: slog.LevelInfo})
		assert.NotNil(t, Logger())
	})
}

func TestInitDebug(t *testing.T) {
	t.Cleanup(func() { Init(DefaultConfig()) })
	InitDebug()
	assert.True(t, Debug)
}

func TestWithAndGroup(t *testing.T) {
	t.Cleanup(func() { Init(DefaultConfig()) })
	var buf bytes.Buffer
	Init(Config{Level: slog.LevelInfo, Output: &buf})

	With(KeyComponent, "undo").Info("hello")
	assert.Contains(t, buf.String(), "component=undo")

	buf.Reset()
	WithGroup("journal").Info("hello", KeyCount, 2)
	assert.Contains(t, buf.String(), "journal.count=2")
}

// =============================================================================
// Session context
// =============================================================================

func TestNewSessionID(t *testing.T) {
	id := NewSessionID()
	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.NotEqual(t, id, NewSessionID())
}

func TestSessionContext(t *testing.T) {
	ctx := NewSessionContext()
	assert.NotEmpty(t, SessionIDFromContext(ctx))

	ctx = WithSessionID(context.Background(), "abc")
	assert.Equal(t, "abc", SessionIDFromContext(ctx))

	assert.Empty(t, SessionIDFromContext(context.Background()))
	//nolint:staticcheck // nil context is handled explicitly
	assert.Empty(t, SessionIDFromContext(nil))
}

func TestLoggerFromContext(t *testing.T) {
	t.Cleanup(func() { Init(DefaultConfig()) })
	var buf bytes.Buffer
	Init(Config{Level: slog.LevelDebug, Output: &buf})

	ctx := WithSessionID(context.Background(), "sess-1")
	DebugContext(ctx, "debug line")
	WarnContext(ctx, "warn line")
	ErrorContext(context.Background(), "error line")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "session_id=sess-1")
	assert.Contains(t, lines[1], "session_id=sess-1")
	assert.NotContains(t, lines[2], "session_id")
}
