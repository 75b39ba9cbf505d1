package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/undoctl/internal/errors"
	"github.com/manav03panchal/undoctl/internal/parser"
	"github.com/manav03panchal/undoctl/internal/undo"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// =============================================================================
// Load Tests
// =============================================================================

func TestDefault(t *testing.T) {
	c := Default()

	assert.Zero(t, c.Undo.LevelsOfUndo)
	assert.False(t, c.Undo.Coalescing)
	assert.Equal(t, "last", c.Undo.CoalescingKind)
	assert.Equal(t, "refresh", c.Undo.Merge)
	assert.Equal(t, "reverse", c.Undo.RedoOrder)
	assert.True(t, c.Undo.GroupsByEvent)
	assert.True(t, c.Undo.DiscardEmptyGroups)
	assert.True(t, c.Undo.RetainsTargets)
	assert.True(t, c.Storage.Journal)
	assert.NotEmpty(t, c.Storage.Path)
	assert.Equal(t, "warn", c.Log.Level)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
undo:
  levels_of_undo: 20
  coalescing: true
  coalescing_kind: all
  merge: keep_first
storage:
  journal: false
log:
  level: debug
  json: true
`)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, c.File)
	assert.Equal(t, 20, c.Undo.LevelsOfUndo)
	assert.True(t, c.Undo.Coalescing)
	assert.Equal(t, "all", c.Undo.CoalescingKind)
	assert.Equal(t, "keep_first", c.Undo.Merge)
	assert.Equal(t, "reverse", c.Undo.RedoOrder, "unset keys keep defaults")
	assert.False(t, c.Storage.Journal)
	assert.True(t, c.Log.JSON)
}

func TestLoadFromEnvFile(t *testing.T) {
	path := writeConfig(t, "undo:\n  redo_order: forward\n")
	t.Setenv(EnvConfigFile, path)

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "forward", c.Undo.RedoOrder)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "undo:\n  levels_of_undo: 3\n")
	t.Setenv("UNDOCTL_UNDO_LEVELS_OF_UNDO", "7")
	t.Setenv("UNDOCTL_LOG_LEVEL", "info")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, c.Undo.LevelsOfUndo, "env wins over file")
	assert.Equal(t, "info", c.Log.Level)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing_explicit_file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.True(t, errors.IsUserError(err))
		assert.ErrorIs(t, err, errors.ErrInvalidConfig)
	})

	t.Run("bad_yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "undo: [unclosed"))
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrInvalidConfig)
	})

	t.Run("bad_enum", func(t *testing.T) {
		_, err := Load(writeConfig(t, "undo:\n  merge: sometimes\n"))
		require.Error(t, err)
		ue, ok := errors.AsUserError(err)
		require.True(t, ok)
		assert.Equal(t, "undo.merge", ue.Field)
		assert.Equal(t, "sometimes", ue.Value)
	})
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	c := Default()
	c.Undo.LevelsOfUndo = 42
	c.Undo.CoalescingKind = "all"
	c.Log.Level = "error"

	require.NoError(t, Save(c, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 42, got.Undo.LevelsOfUndo)
	assert.Equal(t, "all", got.Undo.CoalescingKind)
	assert.Equal(t, "error", got.Log.Level)
}

// =============================================================================
// Conversion Tests
// =============================================================================

func TestManagerOptions(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(*UndoConfig)
		check func(t *testing.T, o undo.Options)
	}{
		{"defaults", func(*UndoConfig) {}, func(t *testing.T, o undo.Options) {
			assert.Equal(t, undo.CoalesceLastTask, o.CoalescingKind)
			assert.Equal(t, undo.MergeRefresh, o.Merge)
			assert.Equal(t, undo.ReplayReverse, o.RedoOrder)
			assert.True(t, o.GroupsByEvent)
			assert.True(t, o.AutoDiscardEmptyGroups)
			assert.True(t, o.RetainsTargets)
		}},
		{"all_matching", func(c *UndoConfig) { c.CoalescingKind = "ALL" }, func(t *testing.T, o undo.Options) {
			assert.Equal(t, undo.CoalesceAllMatchingTasks, o.CoalescingKind)
		}},
		{"keep_first", func(c *UndoConfig) { c.Merge = "keep_first" }, func(t *testing.T, o undo.Options) {
			assert.Equal(t, undo.MergeKeepFirst, o.Merge)
		}},
		{"forward", func(c *UndoConfig) { c.RedoOrder = "forward" }, func(t *testing.T, o undo.Options) {
			assert.Equal(t, undo.ReplayForward, o.RedoOrder)
		}},
		{"flags", func(c *UndoConfig) {
			c.LevelsOfUndo = 5
			c.Coalescing = true
			c.GroupsByEvent = false
			c.RetainsTargets = false
		}, func(t *testing.T, o undo.Options) {
			assert.Equal(t, 5, o.LevelsOfUndo)
			assert.True(t, o.Coalescing)
			assert.False(t, o.GroupsByEvent)
			assert.False(t, o.RetainsTargets)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default().Undo
			tt.mut(&c)
			o, err := c.ManagerOptions()
			require.NoError(t, err)
			tt.check(t, o)
		})
	}
}

func TestManagerOptionsInvalid(t *testing.T) {
	for _, mut := range []func(*UndoConfig){
		func(c *UndoConfig) { c.LevelsOfUndo = -1 },
		func(c *UndoConfig) { c.CoalescingKind = "first" },
		func(c *UndoConfig) { c.Merge = "both" },
		func(c *UndoConfig) { c.RedoOrder = "sideways" },
	} {
		c := Default().Undo
		mut(&c)
		_, err := c.ManagerOptions()
		assert.ErrorIs(t, err, errors.ErrInvalidConfig)
	}
}

func TestApplyScriptOptions(t *testing.T) {
	levels := 2
	kind := "all"
	off := false

	c := Default().Undo.Apply(parser.ScriptOptions{
		LevelsOfUndo:   &levels,
		CoalescingKind: &kind,
		GroupsByEvent:  &off,
	})

	assert.Equal(t, 2, c.LevelsOfUndo)
	assert.Equal(t, "all", c.CoalescingKind)
	assert.False(t, c.GroupsByEvent)
	assert.Equal(t, "refresh", c.Merge, "unset overrides keep the configured value")
	assert.True(t, c.RetainsTargets)
}

func TestLoggingConfig(t *testing.T) {
	lc := LogConfig{Level: "debug", JSON: true}.LoggingConfig()
	assert.Equal(t, slog.LevelDebug, lc.Level)
	assert.True(t, lc.JSON)
}
