package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/undoctl/internal/config"
	"github.com/manav03panchal/undoctl/internal/errors"
)

const dragScript = `name: drag
events:
  - add rect box 0 0
  - [move box 1 0, move box 1 0]
  - undo
`

// setupEnv points the config at a temporary file whose journal lives in
// the test's temp dir, and returns that dir.
func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	data := "storage:\n  path: " + filepath.Join(dir, "journal") + "\nlog:\n  level: error\n"
	require.NoError(t, os.WriteFile(cfg, []byte(data), 0o644))
	t.Setenv(config.EnvConfigFile, cfg)
	return dir
}

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func resetFlags() {
	flagFormat, flagColor, flagConfig = "cli", "never", ""
	flagDebug, flagNoJournal = false, false
	runStrict, runLines = false, false
	journalSince, journalLimit, journalClear, journalSession, journalKinds = "", 20, false, "", nil
	configForce = false
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	err := Execute()
	return buf.String(), err
}

func decode(t *testing.T, out string) map[string]any {
	t.Helper()
	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

// =============================================================================
// run Tests
// =============================================================================

func TestRunScript(t *testing.T) {
	dir := setupEnv(t)
	script := writeScript(t, dir, "drag.yaml", dragScript)

	t.Run("cli", func(t *testing.T) {
		out, err := execute(t, "run", script)
		require.NoError(t, err)
		assert.Contains(t, out, "Session drag")
		assert.Contains(t, out, "move box 1 0")
		assert.Contains(t, out, "4 commands")
	})

	t.Run("json", func(t *testing.T) {
		out, err := execute(t, "run", script, "--format", "json")
		require.NoError(t, err)
		v := decode(t, out)
		assert.Equal(t, "ok", v["status"])
		assert.Len(t, v["steps"], 4)
		final := v["final"].(map[string]any)
		assert.Len(t, final["undo"], 1)
		assert.Len(t, final["redo"], 1)
		assert.Equal(t, "Redo Move", final["redo_title"])
	})
}

func TestRunFailures(t *testing.T) {
	dir := setupEnv(t)
	script := writeScript(t, dir, "bad.yaml", "events:\n  - move ghost 1 1\n  - add text label\n")

	out, err := execute(t, "run", script, "--format", "json")
	require.NoError(t, err)
	v := decode(t, out)
	assert.Equal(t, "failed", v["status"])
	assert.EqualValues(t, 1, v["failed"])

	_, err = execute(t, "run", script, "--strict")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestRunLines(t *testing.T) {
	dir := setupEnv(t)
	script := writeScript(t, dir, "cmds.txt", "# plain commands\nadd rect a\nadd rect b\n\nundo\n")

	out, err := execute(t, "run", "--lines", script, "--format", "json")
	require.NoError(t, err)
	v := decode(t, out)
	final := v["final"].(map[string]any)
	assert.Len(t, final["shapes"], 1)
	assert.Len(t, final["undo"], 1)
}

func TestRunInvalidScript(t *testing.T) {
	dir := setupEnv(t)
	script := writeScript(t, dir, "empty.yaml", "name: nothing\n")

	out, err := execute(t, "run", script)
	require.Error(t, err)
	assert.Contains(t, out, "no events")

	_, err = execute(t, "run", filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestRunDebugErrors(t *testing.T) {
	dir := setupEnv(t)
	missing := filepath.Join(dir, "missing.txt")

	out, err := execute(t, "run", "--lines", missing)
	require.Error(t, err)
	assert.Contains(t, out, "read script "+missing)
	assert.NotContains(t, out, "Error chain:")

	out, err = execute(t, "run", "--lines", missing, "--debug")
	require.Error(t, err)
	assert.Contains(t, out, "Error chain:")
	assert.Contains(t, out, "Category: system")
	assert.Contains(t, out, "Root cause:")
}

// =============================================================================
// journal Tests
// =============================================================================

func TestJournal(t *testing.T) {
	dir := setupEnv(t)
	script := writeScript(t, dir, "drag.yaml", dragScript)
	_, err := execute(t, "run", script)
	require.NoError(t, err)

	t.Run("lists_entries", func(t *testing.T) {
		out, err := execute(t, "journal", "--format", "json")
		require.NoError(t, err)
		v := decode(t, out)
		entries := v["entries"].([]any)
		require.Len(t, entries, 3)
		kinds := make([]string, len(entries))
		for i, e := range entries {
			kinds[i] = e.(map[string]any)["kind"].(string)
		}
		assert.Equal(t, []string{"commit", "commit", "undo"}, kinds)
	})

	t.Run("cli_table", func(t *testing.T) {
		out, err := execute(t, "journal", "--limit", "2")
		require.NoError(t, err)
		assert.Contains(t, out, "KIND")
		assert.Contains(t, out, "2 of 3 entries")
	})

	t.Run("kind_filter", func(t *testing.T) {
		out, err := execute(t, "journal", "--kind", "undo", "--format", "json")
		require.NoError(t, err)
		assert.EqualValues(t, 1, decode(t, out)["shown_count"])

		_, err = execute(t, "journal", "--kind", "bogus")
		require.Error(t, err)
	})

	t.Run("since", func(t *testing.T) {
		out, err := execute(t, "journal", "--since", "1 hour ago", "--format", "json")
		require.NoError(t, err)
		assert.EqualValues(t, 3, decode(t, out)["shown_count"])
	})

	t.Run("session_prefix", func(t *testing.T) {
		out, err := execute(t, "journal", "--session", "no-such-session", "--format", "json")
		require.NoError(t, err)
		assert.EqualValues(t, 0, decode(t, out)["shown_count"])
	})

	t.Run("clear", func(t *testing.T) {
		out, err := execute(t, "journal", "--clear", "--format", "json")
		require.NoError(t, err)
		assert.EqualValues(t, 3, decode(t, out)["removed"])

		out, err = execute(t, "journal")
		require.NoError(t, err)
		assert.Contains(t, out, "Journal is empty.")
	})
}

func TestJournalDisabled(t *testing.T) {
	setupEnv(t)
	_, err := execute(t, "journal", "--no-journal")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrJournalDisabled)
}

// =============================================================================
// config, shell and root Tests
// =============================================================================

func TestConfigShow(t *testing.T) {
	setupEnv(t)
	t.Setenv("UNDOCTL_UNDO_LEVELS_OF_UNDO", "9")

	out, err := execute(t, "config", "--format", "json")
	require.NoError(t, err)
	undo := decode(t, out)["undo"].(map[string]any)
	assert.EqualValues(t, 9, undo["levels_of_undo"])

	out, err = execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "levels_of_undo: 9")
}

func TestConfigInit(t *testing.T) {
	dir := setupEnv(t)

	out, err := execute(t, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), strings.TrimSpace(out))

	_, err = execute(t, "config", "init")
	require.Error(t, err)

	_, err = execute(t, "config", "init", "--force")
	require.NoError(t, err)
	cfg, err := config.Load(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "journal"), cfg.Storage.Path)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestShellNeedsTerminal(t *testing.T) {
	setupEnv(t)
	_, err := execute(t, "shell", "--no-journal")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNotATerminal)
}

func TestInvalidFormat(t *testing.T) {
	setupEnv(t)
	out, err := execute(t, "config", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, out, "Error:")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "undoctl dev")
}
