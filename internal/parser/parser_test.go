package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/undoctl/internal/drawing"
	"github.com/manav03panchal/undoctl/internal/errors"
)

// =============================================================================
// Commands
// =============================================================================

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input string
		want  Command
	}{
		{"add rect box", Command{Op: OpAdd, Arg: "rect", Shape: "box"}},
		{"ADD Ellipse sun 4 -2", Command{Op: OpAdd, Arg: "ellipse", Shape: "sun", Point: drawing.Point{X: 4, Y: -2}}},
		{"move box 1 0", Command{Op: OpMove, Shape: "box", Point: drawing.Point{X: 1}}},
		{"mv box 0 3", Command{Op: OpMove, Shape: "box", Point: drawing.Point{Y: 3}}},
		{"moveto box 9 9", Command{Op: OpMoveTo, Shape: "box", Point: drawing.Point{X: 9, Y: 9}}},
		{"color box red", Command{Op: OpColor, Shape: "box", Arg: "red"}},
		{"rename box 'big box'", Command{Op: OpRename, Shape: "box", Arg: "big box"}},
		{"rm box", Command{Op: OpRemove, Shape: "box"}},
		{"forget box", Command{Op: OpForget, Shape: "box"}},
		{"undo", Command{Op: OpUndo, N: 1}},
		{"redo 3", Command{Op: OpRedo, N: 3}},
		{"name Nudge Left", Command{Op: OpName, Arg: "Nudge Left"}},
		{`name "Nudge  Left"`, Command{Op: OpName, Arg: "Nudge  Left"}},
		{"levels 0", Command{Op: OpLevels, N: 0}},
		{"coalesce ALL", Command{Op: OpCoalesce, Arg: "all"}},
		{"reset-count", Command{Op: OpResetCount}},
		{"  begin  ", Command{Op: OpBegin}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCommand(tt.input)
			require.NoError(t, err)
			got.Raw = ""
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCommandErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"empty", "   ", "empty command"},
		{"unknown", "jump box", `unknown command "jump"`},
		{"typo", "colr box red", `did you mean "color"?`},
		{"missing_args", "move box", "usage: move <name> <dx> <dy>"},
		{"too_many", "remove a b", "usage: remove <name>"},
		{"half_point", "add rect box 1", "usage: add <kind> <name> [x y]"},
		{"bad_kind", "add star box", "unknown kind"},
		{"bad_int", "move box one 2", "x must be an integer"},
		{"zero_undo", "undo 0", "expected an integer >= 1"},
		{"negative_levels", "levels -1", "expected an integer >= 0"},
		{"bad_coalesce", "coalesce maybe", "coalesce mode must be one of"},
		{"bad_color", "color box chartreuse", "unknown color"},
		{"bad_hex", "color box #12345", "invalid hex color"},
		{"long_name", "add rect " + strings.Repeat("x", 65), "shape name too long"},
		{"long_rename", "rename box " + strings.Repeat("y", 65), "shape name too long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCommand(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrInvalidCommand)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestCommandHelpers(t *testing.T) {
	cmd, err := ParseCommand("color box red")
	require.NoError(t, err)
	assert.True(t, cmd.IsEdit())
	assert.Equal(t, "color box red", cmd.String())

	assert.False(t, Command{Op: OpUndo}.IsEdit())
	assert.Equal(t, "undo", Command{Op: OpUndo}.String())

	usage := Usage()
	assert.Len(t, usage, len(opSpecs))
	assert.Contains(t, usage, "move <name> <dx> <dy>")
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"a", "b c", "d"}, tokenize(`a "b c"  d`))
	assert.Equal(t, []string{"it's", "x"}, tokenize(`"it's" x`))
	assert.Equal(t, []string{"name", ""}, tokenize(`name ""`))
	assert.Nil(t, tokenize("   "))
}

// =============================================================================
// Scripts
// =============================================================================

const dragScript = `
name: drag
options:
  coalescing: true
  merge: keep_first
  levels_of_undo: 10
events:
  - add rect box 0 0
  - [move box 1 0, move box 1 0]
  - - color box red
    - rename box crate
  - undo
`

func TestParseScript(t *testing.T) {
	s, err := ParseScript([]byte(dragScript))
	require.NoError(t, err)

	assert.Equal(t, "drag", s.Name)
	require.NotNil(t, s.Options.Coalescing)
	assert.True(t, *s.Options.Coalescing)
	require.NotNil(t, s.Options.Merge)
	assert.Equal(t, "keep_first", *s.Options.Merge)
	require.NotNil(t, s.Options.LevelsOfUndo)
	assert.Equal(t, 10, *s.Options.LevelsOfUndo)
	assert.Nil(t, s.Options.RedoOrder)

	require.Len(t, s.Events, 4)
	assert.Len(t, s.Events[0].Commands, 1)
	assert.Len(t, s.Events[1].Commands, 2)
	assert.Len(t, s.Events[2].Commands, 2)
	assert.Equal(t, 7, s.CommandCount())

	assert.Equal(t, OpRename, s.Events[2].Commands[1].Op)
	assert.Equal(t, 11, s.Events[2].Commands[1].Line)
}

func TestParseScriptErrors(t *testing.T) {
	t.Run("bad_command_has_line", func(t *testing.T) {
		_, err := ParseScript([]byte("events:\n  - add rect box\n  - fly box\n"))
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrInvalidCommand)
		assert.Contains(t, err.Error(), "line 3:")
	})

	t.Run("nested_mapping", func(t *testing.T) {
		_, err := ParseScript([]byte("events:\n  - {add: box}\n"))
		assert.ErrorIs(t, err, errors.ErrInvalidScript)
	})

	t.Run("no_events", func(t *testing.T) {
		_, err := ParseScript([]byte("name: empty\n"))
		assert.ErrorIs(t, err, errors.ErrInvalidScript)
	})

	t.Run("malformed_yaml", func(t *testing.T) {
		_, err := ParseScript([]byte("events: [\n"))
		assert.ErrorIs(t, err, errors.ErrInvalidScript)
	})
}

func TestLoadScript(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte("events:\n  - add line l\n"), 0o600))

	s, err := LoadScript(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Name)

	_, err = LoadScript(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseLines(t *testing.T) {
	s, err := ParseLines([]string{"# setup", "add rect a", "", "  undo  "})
	require.NoError(t, err)
	require.Len(t, s.Events, 2)
	assert.Equal(t, 2, s.Events[0].Line)
	assert.Equal(t, OpUndo, s.Events[1].Commands[0].Op)

	_, err = ParseLines([]string{"add rect a", "bogus"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2:")
}

func TestParseErrorFormatting(t *testing.T) {
	_, err := ParseCommand("fly")
	var pe *ParseError
	require.ErrorAs(t, err, &pe)

	assert.Contains(t, pe.FormatWithExamples(), "Valid examples:")
	ue := pe.ToUserError()
	assert.Equal(t, "command", ue.Field)
	assert.Contains(t, ue.Suggestion, "add rect box 10 20")
	assert.ErrorIs(t, ue, errors.ErrInvalidCommand)
	assert.Equal(t, errors.CategoryUser, errors.Classify(ue))
}

// =============================================================================
// Timestamps
// =============================================================================

func TestParseTimestampAt(t *testing.T) {
	// Wednesday
	now := time.Date(2026, 3, 11, 15, 42, 10, 0, time.UTC)

	tests := []struct {
		input string
		want  time.Time
	}{
		{"", now},
		{"NOW", now},
		{"today", time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)},
		{"this hour", time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC)},
		{"last hour", time.Date(2026, 3, 11, 14, 0, 0, 0, time.UTC)},
		{"previous day", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)},
		{"this week", time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)},
		{"last week", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		{"current month", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"last month", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"this year", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"last year", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimestampAt(tt.input, now)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
		})
	}
}

func TestParseTimestampNatural(t *testing.T) {
	now := time.Now()

	got, err := ParseTimestamp("2 hours ago")
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(-2*time.Hour), got, time.Minute)

	_, err = ParseTimestamp("not a time at all")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidTimestamp)
}

func TestPeriodStartSunday(t *testing.T) {
	sunday := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	got := periodStart(sunday, "this", "week")
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), got)
}
