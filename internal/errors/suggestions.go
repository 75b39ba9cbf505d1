package errors

import (
	"errors"

	"github.com/manav03panchal/undoctl/internal/drawing"
	"github.com/manav03panchal/undoctl/internal/undo"
)

// Suggestions maps common errors to helpful suggestions.
var Suggestions = map[error]string{
	// Undo engine
	undo.ErrNothingToUndo:      "Close any open group with 'end' and check the history with 'stack'.",
	undo.ErrNothingToRedo:      "Redo is only possible right after an undo; a new edit clears it.",
	undo.ErrUnbalancedGrouping: "Every 'begin' needs a matching 'end', or enable groups_by_event.",
	undo.ErrUnbalancedEnable:   "Every 'enable' needs a preceding 'disable'.",

	// Drawing
	drawing.ErrShapeNotFound: "Use 'list' to see the shapes on the canvas.",
	drawing.ErrDuplicateName: "Shape names must be unique; pick another name or 'rename' the existing shape.",
	drawing.ErrInvalidShape:  "Shapes need a name and one of the kinds rect, ellipse, line or text.",

	// Input
	ErrInvalidScript:    "Scripts are YAML with a list of 'events', each a command or a list of commands.",
	ErrInvalidCommand:   "Run 'undoctl run --help' for the command reference.",
	ErrInvalidTimestamp: "Try formats like '2 hours ago', 'yesterday', 'this week' or '2026-01-02'.",
	ErrInvalidConfig:    "Run 'undoctl config' to see the effective configuration.",
	ErrJournalDisabled:  "Unset --no-journal or set storage.journal to true.",
	ErrNotATerminal:     "The shell needs an interactive terminal; use 'undoctl run' for scripts.",

	// System errors
	ErrDiskFull:          "Free up disk space and try again.",
	ErrDatabaseCorrupted: "Clear the journal with 'undoctl journal --clear'.",
	ErrLockHeld:          "Another undoctl process has the journal open. Close it or use --no-journal.",
	ErrPermissionDenied:  "Check file permissions in your data directory (~/.local/share/undoctl/).",
}

// GetSuggestion returns a suggestion for an error, if available.
// It walks the error chain to find matching suggestions.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	// An explicit suggestion wins over the generic one for its sentinel.
	if ue, ok := AsUserError(err); ok && ue.Suggestion != "" {
		return ue.Suggestion
	}

	for knownErr, suggestion := range Suggestions {
		if errors.Is(err, knownErr) {
			return suggestion
		}
	}

	return ""
}

// CommandExamples provides example commands for common errors.
var CommandExamples = map[error][]string{
	ErrInvalidCommand: {
		"add rect box 10 20",
		"move box 5 0",
		"color box red",
		"undo 2",
	},
	ErrInvalidTimestamp: {
		"undoctl journal --since '1 hour ago'",
		"undoctl journal --since yesterday",
		"undoctl journal --since 'this week'",
	},
	drawing.ErrInvalidShape: {
		"add rect box",
		"add ellipse sun 40 5",
		"add text title 0 0",
	},
}

// GetExamples returns example commands for an error.
func GetExamples(err error) []string {
	for knownErr, examples := range CommandExamples {
		if errors.Is(err, knownErr) {
			return examples
		}
	}
	return nil
}
