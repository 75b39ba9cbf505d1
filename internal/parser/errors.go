package parser

import (
	"fmt"
	"strings"

	"github.com/manav03panchal/undoctl/internal/errors"
)

// ParseError describes input that could not be parsed, with the position
// in a script when known and examples of valid input.
type ParseError struct {
	Input    string
	Field    string
	Line     int
	Message  string
	Examples []string
	// Kind is the sentinel this error matches with errors.Is.
	Kind error
}

func (e *ParseError) Error() string {
	var sb strings.Builder
	if e.Line > 0 {
		fmt.Fprintf(&sb, "line %d: ", e.Line)
	}
	fmt.Fprintf(&sb, "invalid %s", e.Field)
	if e.Input != "" {
		fmt.Fprintf(&sb, " '%s'", e.Input)
	}
	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	return sb.String()
}

func (e *ParseError) Unwrap() error {
	return e.Kind
}

// FormatWithExamples returns the error message with example input.
func (e *ParseError) FormatWithExamples() string {
	var sb strings.Builder
	sb.WriteString(e.Error())
	if len(e.Examples) > 0 {
		sb.WriteString("\n\nValid examples:\n")
		for _, ex := range e.Examples {
			sb.WriteString("  - ")
			sb.WriteString(ex)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// ToUserError converts the error to a UserError for consistent handling.
func (e *ParseError) ToUserError() *errors.UserError {
	suggestion := ""
	if len(e.Examples) > 0 {
		suggestion = "Try: " + strings.Join(e.Examples[:min(3, len(e.Examples))], ", ")
	}
	ue := errors.NewUserError(e.Error(), suggestion)
	ue.Field = e.Field
	ue.Cause = e
	return ue
}

// CommandExamples provides example session commands.
var CommandExamples = []string{
	"add rect box 10 20",
	"move box 5 -2",
	"color box red",
	"rename box crate",
	"undo 2",
}

// TimestampExamples provides example --since values.
var TimestampExamples = []string{
	"1 hour ago",
	"yesterday",
	"this week",
	"2026-01-02 15:04",
	"now",
}

func newCommandError(input, message string) *ParseError {
	return &ParseError{
		Input:    input,
		Field:    "command",
		Message:  message,
		Examples: CommandExamples,
		Kind:     errors.ErrInvalidCommand,
	}
}

func newScriptError(line int, message string) *ParseError {
	return &ParseError{
		Field:   "script",
		Line:    line,
		Message: message,
		Kind:    errors.ErrInvalidScript,
	}
}

// NewTimestampError creates a timestamp parse error with standard examples.
func NewTimestampError(input string) *ParseError {
	return &ParseError{
		Input:    input,
		Field:    "timestamp",
		Message:  "could not parse time",
		Examples: TimestampExamples,
		Kind:     errors.ErrInvalidTimestamp,
	}
}
