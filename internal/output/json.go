package output

import (
	"time"

	"github.com/manav03panchal/undoctl/internal/errors"
	"github.com/manav03panchal/undoctl/internal/model"
	"github.com/manav03panchal/undoctl/internal/session"
)

// JSONFormatter provides JSON-specific formatting.
type JSONFormatter struct {
	*Formatter
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(f *Formatter) *JSONFormatter {
	return &JSONFormatter{Formatter: f}
}

// RunResponse is the output of a script run.
type RunResponse struct {
	Status string `json:"status"`
	*session.Result
}

// NewRunResponse creates a RunResponse. The status is "ok" or "failed".
func NewRunResponse(res *session.Result) *RunResponse {
	status := "ok"
	if res.Failed > 0 {
		status = "failed"
	}
	return &RunResponse{Status: status, Result: res}
}

// JournalEntryOutput represents a journal entry in JSON output.
type JournalEntryOutput struct {
	Key         string `json:"key"`
	SessionID   string `json:"session_id"`
	Kind        string `json:"kind"`
	GroupID     string `json:"group_id,omitempty"`
	ActionName  string `json:"action_name,omitempty"`
	TaskCount   int    `json:"task_count"`
	UndoDepth   int    `json:"undo_depth"`
	RedoDepth   int    `json:"redo_depth"`
	ChangeCount int    `json:"change_count"`
	Timestamp   string `json:"timestamp"`
}

// NewJournalEntryOutput creates a JournalEntryOutput from an entry.
func NewJournalEntryOutput(e *model.JournalEntry) *JournalEntryOutput {
	return &JournalEntryOutput{
		Key:         e.Key,
		SessionID:   e.SessionID,
		Kind:        string(e.Kind),
		GroupID:     e.GroupID,
		ActionName:  e.ActionName,
		TaskCount:   e.TaskCount,
		UndoDepth:   e.UndoDepth,
		RedoDepth:   e.RedoDepth,
		ChangeCount: e.ChangeCount,
		Timestamp:   e.Timestamp.Format(time.RFC3339Nano),
	}
}

// JournalResponse represents the journal listing in JSON.
type JournalResponse struct {
	Entries    []*JournalEntryOutput `json:"entries"`
	ShownCount int                   `json:"shown_count"`
	TotalCount int                   `json:"total_count"`
}

// NewJournalResponse creates a JournalResponse.
func NewJournalResponse(entries []*model.JournalEntry, total int) *JournalResponse {
	out := make([]*JournalEntryOutput, len(entries))
	for i, e := range entries {
		out[i] = NewJournalEntryOutput(e)
	}
	return &JournalResponse{Entries: out, ShownCount: len(entries), TotalCount: total}
}

// ClearResponse reports a journal clear.
type ClearResponse struct {
	Status  string `json:"status"`
	Removed int    `json:"removed"`
}

// ErrorResponse represents an error in JSON.
type ErrorResponse struct {
	Status     string `json:"status"`
	Category   string `json:"category"`
	Error      string `json:"error"`
	Suggestion string `json:"suggestion,omitempty"`
}

// NewErrorResponse creates an ErrorResponse for err.
func NewErrorResponse(err error) *ErrorResponse {
	return &ErrorResponse{
		Status:     "error",
		Category:   errors.GetCategory(err).String(),
		Error:      err.Error(),
		Suggestion: errors.GetSuggestion(err),
	}
}

// PrintResult outputs a script run.
func (j *JSONFormatter) PrintResult(res *session.Result) error {
	return j.JSON(NewRunResponse(res))
}

// PrintSnapshot outputs the session state.
func (j *JSONFormatter) PrintSnapshot(snap session.Snapshot) error {
	return j.JSON(snap)
}

// PrintJournal outputs journal entries.
func (j *JSONFormatter) PrintJournal(entries []*model.JournalEntry, total int) error {
	return j.JSON(NewJournalResponse(entries, total))
}

// PrintCleared outputs a journal clear.
func (j *JSONFormatter) PrintCleared(removed int) error {
	return j.JSON(ClearResponse{Status: "cleared", Removed: removed})
}

// PrintError outputs an error.
func (j *JSONFormatter) PrintError(err error) error {
	return j.JSON(NewErrorResponse(err))
}
