package model

import (
	"fmt"
	"strings"
	"time"
)

// JournalKind is the kind of undo history event a journal entry records.
type JournalKind string

const (
	// JournalCommit is a top-level group pushed by a user edit.
	JournalCommit JournalKind = "commit"
	// JournalDiscard is an empty top-level group that was dropped.
	JournalDiscard JournalKind = "discard"
	JournalUndo    JournalKind = "undo"
	JournalRedo    JournalKind = "redo"
)

// ValidJournalKinds lists every journal kind.
var ValidJournalKinds = []JournalKind{JournalCommit, JournalDiscard, JournalUndo, JournalRedo}

// JournalEntry records one change to an undo history.
type JournalEntry struct {
	Key         string      `json:"key"`
	SessionID   string      `json:"session_id"`
	Kind        JournalKind `json:"kind"`
	GroupID     string      `json:"group_id"`
	ActionName  string      `json:"action_name,omitempty"`
	TaskCount   int         `json:"task_count"`
	UndoDepth   int         `json:"undo_depth"`
	RedoDepth   int         `json:"redo_depth"`
	ChangeCount int         `json:"change_count"`
	Timestamp   time.Time   `json:"timestamp"`
}

// SetKey sets the database key for this entry.
func (e *JournalEntry) SetKey(key string) {
	e.Key = key
}

// GetKey returns the database key for this entry.
func (e *JournalEntry) GetKey() string {
	return e.Key
}

// Title returns a short human description such as "undo Move".
func (e *JournalEntry) Title() string {
	if e.ActionName == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s %s", e.Kind, e.ActionName)
}

// GenerateJournalKey generates a database key for an entry from a
// time-sortable ID.
func GenerateJournalKey(id string) string {
	return fmt.Sprintf("%s:%s", PrefixJournal, id)
}

// ParseJournalKey extracts the ID from a journal key.
func ParseJournalKey(key string) (string, bool) {
	return strings.CutPrefix(key, PrefixJournal+":")
}
