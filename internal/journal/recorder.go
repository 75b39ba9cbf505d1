// Package journal records the history of an undo manager: every committed
// or discarded group, every undo and every redo.
package journal

import (
	"context"
	"log/slog"
	"time"

	"github.com/manav03panchal/undoctl/internal/logging"
	"github.com/manav03panchal/undoctl/internal/model"
	"github.com/manav03panchal/undoctl/internal/undo"
)

// Appender stores journal entries.
type Appender interface {
	Append(entry *model.JournalEntry) error
}

// Recorder is an undo.Observer that turns notifications into journal
// entries. Append failures are logged and kept; the first one is returned
// by Err. Like the Manager it observes, a Recorder is not safe for
// concurrent use.
type Recorder struct {
	sink      Appender
	sessionID string
	logger    *slog.Logger
	now       func() time.Time

	written int
	err     error
}

// NewRecorder creates a recorder that appends to sink. The session ID and
// logger are taken from ctx.
func NewRecorder(ctx context.Context, sink Appender) *Recorder {
	return &Recorder{
		sink:      sink,
		sessionID: logging.SessionIDFromContext(ctx),
		logger:    logging.LoggerFromContext(ctx).With(logging.KeyComponent, "journal"),
		now:       time.Now,
	}
}

// Attach registers the recorder with m and returns the detach function.
func (r *Recorder) Attach(m *undo.Manager) (detach func()) {
	return m.Observe(r)
}

// UndoNotification implements undo.Observer.
func (r *Recorder) UndoNotification(n undo.Notification) {
	kind, ok := entryKind(n)
	if !ok {
		return
	}

	entry := &model.JournalEntry{
		SessionID:   r.sessionID,
		Kind:        kind,
		UndoDepth:   n.UndoDepth,
		RedoDepth:   n.RedoDepth,
		ChangeCount: n.ChangeCount,
		Timestamp:   r.now(),
	}
	if n.Group != nil {
		entry.GroupID = n.Group.ID().String()
		entry.ActionName = n.Group.ActionName()
		entry.TaskCount = n.Group.Count()
	}

	if err := r.sink.Append(entry); err != nil {
		r.logger.Warn("journal append failed", logging.KeyError, err, "kind", kind)
		if r.err == nil {
			r.err = err
		}
		return
	}
	r.written++
}

// entryKind maps a notification to the journal kind it records. Mirror
// groups closed during a replay are covered by the undo/redo entry.
func entryKind(n undo.Notification) (model.JournalKind, bool) {
	switch n.Kind {
	case undo.NotifyDidCloseGroup:
		if n.State != undo.StateCollecting {
			return "", false
		}
		if n.Discarded {
			return model.JournalDiscard, true
		}
		return model.JournalCommit, true
	case undo.NotifyDidUndo:
		return model.JournalUndo, true
	case undo.NotifyDidRedo:
		return model.JournalRedo, true
	}
	return "", false
}

// Written returns the number of entries appended.
func (r *Recorder) Written() int {
	return r.written
}

// Err returns the first append failure, if any.
func (r *Recorder) Err() error {
	return r.err
}
