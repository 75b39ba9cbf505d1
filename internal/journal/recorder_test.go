package journal

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/undoctl/internal/logging"
	"github.com/manav03panchal/undoctl/internal/model"
	"github.com/manav03panchal/undoctl/internal/storage"
	"github.com/manav03panchal/undoctl/internal/undo"
)

type memSink struct {
	entries []*model.JournalEntry
	fail    error
}

func (s *memSink) Append(e *model.JournalEntry) error {
	if s.fail != nil {
		return s.fail
	}
	s.entries = append(s.entries, e)
	return nil
}

type counter struct{ n int }

func newManager() *undo.Manager {
	opts := undo.DefaultOptions()
	opts.GroupsByEvent = false
	return undo.New(opts)
}

func edit(t *testing.T, m *undo.Manager, c *counter, name string) {
	t.Helper()
	m.BeginGrouping()
	m.SetActionName(name)
	require.NoError(t, undo.Register(m, c, "inc", func(c *counter, _ any) {
		c.n--
		_ = undo.Register(m, c, "inc", func(c *counter, _ any) { c.n++ }, nil)
	}, nil))
	c.n++
	require.NoError(t, m.EndGrouping())
}

func kinds(entries []*model.JournalEntry) []model.JournalKind {
	out := make([]model.JournalKind, len(entries))
	for i, e := range entries {
		out[i] = e.Kind
	}
	return out
}

func TestRecorderEntries(t *testing.T) {
	sink := &memSink{}
	ctx := logging.WithSessionID(context.Background(), "sess-9")
	rec := NewRecorder(ctx, sink)
	m := newManager()
	detach := rec.Attach(m)

	c := &counter{}
	edit(t, m, c, "Bump")
	m.BeginGrouping()
	require.NoError(t, m.EndGrouping())
	require.NoError(t, m.Undo())
	require.NoError(t, m.Redo())

	assert.Equal(t, []model.JournalKind{
		model.JournalCommit,
		model.JournalDiscard,
		model.JournalUndo,
		model.JournalRedo,
	}, kinds(sink.entries))
	assert.Equal(t, 4, rec.Written())
	require.NoError(t, rec.Err())

	commit := sink.entries[0]
	assert.Equal(t, "sess-9", commit.SessionID)
	assert.Equal(t, "Bump", commit.ActionName)
	assert.Equal(t, 1, commit.TaskCount)
	assert.Equal(t, 1, commit.UndoDepth)
	assert.NotEmpty(t, commit.GroupID)
	assert.False(t, commit.Timestamp.IsZero())

	undone := sink.entries[2]
	assert.Equal(t, 0, undone.UndoDepth)
	assert.Equal(t, 1, undone.RedoDepth)
	assert.Equal(t, commit.GroupID, undone.GroupID)

	detach()
	edit(t, m, c, "Again")
	assert.Len(t, sink.entries, 4)
}

func TestRecorderKeepsFirstError(t *testing.T) {
	boom := errors.New("disk on fire")
	sink := &memSink{fail: boom}
	rec := NewRecorder(context.Background(), sink)
	m := newManager()
	rec.Attach(m)

	c := &counter{}
	edit(t, m, c, "One")
	edit(t, m, c, "Two")

	assert.ErrorIs(t, rec.Err(), boom)
	assert.Zero(t, rec.Written())
}

func TestRecorderWithBadger(t *testing.T) {
	db, err := storage.Open(storage.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := storage.NewJournalRepo(db)

	ctx := logging.NewSessionContext()
	rec := NewRecorder(ctx, repo)
	m := newManager()
	rec.Attach(m)

	c := &counter{}
	edit(t, m, c, "A")
	edit(t, m, c, "B")
	require.NoError(t, m.Undo())

	entries, err := repo.List(storage.JournalFilter{SessionID: logging.SessionIDFromContext(ctx)})
	require.NoError(t, err)
	assert.Equal(t, []model.JournalKind{model.JournalCommit, model.JournalCommit, model.JournalUndo}, kinds(entries))
	assert.Equal(t, "B", entries[2].ActionName)
}
