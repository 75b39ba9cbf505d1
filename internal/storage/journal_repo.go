package storage

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/manav03panchal/undoctl/internal/model"
)

// JournalRepo provides operations for JournalEntry records. Keys embed a
// UUID v7, so key order is append order.
type JournalRepo struct {
	db *DB
}

// NewJournalRepo creates a new journal repository.
func NewJournalRepo(db *DB) *JournalRepo {
	return &JournalRepo{db: db}
}

// JournalFilter selects journal entries.
type JournalFilter struct {
	// Since keeps entries at or after this time. Zero means no bound.
	Since time.Time
	// SessionID keeps entries of one session. Empty means all sessions.
	SessionID string
	// Kinds keeps entries of the given kinds. Empty means all kinds.
	Kinds []model.JournalKind
	// Limit keeps only the most recent entries. 0 means no limit.
	Limit int
}

func (f JournalFilter) match(e *model.JournalEntry) bool {
	if !f.Since.IsZero() && e.Timestamp.Before(f.Since) {
		return false
	}
	if f.SessionID != "" && e.SessionID != f.SessionID {
		return false
	}
	if len(f.Kinds) > 0 && !slices.Contains(f.Kinds, e.Kind) {
		return false
	}
	return true
}

// Append stores entry under a new time-sortable key.
func (r *JournalRepo) Append(entry *model.JournalEntry) error {
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}
	entry.Key = model.GenerateJournalKey(id.String())
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	return wrapWriteError("append journal entry", r.db.Set(entry))
}

// Get retrieves an entry by key.
func (r *JournalRepo) Get(key string) (*model.JournalEntry, error) {
	entry := &model.JournalEntry{}
	if err := r.db.Get(key, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// List returns the entries matching filter, oldest first. With a limit it
// returns the most recent matches.
func (r *JournalRepo) List(filter JournalFilter) ([]*model.JournalEntry, error) {
	entries, err := GetFilteredByPrefix(r.db, model.PrefixJournal+":", func() *model.JournalEntry {
		return &model.JournalEntry{}
	}, filter.match, ScanOptions{Reverse: true, Limit: filter.Limit})
	if err != nil {
		return nil, err
	}
	slices.Reverse(entries)
	return entries, nil
}

// Count returns the number of stored entries.
func (r *JournalRepo) Count() (int, error) {
	keys, err := r.db.ListByPrefix(model.PrefixJournal + ":")
	return len(keys), err
}

// Clear removes every entry and returns how many were removed.
func (r *JournalRepo) Clear() (int, error) {
	return r.db.DeleteByPrefix(model.PrefixJournal + ":")
}
