package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/undoctl/internal/errors"
	"github.com/manav03panchal/undoctl/internal/model"
	"github.com/manav03panchal/undoctl/internal/parser"
	"github.com/manav03panchal/undoctl/internal/storage"
	"github.com/manav03panchal/undoctl/internal/validate"
)

var (
	journalSince   string
	journalLimit   int
	journalClear   bool
	journalSession string
	journalKinds   []string
)

// journalCmd lists the undo history journal.
var journalCmd = &cobra.Command{
	Use:     "journal",
	Aliases: []string{"log", "history"},
	Short:   "Show the undo history journal",
	Long: `Show journal entries: every committed or discarded group, every undo and
every redo of past sessions, oldest first.

--since accepts natural language such as "1 hour ago", "yesterday",
"this week" or an absolute date.

Examples:
  undoctl journal
  undoctl journal --since yesterday --kind undo --kind redo
  undoctl journal --session 0199a1b2 --limit 0
  undoctl journal --clear`,
	Args: cobra.NoArgs,
	RunE: runJournal,
}

func init() {
	journalCmd.Flags().StringVar(&journalSince, "since", "", "Only entries at or after this time")
	journalCmd.Flags().IntVarP(&journalLimit, "limit", "n", 20, "Show the most recent N entries (0 for all)")
	journalCmd.Flags().BoolVar(&journalClear, "clear", false, "Remove every journal entry")
	journalCmd.Flags().StringVar(&journalSession, "session", "", "Only entries of this session (ID or prefix)")
	journalCmd.Flags().StringSliceVar(&journalKinds, "kind", nil, "Only entries of these kinds: commit, discard, undo, redo")
	_ = journalCmd.RegisterFlagCompletionFunc("kind", completeJournalKinds)
	rootCmd.AddCommand(journalCmd)
}

func runJournal(cmd *cobra.Command, args []string) error {
	repo, err := rt.RequireJournal()
	if err != nil {
		return err
	}

	if journalClear {
		removed, err := repo.Clear()
		if err != nil {
			return err
		}
		if rt.IsJSON() {
			return rt.JSONFormatter().PrintCleared(removed)
		}
		rt.CLIFormatter().Success(fmt.Sprintf("Removed %d journal entries", removed))
		return nil
	}

	filter, err := journalFilter()
	if err != nil {
		return err
	}

	// The session filter matches ID prefixes, so it is applied after the
	// scan and the limit is applied here too.
	limit := filter.Limit
	if journalSession != "" {
		filter.Limit = 0
	}
	entries, err := repo.List(filter)
	if err != nil {
		return err
	}
	if journalSession != "" {
		entries = slices.DeleteFunc(entries, func(e *model.JournalEntry) bool {
			return !strings.HasPrefix(e.SessionID, journalSession)
		})
		if limit > 0 && len(entries) > limit {
			entries = entries[len(entries)-limit:]
		}
	}

	total, err := repo.Count()
	if err != nil {
		return err
	}

	if rt.IsJSON() {
		return rt.JSONFormatter().PrintJournal(entries, total)
	}
	cli := rt.CLIFormatter()
	cli.PrintJournal(entries)
	if len(entries) > 0 && len(entries) < total {
		cli.Muted(fmt.Sprintf("%d of %d entries", len(entries), total))
	}
	return nil
}

func journalFilter() (storage.JournalFilter, error) {
	if err := validate.InRange("limit", journalLimit, 0, -1); err != nil {
		return storage.JournalFilter{}, err
	}
	filter := storage.JournalFilter{Limit: journalLimit}

	if journalSince != "" {
		since, err := parser.ParseTimestamp(journalSince)
		if err != nil {
			return storage.JournalFilter{}, err
		}
		filter.Since = since
	}

	for _, k := range journalKinds {
		kind := model.JournalKind(strings.ToLower(strings.TrimSpace(k)))
		if !slices.Contains(model.ValidJournalKinds, kind) {
			return storage.JournalFilter{}, errors.NewUserErrorWithField("kind", k,
				"unknown journal kind", "Use commit, discard, undo or redo")
		}
		filter.Kinds = append(filter.Kinds, kind)
	}
	return filter, nil
}
