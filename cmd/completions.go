package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/undoctl/internal/model"
)

// journalKindHelp describes each journal kind for completion.
var journalKindHelp = map[model.JournalKind]string{
	model.JournalCommit:  "groups pushed by edits",
	model.JournalDiscard: "empty groups that were dropped",
	model.JournalUndo:    "undone groups",
	model.JournalRedo:    "redone groups",
}

// completeScripts completes session script files.
func completeScripts(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeJournalKinds completes the journal --kind flag.
func completeJournalKinds(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var completions []string
	for _, kind := range model.ValidJournalKinds {
		if strings.HasPrefix(string(kind), toComplete) {
			completions = append(completions, string(kind)+"\t"+journalKindHelp[kind])
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}
