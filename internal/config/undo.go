package config

import (
	"fmt"
	"strings"

	"github.com/manav03panchal/undoctl/internal/errors"
	"github.com/manav03panchal/undoctl/internal/parser"
	"github.com/manav03panchal/undoctl/internal/undo"
)

// ManagerOptions converts the undo section to manager options.
func (c UndoConfig) ManagerOptions() (undo.Options, error) {
	opts := undo.DefaultOptions()
	opts.LevelsOfUndo = c.LevelsOfUndo
	opts.Coalescing = c.Coalescing
	opts.GroupsByEvent = c.GroupsByEvent
	opts.AutoDiscardEmptyGroups = c.DiscardEmptyGroups
	opts.RetainsTargets = c.RetainsTargets

	if c.LevelsOfUndo < 0 {
		return undo.Options{}, invalidOption("levels_of_undo", fmt.Sprint(c.LevelsOfUndo), "must be 0 (unlimited) or more")
	}

	switch strings.ToLower(c.CoalescingKind) {
	case "", "last":
		opts.CoalescingKind = undo.CoalesceLastTask
	case "all":
		opts.CoalescingKind = undo.CoalesceAllMatchingTasks
	default:
		return undo.Options{}, invalidOption("coalescing_kind", c.CoalescingKind, "must be last or all")
	}

	switch strings.ToLower(c.Merge) {
	case "", "refresh":
		opts.Merge = undo.MergeRefresh
	case "keep_first":
		opts.Merge = undo.MergeKeepFirst
	default:
		return undo.Options{}, invalidOption("merge", c.Merge, "must be refresh or keep_first")
	}

	// Shape edits capture absolute state, so a redo group only restores
	// the pre-undo drawing when replayed most recent first.
	switch strings.ToLower(c.RedoOrder) {
	case "", "reverse":
		opts.RedoOrder = undo.ReplayReverse
	case "forward":
		opts.RedoOrder = undo.ReplayForward
	default:
		return undo.Options{}, invalidOption("redo_order", c.RedoOrder, "must be forward or reverse")
	}

	return opts, nil
}

// Apply returns c with the script's overrides applied.
func (c UndoConfig) Apply(o parser.ScriptOptions) UndoConfig {
	if o.LevelsOfUndo != nil {
		c.LevelsOfUndo = *o.LevelsOfUndo
	}
	if o.Coalescing != nil {
		c.Coalescing = *o.Coalescing
	}
	if o.CoalescingKind != nil {
		c.CoalescingKind = *o.CoalescingKind
	}
	if o.Merge != nil {
		c.Merge = *o.Merge
	}
	if o.RedoOrder != nil {
		c.RedoOrder = *o.RedoOrder
	}
	if o.GroupsByEvent != nil {
		c.GroupsByEvent = *o.GroupsByEvent
	}
	if o.DiscardEmptyGroups != nil {
		c.DiscardEmptyGroups = *o.DiscardEmptyGroups
	}
	if o.RetainsTargets != nil {
		c.RetainsTargets = *o.RetainsTargets
	}
	return c
}

func invalidOption(field, value, message string) error {
	ue := errors.NewUserErrorWithField("undo."+field, value,
		fmt.Sprintf("invalid undo.%s: %s", field, message),
		"Fix the value in your config file or UNDOCTL_UNDO_"+strings.ToUpper(field))
	ue.Cause = errors.ErrInvalidConfig
	return ue
}
