package undo

import "errors"

// Errors returned for misuse of the Manager. Callers match them with
// errors.Is; the returned values wrap these with the failing operation.
var (
	ErrUnbalancedGrouping  = errors.New("unbalanced undo grouping")
	ErrUnbalancedEnable    = errors.New("unbalanced undo registration enable")
	ErrNothingToUndo       = errors.New("nothing to undo")
	ErrNothingToRedo       = errors.New("nothing to redo")
	ErrRemovalDuringReplay = errors.New("cannot remove actions while undoing or redoing")
	ErrNoTarget            = errors.New("undo task has no target")
)
