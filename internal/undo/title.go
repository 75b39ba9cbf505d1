package undo

// TitleFormatter builds menu item titles from action names.
type TitleFormatter interface {
	UndoMenuTitle(actionName string) string
	RedoMenuTitle(actionName string) string
}

// DefaultTitles formats titles as "Undo <name>" and "Redo <name>".
type DefaultTitles struct{}

// UndoMenuTitle returns the undo title for actionName.
func (DefaultTitles) UndoMenuTitle(actionName string) string {
	if actionName == "" {
		return "Undo"
	}
	return "Undo " + actionName
}

// RedoMenuTitle returns the redo title for actionName.
func (DefaultTitles) RedoMenuTitle(actionName string) string {
	if actionName == "" {
		return "Redo"
	}
	return "Redo " + actionName
}
