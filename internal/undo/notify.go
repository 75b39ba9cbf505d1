package undo

// NotificationKind identifies a Manager notification.
type NotificationKind int

const (
	// NotifyCheckpoint is posted when a task is accepted, when a group
	// opens or closes, and on Checkpoint.
	NotifyCheckpoint NotificationKind = iota
	NotifyDidOpenGroup
	NotifyWillCloseGroup
	// NotifyDidCloseGroup is posted when a top-level group is committed
	// to a stack or discarded; see Notification.Discarded.
	NotifyDidCloseGroup
	NotifyWillUndo
	NotifyDidUndo
	NotifyWillRedo
	NotifyDidRedo
)

// String returns the string representation of the kind.
func (k NotificationKind) String() string {
	switch k {
	case NotifyCheckpoint:
		return "checkpoint"
	case NotifyDidOpenGroup:
		return "did_open_group"
	case NotifyWillCloseGroup:
		return "will_close_group"
	case NotifyDidCloseGroup:
		return "did_close_group"
	case NotifyWillUndo:
		return "will_undo"
	case NotifyDidUndo:
		return "did_undo"
	case NotifyWillRedo:
		return "will_redo"
	case NotifyDidRedo:
		return "did_redo"
	default:
		return "unknown"
	}
}

// Notification describes a change in the Manager.
type Notification struct {
	Kind  NotificationKind
	State State
	// Group is the group the notification is about, if any.
	Group       *Group
	Discarded   bool
	UndoDepth   int
	RedoDepth   int
	ChangeCount int
}

// Observer receives Manager notifications. Observers run synchronously on
// the caller's goroutine and may call back into the Manager.
type Observer interface {
	UndoNotification(n Notification)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(n Notification)

// UndoNotification calls f(n).
func (f ObserverFunc) UndoNotification(n Notification) {
	f(n)
}

type observerEntry struct {
	id       int
	observer Observer
}

// Observe registers o and returns a function that unregisters it.
func (m *Manager) Observe(o Observer) (cancel func()) {
	m.nextObserverID++
	id := m.nextObserverID
	m.observers = append(m.observers, observerEntry{id: id, observer: o})
	return func() {
		for i, e := range m.observers {
			if e.id == id {
				m.observers = append(m.observers[:i:i], m.observers[i+1:]...)
				return
			}
		}
	}
}

func (m *Manager) notify(kind NotificationKind, g *Group, discarded bool) {
	if len(m.observers) == 0 {
		return
	}
	n := Notification{
		Kind:        kind,
		State:       m.state,
		Group:       g,
		Discarded:   discarded,
		UndoDepth:   len(m.undoStack),
		RedoDepth:   len(m.redoStack),
		ChangeCount: m.changeCount,
	}
	observers := append([]observerEntry(nil), m.observers...)
	for _, e := range observers {
		e.observer.UndoNotification(n)
	}
}
