package session

import (
	"fmt"
	"slices"
	"time"

	"github.com/manav03panchal/undoctl/internal/drawing"
	"github.com/manav03panchal/undoctl/internal/undo"
)

// TaskInfo describes one entry of a group.
type TaskInfo struct {
	Action string `json:"action"`
	Target string `json:"target"`
	// Group is set when the entry is a nested group.
	Group *GroupInfo `json:"group,omitempty"`
}

// GroupInfo describes a group on a stack or the open group.
type GroupInfo struct {
	ID        string     `json:"id"`
	Name      string     `json:"name,omitempty"`
	Count     int        `json:"count"`
	CreatedAt time.Time  `json:"created_at"`
	Tasks     []TaskInfo `json:"tasks"`
}

// Snapshot is the observable state of a session.
type Snapshot struct {
	State          string          `json:"state"`
	GroupingLevel  int             `json:"grouping_level"`
	ChangeCount    int             `json:"change_count"`
	LevelsOfUndo   int             `json:"levels_of_undo"`
	Coalescing     bool            `json:"coalescing"`
	CoalescingKind string          `json:"coalescing_kind"`
	UndoTitle      string          `json:"undo_title"`
	RedoTitle      string          `json:"redo_title"`
	Open           *GroupInfo      `json:"open,omitempty"`
	Undo           []GroupInfo     `json:"undo"`
	Redo           []GroupInfo     `json:"redo"`
	Shapes         []drawing.Shape `json:"shapes"`
}

// Capture takes a snapshot of m and d. Stacks are listed top first.
func Capture(m *undo.Manager, d *drawing.Drawing) Snapshot {
	snap := Snapshot{
		State:          m.State().String(),
		GroupingLevel:  m.GroupingLevel(),
		ChangeCount:    m.ChangeCount(),
		LevelsOfUndo:   m.LevelsOfUndo(),
		Coalescing:     m.IsCoalescingEnabled(),
		CoalescingKind: m.CoalescingKind().String(),
		UndoTitle:      m.UndoMenuItemTitle(),
		RedoTitle:      m.RedoMenuItemTitle(),
		Undo:           describeStack(m.UndoStack()),
		Redo:           describeStack(m.RedoStack()),
		Shapes:         []drawing.Shape{},
	}
	if d != nil {
		snap.Shapes = d.Shapes()
	}
	if g := m.CurrentGroup(); g != nil {
		root := g
		for root.ParentGroup() != nil {
			root = root.ParentGroup()
		}
		info := DescribeGroup(root)
		snap.Open = &info
	}
	return snap
}

func describeStack(stack []*undo.Group) []GroupInfo {
	out := make([]GroupInfo, 0, len(stack))
	for _, g := range slices.Backward(stack) {
		out = append(out, DescribeGroup(g))
	}
	return out
}

// DescribeGroup describes g and its nested groups.
func DescribeGroup(g *undo.Group) GroupInfo {
	info := GroupInfo{
		ID:        g.ID().String(),
		Name:      g.ActionName(),
		Count:     g.Count(),
		CreatedAt: g.CreatedAt(),
		Tasks:     make([]TaskInfo, 0, g.Len()),
	}
	for _, t := range g.Tasks() {
		switch task := t.(type) {
		case *undo.ConcreteTask:
			info.Tasks = append(info.Tasks, TaskInfo{
				Action: task.Action(),
				Target: targetLabel(task.Target()),
			})
		case *undo.Group:
			child := DescribeGroup(task)
			info.Tasks = append(info.Tasks, TaskInfo{Action: "group", Group: &child})
		}
	}
	return info
}

func targetLabel(target any) string {
	switch t := target.(type) {
	case nil:
		return "(released)"
	case *drawing.Shape:
		return t.Name
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%T", t)
	}
}
