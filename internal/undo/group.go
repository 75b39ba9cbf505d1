package undo

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Group is an ordered collection of tasks that is undone or redone as one
// step. Groups own their tasks and may contain other groups.
type Group struct {
	taskBase
	id         uuid.UUID
	actionName string
	tasks      []Task
	createdAt  time.Time
}

// NewGroup creates an empty group.
func NewGroup() *Group {
	return &Group{
		id:        uuid.Must(uuid.NewV7()),
		createdAt: time.Now(),
	}
}

// ID returns the group's time-sortable identifier.
func (g *Group) ID() uuid.UUID {
	return g.id
}

// CreatedAt returns when the group was opened.
func (g *Group) CreatedAt() time.Time {
	return g.createdAt
}

// ActionName returns the descriptive name of the group, if any.
func (g *Group) ActionName() string {
	return g.actionName
}

// SetActionName sets the descriptive name of the group.
func (g *Group) SetActionName(name string) {
	g.actionName = name
}

// AddTask appends task to the group and makes the group its parent.
func (g *Group) AddTask(task Task) {
	if task == nil {
		return
	}
	task.setParentGroup(g)
	g.tasks = append(g.tasks, task)
}

// Len returns the number of direct tasks.
func (g *Group) Len() int {
	return len(g.tasks)
}

// TaskAt returns the task at index i, or nil if i is out of range.
func (g *Group) TaskAt(i int) Task {
	if i < 0 || i >= len(g.tasks) {
		return nil
	}
	return g.tasks[i]
}

// Tasks returns a copy of the direct tasks in append order.
func (g *Group) Tasks() []Task {
	return slices.Clone(g.tasks)
}

// LastTaskIfConcrete returns the most recently appended task if it is a
// ConcreteTask.
func (g *Group) LastTaskIfConcrete() *ConcreteTask {
	if len(g.tasks) == 0 {
		return nil
	}
	ct, _ := g.tasks[len(g.tasks)-1].(*ConcreteTask)
	return ct
}

// TasksMatching returns the direct concrete tasks with the given target and
// action. A nil target or empty action acts as a wildcard.
func (g *Group) TasksMatching(target any, action string) []*ConcreteTask {
	var matches []*ConcreteTask
	for _, t := range g.tasks {
		if ct, ok := t.(*ConcreteTask); ok && ct.Matches(target, action) {
			matches = append(matches, ct)
		}
	}
	return matches
}

// IsEmpty reports whether the group has no concrete tasks anywhere beneath
// it. A tree of empty sub-groups is empty.
func (g *Group) IsEmpty() bool {
	for _, t := range g.tasks {
		if !t.IsEmpty() {
			return false
		}
	}
	return true
}

// Count returns the number of concrete tasks beneath the group.
func (g *Group) Count() int {
	n := 0
	for _, t := range g.tasks {
		switch task := t.(type) {
		case *Group:
			n += task.Count()
		case *ConcreteTask:
			n++
		}
	}
	return n
}

// Perform performs the tasks in reverse append order, recursing into
// sub-groups.
func (g *Group) Perform() {
	g.perform(true, nil)
}

// perform walks the tasks in the given direction. visit, when non-nil, is
// called for each concrete task instead of performing it directly.
func (g *Group) perform(reverse bool, visit func(*ConcreteTask)) {
	n := len(g.tasks)
	for i := range n {
		idx := i
		if reverse {
			idx = n - 1 - i
		}
		switch t := g.tasks[idx].(type) {
		case *Group:
			t.perform(reverse, visit)
		case *ConcreteTask:
			if visit != nil {
				visit(t)
			} else {
				t.Perform()
			}
		default:
			t.Perform()
		}
	}
}

// RemoveTasksWithTarget removes every concrete task referring to target,
// recursively, and prunes sub-groups left empty. It returns the number of
// tasks removed.
func (g *Group) RemoveTasksWithTarget(target any) int {
	return g.removeTasksWithTarget(target, nil)
}

// removeTasksWithTarget is RemoveTasksWithTarget with a guard: sub-groups for
// which keep returns true are never pruned, even when empty.
func (g *Group) removeTasksWithTarget(target any, keep func(*Group) bool) int {
	removed := 0
	kept := g.tasks[:0]
	for _, t := range g.tasks {
		switch task := t.(type) {
		case *ConcreteTask:
			if task.RefersTo(target) {
				removed++
				continue
			}
		case *Group:
			n := task.removeTasksWithTarget(target, keep)
			removed += n
			if n > 0 && task.IsEmpty() && (keep == nil || !keep(task)) {
				continue
			}
		}
		kept = append(kept, t)
	}
	clear(g.tasks[len(kept):])
	g.tasks = kept
	return removed
}
