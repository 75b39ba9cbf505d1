package undo

// CoalescingKind selects which entries of the open group an incoming task is
// compared against.
type CoalescingKind int

const (
	// CoalesceLastTask compares only against the most recently appended
	// task. Suited to property changes: ABBBBBBA becomes ABA.
	CoalesceLastTask CoalescingKind = iota
	// CoalesceAllMatchingTasks compares against every task in the open
	// group. Suited to repeated sequences: ABABABAB becomes AB.
	CoalesceAllMatchingTasks
)

// String returns the string representation of the kind.
func (k CoalescingKind) String() string {
	switch k {
	case CoalesceAllMatchingTasks:
		return "all"
	default:
		return "last"
	}
}

// MergeMode selects what happens to an existing entry when a task is
// coalesced into it.
type MergeMode int

const (
	// MergeRefresh replaces the entry's captured argument with the
	// incoming one. The entry keeps its position.
	MergeRefresh MergeMode = iota
	// MergeKeepFirst drops the incoming task and leaves the entry as it
	// was first registered, so undo restores the state from before the
	// first coalesced step.
	MergeKeepFirst
)

// String returns the string representation of the mode.
func (m MergeMode) String() string {
	if m == MergeKeepFirst {
		return "keep_first"
	}
	return "refresh"
}

// CoalescingPolicy decides whether a newly submitted task merges into an
// existing task of the open group. It never looks outside that group and
// never merges groups.
type CoalescingPolicy struct {
	Kind CoalescingKind
	Mode MergeMode
}

// Match returns the task in g that incoming would merge into, or nil.
func (p CoalescingPolicy) Match(g *Group, incoming *ConcreteTask) *ConcreteTask {
	if g == nil || incoming == nil {
		return nil
	}
	switch p.Kind {
	case CoalesceAllMatchingTasks:
		for _, t := range g.tasks {
			if ct, ok := t.(*ConcreteTask); ok && ct.sameCall(incoming) {
				return ct
			}
		}
		return nil
	default:
		last := g.LastTaskIfConcrete()
		if last != nil && last.sameCall(incoming) {
			return last
		}
		return nil
	}
}

// Coalesce merges incoming into a matching entry of g. It reports whether a
// merge happened; when it returns false the caller appends incoming.
func (p CoalescingPolicy) Coalesce(g *Group, incoming *ConcreteTask) bool {
	existing := p.Match(g, incoming)
	if existing == nil {
		return false
	}
	if p.Mode == MergeRefresh {
		existing.arg = incoming.arg
		existing.call = incoming.call
		existing.kind = incoming.kind
	}
	return true
}
