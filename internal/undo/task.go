package undo

import "weak"

// Task is a reversible unit of work. Tasks are owned by the Group they were
// added to; ParentGroup is a back-reference and never implies ownership.
type Task interface {
	// Perform runs the task.
	Perform()
	// ParentGroup returns the group the task was added to, or nil.
	ParentGroup() *Group
	// IsEmpty reports whether the task has no concrete work in it.
	IsEmpty() bool

	setParentGroup(g *Group)
}

// taskBase carries the parent back-reference shared by all tasks.
type taskBase struct {
	parent *Group
}

// ParentGroup returns the owning group, or nil for a top-level group.
func (t *taskBase) ParentGroup() *Group {
	return t.parent
}

// setParentGroup sets the back-reference. It can only be set once.
func (t *taskBase) setParentGroup(g *Group) {
	if t.parent == nil {
		t.parent = g
	}
}

// InvocationKind tags how a ConcreteTask was registered.
type InvocationKind int

const (
	// InvokeDirect is a task registered with an explicit target.
	InvokeDirect InvocationKind = iota
	// InvokeForwarded is a task registered through Prepare, using the
	// manager's one-shot prepared target.
	InvokeForwarded
)

// String returns the string representation of the kind.
func (k InvocationKind) String() string {
	if k == InvokeForwarded {
		return "forwarded"
	}
	return "direct"
}

// targetRef is an owning or non-owning handle to a task's target.
type targetRef interface {
	resolve() (any, bool)
	refersTo(target any) bool
	retained() bool
}

type strongRef[T any] struct {
	ptr *T
}

func (r strongRef[T]) resolve() (any, bool) {
	return r.ptr, r.ptr != nil
}

func (r strongRef[T]) refersTo(target any) bool {
	p, ok := target.(*T)
	return ok && p != nil && p == r.ptr
}

func (r strongRef[T]) retained() bool { return true }

type weakRef[T any] struct {
	ptr weak.Pointer[T]
}

func (r weakRef[T]) resolve() (any, bool) {
	p := r.ptr.Value()
	if p == nil {
		return nil, false
	}
	return p, true
}

// refersTo compares weak pointers, which stay comparable after the target
// has been collected.
func (r weakRef[T]) refersTo(target any) bool {
	p, ok := target.(*T)
	return ok && p != nil && weak.Make(p) == r.ptr
}

func (r weakRef[T]) retained() bool { return false }

// ConcreteTask is a leaf task wrapping one deferred call: the target, the
// action identifying the operation, and the argument captured when the task
// was registered.
type ConcreteTask struct {
	taskBase
	ref    targetRef
	action string
	arg    any
	call   func(target, arg any)
	kind   InvocationKind
}

// NewTask creates a task that calls fn(target, arg) when performed. When
// retain is false the task only observes target and becomes a no-op once the
// target has been garbage collected.
func NewTask[T any](target *T, action string, fn func(*T, any), arg any, retain bool) *ConcreteTask {
	return newTask(target, action, fn, arg, retain, InvokeDirect)
}

func newTask[T any](target *T, action string, fn func(*T, any), arg any, retain bool, kind InvocationKind) *ConcreteTask {
	var ref targetRef
	if retain {
		ref = strongRef[T]{ptr: target}
	} else {
		ref = weakRef[T]{ptr: weak.Make(target)}
	}
	return &ConcreteTask{
		ref:    ref,
		action: action,
		arg:    arg,
		call: func(t, a any) {
			fn(t.(*T), a)
		},
		kind: kind,
	}
}

// Target returns the task's target, or nil if a weakly held target expired.
func (t *ConcreteTask) Target() any {
	v, _ := t.ref.resolve()
	return v
}

// Action returns the action identifier.
func (t *ConcreteTask) Action() string {
	return t.action
}

// Argument returns the argument captured at registration.
func (t *ConcreteTask) Argument() any {
	return t.arg
}

// Kind returns how the task was registered.
func (t *ConcreteTask) Kind() InvocationKind {
	return t.kind
}

// RetainsTarget reports whether the task holds a strong reference.
func (t *ConcreteTask) RetainsTarget() bool {
	return t.ref.retained()
}

// IsLive reports whether the target is still reachable.
func (t *ConcreteTask) IsLive() bool {
	_, ok := t.ref.resolve()
	return ok
}

// IsEmpty is always false for a concrete task.
func (t *ConcreteTask) IsEmpty() bool {
	return false
}

// RefersTo reports whether the task's target is target.
func (t *ConcreteTask) RefersTo(target any) bool {
	return t.ref.refersTo(target)
}

// Matches reports whether the task has the given target and action. A nil
// target or empty action matches anything.
func (t *ConcreteTask) Matches(target any, action string) bool {
	if target != nil && !t.ref.refersTo(target) {
		return false
	}
	return action == "" || action == t.action
}

// sameCall reports whether other targets the same receiver with the same
// action.
func (t *ConcreteTask) sameCall(other *ConcreteTask) bool {
	if t.action != other.action {
		return false
	}
	target, ok := other.ref.resolve()
	return ok && t.ref.refersTo(target)
}

// Perform invokes the deferred call. It does nothing when the target has
// expired.
func (t *ConcreteTask) Perform() {
	target, ok := t.ref.resolve()
	if !ok {
		return
	}
	t.call(target, t.arg)
}
