package undo

import (
	"fmt"
	"log/slog"
	"reflect"
	"slices"

	"github.com/manav03panchal/undoctl/internal/logging"
)

// State is the Manager's replay state.
type State int

const (
	// StateCollecting is the normal state: registrations are user edits.
	StateCollecting State = iota
	// StateUndoing is set while an undo group is being performed.
	StateUndoing
	// StateRedoing is set while a redo group is being performed.
	StateRedoing
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateUndoing:
		return "undoing"
	case StateRedoing:
		return "redoing"
	default:
		return "collecting"
	}
}

// ReplayOrder is the order in which redo performs a group's tasks.
type ReplayOrder int

const (
	// ReplayForward performs tasks in append order.
	ReplayForward ReplayOrder = iota
	// ReplayReverse performs tasks in reverse append order, the same
	// order undo uses.
	ReplayReverse
)

// String returns the string representation of the order.
func (o ReplayOrder) String() string {
	if o == ReplayReverse {
		return "reverse"
	}
	return "forward"
}

// Options configures a Manager.
type Options struct {
	// LevelsOfUndo caps the undo stack. 0 means unlimited.
	LevelsOfUndo int

	Coalescing     bool
	CoalescingKind CoalescingKind
	Merge          MergeMode

	// RedoOrder is the order redo performs the popped group's tasks.
	RedoOrder ReplayOrder

	// GroupsByEvent opens a top-level group on the first registration
	// and closes it at the next event boundary.
	GroupsByEvent bool

	// AutoDiscardEmptyGroups drops top-level groups with no concrete
	// tasks instead of pushing them.
	AutoDiscardEmptyGroups bool

	// RetainsTargets makes tasks hold strong references to targets.
	// Otherwise targets are weakly referenced and expired targets are
	// skipped on replay.
	RetainsTargets bool

	EventLoop EventLoop
	Titles    TitleFormatter
	Logger    *slog.Logger
}

// DefaultOptions returns the default manager options.
func DefaultOptions() Options {
	return Options{
		GroupsByEvent:          true,
		AutoDiscardEmptyGroups: true,
		RetainsTargets:         true,
		Titles:                 DefaultTitles{},
	}
}

// Manager records undoable actions and replays them. A Manager is owned by
// one undo scope and is not safe for concurrent use.
type Manager struct {
	undoStack []*Group
	redoStack []*Group

	current    *Group
	autoGroup  *Group
	groupLevel int

	levelsOfUndo int
	enableLevel  int
	changeCount  int
	state        State

	coalescing     bool
	policy         CoalescingPolicy
	redoOrder      ReplayOrder
	groupsByEvent  bool
	autoDiscard    bool
	retainsTargets bool

	nextTarget     any
	pendingName    string
	hasPendingName bool

	loop         EventLoop
	eventPending bool
	titles       TitleFormatter

	observers      []observerEntry
	nextObserverID int

	logger *slog.Logger
}

// New creates a Manager.
func New(opts Options) *Manager {
	m := &Manager{
		levelsOfUndo:   max(opts.LevelsOfUndo, 0),
		coalescing:     opts.Coalescing,
		policy:         CoalescingPolicy{Kind: opts.CoalescingKind, Mode: opts.Merge},
		redoOrder:      opts.RedoOrder,
		groupsByEvent:  opts.GroupsByEvent,
		autoDiscard:    opts.AutoDiscardEmptyGroups,
		retainsTargets: opts.RetainsTargets,
		loop:           opts.EventLoop,
		titles:         opts.Titles,
		logger:         opts.Logger,
	}
	if m.titles == nil {
		m.titles = DefaultTitles{}
	}
	if m.logger == nil {
		m.logger = logging.With(logging.KeyComponent, "undo")
	}
	return m
}

// =============================================================================
// Grouping
// =============================================================================

// BeginGrouping opens a group. With no group open it is a new top-level
// group; otherwise it is a child of the open group.
func (m *Manager) BeginGrouping() {
	g := NewGroup()
	if m.current == nil {
		if m.hasPendingName && m.state == StateCollecting {
			g.SetActionName(m.pendingName)
			m.pendingName, m.hasPendingName = "", false
		}
	} else {
		m.current.AddTask(g)
	}
	m.current = g
	m.groupLevel++
	m.notify(NotifyDidOpenGroup, g, false)
	m.notify(NotifyCheckpoint, g, false)
}

// EndGrouping closes the open group. Closing the last open group commits it
// to a stack, or discards it when it is empty and empty groups are
// discarded.
func (m *Manager) EndGrouping() error {
	if m.groupLevel == 0 || m.current == nil {
		return fmt.Errorf("end grouping: %w: no group is open", ErrUnbalancedGrouping)
	}
	closing := m.current
	m.notify(NotifyWillCloseGroup, closing, false)

	m.groupLevel--
	m.current = closing.ParentGroup()
	if m.groupLevel > 0 {
		m.notify(NotifyCheckpoint, m.current, false)
		return nil
	}

	m.current = nil
	if closing == m.autoGroup {
		m.autoGroup = nil
	}
	m.commit(closing)
	return nil
}

// commit places a closed top-level group on the stack matching the state.
func (m *Manager) commit(g *Group) {
	if g.IsEmpty() && m.autoDiscard {
		m.logger.Debug("discarding empty group", "group", g.ID(), "state", m.state)
		m.notify(NotifyDidCloseGroup, g, true)
		return
	}

	switch m.state {
	case StateUndoing:
		m.pushRedo(g)
	case StateRedoing:
		m.pushUndo(g)
	default:
		m.pushUndo(g)
		m.clearRedo()
	}
	m.logger.Debug("committed group",
		"group", g.ID(),
		"action", g.ActionName(),
		"tasks", g.Count(),
		"state", m.state,
	)
	m.notify(NotifyDidCloseGroup, g, false)
}

// GroupingLevel returns the nesting depth of open groups.
func (m *Manager) GroupingLevel() int {
	return m.groupLevel
}

// GroupsByEvent reports whether groups open and close by event.
func (m *Manager) GroupsByEvent() bool {
	return m.groupsByEvent
}

// SetGroupsByEvent enables or disables grouping by event.
func (m *Manager) SetGroupsByEvent(on bool) {
	m.groupsByEvent = on
}

// SetEventLoop sets the scheduler used for end-of-event callbacks. A nil
// loop means the host calls EndOfEvent itself.
func (m *Manager) SetEventLoop(loop EventLoop) {
	m.loop = loop
}

// EndOfEvent is the host's end-of-event signal. If grouping by event opened
// a top-level group that is still the only open group, it is closed.
func (m *Manager) EndOfEvent() {
	m.eventPending = false
	if !m.groupsByEvent || m.state != StateCollecting {
		return
	}
	if m.autoGroup == nil || m.groupLevel != 1 || m.current != m.autoGroup {
		return
	}
	if err := m.EndGrouping(); err != nil {
		m.logger.Debug("end of event", "error", err)
	}
}

// conditionallyBeginGrouping opens the event group if needed.
func (m *Manager) conditionallyBeginGrouping() {
	if m.current != nil || !m.groupsByEvent {
		return
	}
	m.BeginGrouping()
	m.autoGroup = m.current
	if m.loop != nil && !m.eventPending {
		m.eventPending = true
		m.loop.AfterEvent(m.EndOfEvent)
	}
}

// CurrentGroup returns the innermost open group, or nil.
func (m *Manager) CurrentGroup() *Group {
	return m.current
}

// =============================================================================
// Registration
// =============================================================================

// Register records a deferred call of fn(target, arg) with the manager.
// action identifies the operation for coalescing. Registration while
// disabled is silently ignored. With no group open and grouping by event
// off, it fails with ErrUnbalancedGrouping.
func Register[T any](m *Manager, target *T, action string, fn func(*T, any), arg any) error {
	if target == nil || fn == nil {
		return fmt.Errorf("register %q: %w", action, ErrNoTarget)
	}
	return m.SubmitTask(newTask(target, action, fn, arg, m.retainsTargets, InvokeDirect))
}

// Invocation forwards one deferred call to the target prepared by Prepare.
type Invocation[T any] struct {
	m *Manager
}

// Prepare sets target as the manager's next target and returns an
// Invocation that registers a call against it. The prepared target is used
// once.
func Prepare[T any](m *Manager, target *T) Invocation[T] {
	m.SetNextTarget(target)
	return Invocation[T]{m: m}
}

// Call registers fn(target, arg) against the prepared target.
func (inv Invocation[T]) Call(action string, fn func(*T, any), arg any) error {
	target, _ := inv.m.takeNextTarget().(*T)
	if target == nil || fn == nil {
		return fmt.Errorf("forward %q: %w: no prepared target", action, ErrNoTarget)
	}
	return inv.m.SubmitTask(newTask(target, action, fn, arg, inv.m.retainsTargets, InvokeForwarded))
}

// SetNextTarget prepares target for the next forwarded registration.
func (m *Manager) SetNextTarget(target any) {
	m.nextTarget = target
}

func (m *Manager) takeNextTarget() any {
	t := m.nextTarget
	m.nextTarget = nil
	return t
}

// SubmitTask adds a task to the open group, coalescing it if enabled.
func (m *Manager) SubmitTask(task *ConcreteTask) error {
	if task == nil {
		return fmt.Errorf("submit task: %w", ErrNoTarget)
	}
	if m.enableLevel > 0 {
		m.logger.Debug("registration disabled, dropping task", "action", task.Action())
		return nil
	}
	if m.current == nil {
		if m.state != StateCollecting {
			m.logger.Debug("no mirror group open, dropping task", "action", task.Action(), "state", m.state)
			return nil
		}
		m.conditionallyBeginGrouping()
		if m.current == nil {
			return fmt.Errorf("register %q: %w: no group is open", task.Action(), ErrUnbalancedGrouping)
		}
	}

	merged := m.coalescing && m.state == StateCollecting && m.policy.Coalesce(m.current, task)
	if !merged {
		m.current.AddTask(task)
	}
	m.changeCount++

	if m.state == StateCollecting {
		m.clearRedo()
	}
	m.notify(NotifyCheckpoint, m.current, false)
	return nil
}

// DisableRegistration disables registration. Calls nest.
func (m *Manager) DisableRegistration() {
	m.enableLevel++
}

// EnableRegistration balances a DisableRegistration.
func (m *Manager) EnableRegistration() error {
	if m.enableLevel == 0 {
		return fmt.Errorf("enable registration: %w: registration is not disabled", ErrUnbalancedEnable)
	}
	m.enableLevel--
	return nil
}

// IsRegistrationEnabled reports whether registrations are accepted.
func (m *Manager) IsRegistrationEnabled() bool {
	return m.enableLevel == 0
}

// =============================================================================
// Coalescing
// =============================================================================

// EnableCoalescing turns task coalescing on.
func (m *Manager) EnableCoalescing() {
	m.coalescing = true
}

// DisableCoalescing turns task coalescing off.
func (m *Manager) DisableCoalescing() {
	m.coalescing = false
}

// IsCoalescingEnabled reports whether coalescing is on.
func (m *Manager) IsCoalescingEnabled() bool {
	return m.coalescing
}

// CoalescingKind returns the coalescing kind.
func (m *Manager) CoalescingKind() CoalescingKind {
	return m.policy.Kind
}

// SetCoalescingKind sets the coalescing kind.
func (m *Manager) SetCoalescingKind(kind CoalescingKind) {
	m.policy.Kind = kind
}

// =============================================================================
// Undo and redo
// =============================================================================

// CanUndo reports whether there is something to undo and no replay is
// running.
func (m *Manager) CanUndo() bool {
	return len(m.undoStack) > 0 && m.state == StateCollecting
}

// CanRedo reports whether there is something to redo and no replay is
// running.
func (m *Manager) CanRedo() bool {
	return len(m.redoStack) > 0 && m.state == StateCollecting
}

// IsUndoing reports whether an undo is being performed.
func (m *Manager) IsUndoing() bool {
	return m.state == StateUndoing
}

// IsRedoing reports whether a redo is being performed.
func (m *Manager) IsRedoing() bool {
	return m.state == StateRedoing
}

// State returns the current replay state.
func (m *Manager) State() State {
	return m.state
}

// Undo pops the top undo group and performs its tasks in reverse order.
// Registrations made by those tasks are collected into a group pushed onto
// the redo stack.
func (m *Manager) Undo() error {
	if err := m.replayAllowed(m.undoStack, ErrNothingToUndo); err != nil {
		return fmt.Errorf("undo: %w", err)
	}
	top := m.undoStack[len(m.undoStack)-1]
	m.notify(NotifyWillUndo, top, false)

	g := m.popUndo()
	m.replay(g, StateUndoing, true)

	m.notify(NotifyDidUndo, g, false)
	return nil
}

// UndoNestedGroup undoes the top-level group. Only top-level groups are
// ever on the stack, so it is the same as Undo.
func (m *Manager) UndoNestedGroup() error {
	return m.Undo()
}

// Redo pops the top redo group and performs its tasks. Registrations made
// by those tasks are collected into a group pushed onto the undo stack.
func (m *Manager) Redo() error {
	if err := m.replayAllowed(m.redoStack, ErrNothingToRedo); err != nil {
		return fmt.Errorf("redo: %w", err)
	}
	top := m.redoStack[len(m.redoStack)-1]
	m.notify(NotifyWillRedo, top, false)

	g := m.popRedo()
	m.replay(g, StateRedoing, m.redoOrder == ReplayReverse)

	m.notify(NotifyDidRedo, g, false)
	return nil
}

func (m *Manager) replayAllowed(stack []*Group, sentinel error) error {
	switch {
	case m.state != StateCollecting:
		return fmt.Errorf("%w: already %s", sentinel, m.state)
	case m.groupLevel > 0:
		return fmt.Errorf("%w: a group is open", sentinel)
	case m.enableLevel > 0:
		return fmt.Errorf("%w: registration is disabled", sentinel)
	case len(stack) == 0:
		return sentinel
	}
	return nil
}

// replay performs g inside a mirror group and commits the mirror.
func (m *Manager) replay(g *Group, state State, reverse bool) {
	m.state = state
	defer func() {
		m.state = StateCollecting
	}()

	m.BeginGrouping()
	m.current.SetActionName(g.ActionName())

	g.perform(reverse, func(t *ConcreteTask) {
		if !t.IsLive() {
			m.logger.Debug("skipping task with expired target", "action", t.Action(), "group", g.ID())
			return
		}
		t.Perform()
	})

	if m.groupLevel > 1 {
		m.logger.Warn("replay left groups open, closing them", "open", m.groupLevel-1, "group", g.ID())
	}
	for m.groupLevel > 0 {
		if err := m.EndGrouping(); err != nil {
			break
		}
	}
}

// =============================================================================
// Stacks
// =============================================================================

func (m *Manager) pushUndo(g *Group) {
	m.undoStack = append(m.undoStack, g)
	m.evict()
}

func (m *Manager) pushRedo(g *Group) {
	m.redoStack = append(m.redoStack, g)
}

func (m *Manager) popUndo() *Group {
	n := len(m.undoStack)
	g := m.undoStack[n-1]
	m.undoStack[n-1] = nil
	m.undoStack = m.undoStack[:n-1]
	return g
}

func (m *Manager) popRedo() *Group {
	n := len(m.redoStack)
	g := m.redoStack[n-1]
	m.redoStack[n-1] = nil
	m.redoStack = m.redoStack[:n-1]
	return g
}

func (m *Manager) clearRedo() {
	if len(m.redoStack) == 0 {
		return
	}
	clear(m.redoStack)
	m.redoStack = m.redoStack[:0]
}

// evict drops the oldest undo groups beyond the level limit. The redo stack
// is never trimmed.
func (m *Manager) evict() {
	if m.levelsOfUndo == 0 || len(m.undoStack) <= m.levelsOfUndo {
		return
	}
	excess := len(m.undoStack) - m.levelsOfUndo
	m.logger.Debug("evicting undo groups", "count", excess, "limit", m.levelsOfUndo)
	clear(m.undoStack[:excess])
	m.undoStack = slices.Delete(m.undoStack, 0, excess)
}

// LevelsOfUndo returns the undo stack cap, 0 for unlimited.
func (m *Manager) LevelsOfUndo() int {
	return m.levelsOfUndo
}

// SetLevelsOfUndo sets the undo stack cap and evicts immediately if the
// stack is already deeper.
func (m *Manager) SetLevelsOfUndo(levels int) {
	m.levelsOfUndo = max(levels, 0)
	m.evict()
}

// NumberOfUndoActions returns the undo stack depth.
func (m *Manager) NumberOfUndoActions() int {
	return len(m.undoStack)
}

// NumberOfRedoActions returns the redo stack depth.
func (m *Manager) NumberOfRedoActions() int {
	return len(m.redoStack)
}

// PeekUndo returns the group the next undo would perform, or nil.
func (m *Manager) PeekUndo() *Group {
	if len(m.undoStack) == 0 {
		return nil
	}
	return m.undoStack[len(m.undoStack)-1]
}

// PeekRedo returns the group the next redo would perform, or nil.
func (m *Manager) PeekRedo() *Group {
	if len(m.redoStack) == 0 {
		return nil
	}
	return m.redoStack[len(m.redoStack)-1]
}

// UndoStack returns the undo groups, oldest first.
func (m *Manager) UndoStack() []*Group {
	return slices.Clone(m.undoStack)
}

// RedoStack returns the redo groups, oldest first.
func (m *Manager) RedoStack() []*Group {
	return slices.Clone(m.redoStack)
}

// =============================================================================
// Action names
// =============================================================================

// SetActionName names the open top-level group, or the next one to open.
func (m *Manager) SetActionName(name string) {
	if m.current == nil {
		m.pendingName, m.hasPendingName = name, true
		return
	}
	root := m.current
	for root.ParentGroup() != nil {
		root = root.ParentGroup()
	}
	root.SetActionName(name)
}

// UndoActionName returns the name of the group the next undo performs.
func (m *Manager) UndoActionName() string {
	if g := m.PeekUndo(); g != nil {
		return g.ActionName()
	}
	return ""
}

// RedoActionName returns the name of the group the next redo performs.
func (m *Manager) RedoActionName() string {
	if g := m.PeekRedo(); g != nil {
		return g.ActionName()
	}
	return ""
}

// UndoMenuItemTitle returns the formatted undo title.
func (m *Manager) UndoMenuItemTitle() string {
	return m.titles.UndoMenuTitle(m.UndoActionName())
}

// RedoMenuItemTitle returns the formatted redo title.
func (m *Manager) RedoMenuItemTitle() string {
	return m.titles.RedoMenuTitle(m.RedoActionName())
}

// =============================================================================
// Change count and removal
// =============================================================================

// ChangeCount returns the number of tasks accepted since the last reset.
func (m *Manager) ChangeCount() int {
	return m.changeCount
}

// ResetChangeCount sets the change count to zero.
func (m *Manager) ResetChangeCount() {
	m.changeCount = 0
}

// Checkpoint posts a checkpoint notification.
func (m *Manager) Checkpoint() {
	m.notify(NotifyCheckpoint, m.current, false)
}

// AutoDiscardsEmptyGroups reports whether empty groups are dropped on close.
func (m *Manager) AutoDiscardsEmptyGroups() bool {
	return m.autoDiscard
}

// SetAutoDiscardsEmptyGroups sets whether empty groups are dropped on close.
// Empty groups already on a stack are kept.
func (m *Manager) SetAutoDiscardsEmptyGroups(on bool) {
	m.autoDiscard = on
}

// RetainsTargets reports whether new tasks hold strong target references.
func (m *Manager) RetainsTargets() bool {
	return m.retainsTargets
}

// SetRetainsTargets sets whether new tasks hold strong target references.
// Existing tasks keep the reference they were created with.
func (m *Manager) SetRetainsTargets(on bool) {
	m.retainsTargets = on
}

// Reset drops both stacks and any open groups and returns to collecting.
// The change count and the registration enable level are kept.
func (m *Manager) Reset() {
	clear(m.undoStack)
	clear(m.redoStack)
	m.undoStack = nil
	m.redoStack = nil
	m.current = nil
	m.autoGroup = nil
	m.groupLevel = 0
	m.state = StateCollecting
	m.nextTarget = nil
	m.pendingName, m.hasPendingName = "", false
}

// RemoveAllActions clears both stacks, drops open groups and re-enables
// registration.
func (m *Manager) RemoveAllActions() error {
	if m.state != StateCollecting {
		return fmt.Errorf("remove all actions: %w", ErrRemovalDuringReplay)
	}
	m.Reset()
	m.enableLevel = 0
	return nil
}

// RemoveAllActionsWithTarget removes every task referring to target from
// both stacks and the open groups. Groups emptied by the removal are
// dropped; groups that were already empty and open groups stay.
func (m *Manager) RemoveAllActionsWithTarget(target any) error {
	if m.state != StateCollecting {
		return fmt.Errorf("remove actions with target: %w", ErrRemovalDuringReplay)
	}
	if target == nil {
		return nil
	}

	removed := 0
	m.undoStack, removed = pruneStack(m.undoStack, target, removed)
	m.redoStack, removed = pruneStack(m.redoStack, target, removed)

	if m.current != nil {
		open := make(map[*Group]bool, m.groupLevel)
		root := m.current
		for g := m.current; g != nil; g = g.ParentGroup() {
			open[g] = true
			root = g
		}
		removed += root.removeTasksWithTarget(target, func(g *Group) bool { return open[g] })
	}

	if sameTarget(m.nextTarget, target) {
		m.nextTarget = nil
	}
	m.logger.Debug("removed actions with target", "count", removed)
	return nil
}

func pruneStack(stack []*Group, target any, removed int) ([]*Group, int) {
	kept := stack[:0]
	for _, g := range stack {
		n := g.RemoveTasksWithTarget(target)
		removed += n
		if n == 0 || !g.IsEmpty() {
			kept = append(kept, g)
		}
	}
	clear(stack[len(kept):])
	return kept, removed
}

// sameTarget reports whether a and b are equal targets. Values that cannot be
// compared, such as maps and slices, never match.
func sameTarget(a, b any) bool {
	if a == nil || b == nil {
		return false
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() || !va.Comparable() || !vb.Comparable() {
		return false
	}
	return va.Equal(vb)
}

// ExplodeTopUndoAction splits the top undo group into one group per direct
// task, keeping order and action name. It is a debugging aid.
func (m *Manager) ExplodeTopUndoAction() {
	if m.state != StateCollecting || len(m.undoStack) == 0 {
		return
	}
	top := m.popUndo()
	for _, t := range top.tasks {
		if t.IsEmpty() {
			continue
		}
		g := NewGroup()
		g.SetActionName(top.ActionName())
		reparent(t, g)
		g.tasks = append(g.tasks, t)
		m.undoStack = append(m.undoStack, g)
	}
	m.evict()
}

// reparent moves t under g, bypassing the set-once guard.
func reparent(t Task, g *Group) {
	switch task := t.(type) {
	case *ConcreteTask:
		task.parent = g
	case *Group:
		task.parent = g
	}
}
