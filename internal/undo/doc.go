// Package undo provides an undo/redo transaction manager.
//
// The Manager records reversible actions as deferred calls, groups them into
// atomic units, supports nested grouping, coalesces redundant consecutive
// actions, and replays recorded actions on undo and redo while capturing the
// inverse of each replay for the opposite stack.
//
// # Tasks and Groups
//
// A ConcreteTask wraps one deferred call: a target, an action name used for
// identity, the function to invoke and the argument captured at registration.
// A Group owns an ordered list of tasks, which may themselves be Groups. Only
// Groups ever occupy a stack slot.
//
//	m := undo.New(undo.DefaultOptions())
//
//	m.BeginGrouping()
//	undo.Register(m, shape, "move", func(s *Shape, arg any) {
//	    p := arg.(Point)
//	    canvas.Move(s, p.X, p.Y) // registers the opposite move
//	}, oldPosition)
//	m.EndGrouping()
//
//	m.Undo()
//	m.Redo()
//
// # Mirror Groups
//
// Undo pops a Group, opens a fresh top-level group and performs the popped
// tasks. Every registration made while those tasks run lands in the fresh
// group, which is pushed onto the redo stack when the replay finishes. Redo is
// the mirror image, so clients register each inverse exactly once.
//
// # Grouping by Event
//
// With GroupsByEvent enabled, the first registration at grouping level 0
// opens a top-level group which is closed at the next event boundary. Hosts
// signal boundaries either by calling EndOfEvent directly or by supplying an
// EventLoop, such as EventQueue, that the Manager schedules itself on.
//
// # Coalescing
//
// When coalescing is enabled, a task whose target and action match an
// existing entry in the open group is folded into that entry instead of being
// appended. CoalesceLastTask only looks at the most recent entry;
// CoalesceAllMatchingTasks looks at every entry of the open group.
package undo
