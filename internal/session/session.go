// Package session runs editing commands against a drawing and its undo
// manager, one host event at a time.
package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/manav03panchal/undoctl/internal/drawing"
	"github.com/manav03panchal/undoctl/internal/errors"
	"github.com/manav03panchal/undoctl/internal/logging"
	"github.com/manav03panchal/undoctl/internal/parser"
	"github.com/manav03panchal/undoctl/internal/undo"
)

// Session owns a drawing, its manager and the event queue that stands in
// for the host's run loop.
type Session struct {
	m      *undo.Manager
	d      *drawing.Drawing
	queue  *undo.EventQueue
	logger *slog.Logger

	// StopOnError aborts Run at the first failing command. Otherwise the
	// failure is recorded in the step and the script continues.
	StopOnError bool

	events int
}

// New creates a session whose manager is built from opts. The manager's
// event loop is the session's queue.
func New(ctx context.Context, opts undo.Options) *Session {
	queue := &undo.EventQueue{}
	opts.EventLoop = queue
	base := logging.LoggerFromContext(ctx)
	if opts.Logger == nil {
		opts.Logger = base.With(logging.KeyComponent, "undo")
	}
	m := undo.New(opts)
	return &Session{
		m:      m,
		d:      drawing.New(m),
		queue:  queue,
		logger: base.With(logging.KeyComponent, "session"),
	}
}

// Manager returns the session's undo manager.
func (s *Session) Manager() *undo.Manager { return s.m }

// Drawing returns the session's drawing.
func (s *Session) Drawing() *drawing.Drawing { return s.d }

// Events returns the number of events handled.
func (s *Session) Events() int { return s.events }

// Step is the outcome of one command.
type Step struct {
	Event   int       `json:"event"`
	Line    int       `json:"line,omitempty"`
	Command string    `json:"command"`
	Op      parser.Op `json:"op"`

	Err   error  `json:"-"`
	Error string `json:"error,omitempty"`

	UndoDepth     int    `json:"undo_depth"`
	RedoDepth     int    `json:"redo_depth"`
	GroupingLevel int    `json:"grouping_level"`
	ChangeCount   int    `json:"change_count"`
	UndoTitle     string `json:"undo_title"`
	RedoTitle     string `json:"redo_title"`

	// Snapshot is set by the list and stack commands.
	Snapshot *Snapshot `json:"snapshot,omitempty"`
}

// Failed reports whether the command failed.
func (st Step) Failed() bool { return st.Err != nil }

// Result is the outcome of a script run.
type Result struct {
	Script string   `json:"script,omitempty"`
	Steps  []Step   `json:"steps"`
	Failed int      `json:"failed"`
	Final  Snapshot `json:"final"`
}

// Run executes every event of script and returns the trace. With
// StopOnError the first failure is also returned.
func (s *Session) Run(ctx context.Context, script *parser.Script) (*Result, error) {
	res := &Result{Script: script.Name}
	s.logger.Debug("running script", "name", script.Name, "events", len(script.Events))

	for _, ev := range script.Events {
		steps, err := s.Event(ctx, ev.Commands)
		res.Steps = append(res.Steps, steps...)
		for _, st := range steps {
			if st.Failed() {
				res.Failed++
			}
		}
		if err != nil && s.StopOnError {
			res.Final = Capture(s.m, s.d)
			return res, err
		}
	}
	res.Final = Capture(s.m, s.d)
	return res, nil
}

// Event runs cmds as one host event and then signals the event boundary.
// It returns the first failure; later commands of the event still run.
func (s *Session) Event(ctx context.Context, cmds []parser.Command) ([]Step, error) {
	s.events++
	defer s.queue.Flush()

	steps := make([]Step, 0, len(cmds))
	var first error
	for _, cmd := range cmds {
		st := s.exec(ctx, cmd)
		if st.Err != nil && first == nil {
			first = st.Err
		}
		steps = append(steps, st)
	}
	return steps, first
}

// Exec runs a single command as its own event.
func (s *Session) Exec(ctx context.Context, cmd parser.Command) (Step, error) {
	steps, err := s.Event(ctx, []parser.Command{cmd})
	return steps[0], err
}

func (s *Session) exec(ctx context.Context, cmd parser.Command) Step {
	st := Step{Event: s.events, Line: cmd.Line, Command: cmd.String(), Op: cmd.Op}

	if err := s.apply(cmd, &st); err != nil {
		where := fmt.Sprintf("event %d: %s", s.events, cmd)
		if cmd.Line > 0 {
			where = fmt.Sprintf("event %d, line %d: %s", s.events, cmd.Line, cmd)
		}
		err = errors.WithStack(err, where)
		st.Err = err
		st.Error = err.Error()
		logging.LoggerFromContext(ctx).Debug("command failed",
			logging.KeyCommand, cmd.String(),
			logging.KeyError, err,
		)
	}

	st.UndoDepth = s.m.NumberOfUndoActions()
	st.RedoDepth = s.m.NumberOfRedoActions()
	st.GroupingLevel = s.m.GroupingLevel()
	st.ChangeCount = s.m.ChangeCount()
	st.UndoTitle = s.m.UndoMenuItemTitle()
	st.RedoTitle = s.m.RedoMenuItemTitle()
	return st
}

func (s *Session) apply(cmd parser.Command, st *Step) error {
	switch cmd.Op {
	case parser.OpAdd:
		_, err := s.d.Add(drawing.Kind(cmd.Arg), cmd.Shape, cmd.Point)
		return err
	case parser.OpMove:
		return s.d.Move(cmd.Shape, cmd.Point)
	case parser.OpMoveTo:
		return s.d.MoveTo(cmd.Shape, cmd.Point)
	case parser.OpColor:
		return s.d.Recolor(cmd.Shape, cmd.Arg)
	case parser.OpRename:
		return s.d.Rename(cmd.Shape, cmd.Arg)
	case parser.OpRemove:
		return s.d.Remove(cmd.Shape)
	case parser.OpForget:
		return s.d.Forget(cmd.Shape)

	case parser.OpUndo:
		return s.replay(cmd.N, s.m.Undo)
	case parser.OpRedo:
		return s.replay(cmd.N, s.m.Redo)

	case parser.OpBegin:
		s.m.BeginGrouping()
	case parser.OpEnd:
		return s.m.EndGrouping()
	case parser.OpName:
		s.m.SetActionName(cmd.Arg)
	case parser.OpDisable:
		s.m.DisableRegistration()
	case parser.OpEnable:
		return s.m.EnableRegistration()
	case parser.OpLevels:
		s.m.SetLevelsOfUndo(cmd.N)
	case parser.OpCoalesce:
		switch cmd.Arg {
		case "on":
			s.m.EnableCoalescing()
		case "off":
			s.m.DisableCoalescing()
		case "last":
			s.m.SetCoalescingKind(undo.CoalesceLastTask)
			s.m.EnableCoalescing()
		case "all":
			s.m.SetCoalescingKind(undo.CoalesceAllMatchingTasks)
			s.m.EnableCoalescing()
		}
	case parser.OpExplode:
		s.m.ExplodeTopUndoAction()
	case parser.OpClear:
		return s.m.RemoveAllActions()
	case parser.OpResetCount:
		s.m.ResetChangeCount()
	case parser.OpList, parser.OpStack:
		snap := Capture(s.m, s.d)
		st.Snapshot = &snap
	default:
		return fmt.Errorf("%w: %s", errors.ErrInvalidCommand, cmd.Op)
	}
	return nil
}

// replay runs fn n times. An undo or redo command arrives as a new input
// event, so the group auto-opened by earlier commands of this event is
// closed first.
func (s *Session) replay(n int, fn func() error) error {
	s.m.EndOfEvent()
	for range max(n, 1) {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}
