package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/manav03panchal/undoctl/internal/drawing"
	"github.com/manav03panchal/undoctl/internal/errors"
	"github.com/manav03panchal/undoctl/internal/output"
	"github.com/manav03panchal/undoctl/internal/parser"
	"github.com/manav03panchal/undoctl/internal/session"
)

// Palette is the color cycle of the c key.
var Palette = []string{drawing.DefaultColor, "red", "green", "blue", "yellow", "purple"}

// kindKeys maps the add keys to shape kinds.
var kindKeys = map[string]drawing.Kind{
	"r": drawing.KindRect,
	"o": drawing.KindEllipse,
	"i": drawing.KindLine,
	"t": drawing.KindText,
}

// moveKeys maps the movement keys to deltas.
var moveKeys = map[string]drawing.Point{
	"left":  {X: -1},
	"right": {X: 1},
	"up":    {Y: -1},
	"down":  {Y: 1},
	"h":     {X: -1},
	"l":     {X: 1},
	"k":     {Y: -1},
	"j":     {Y: 1},
}

// EditorModel is the bubbletea model of the canvas editor. Every key
// message is one host event of the session.
type EditorModel struct {
	s   *session.Session
	ctx context.Context

	// UI state
	selected    string
	grabbed     bool
	commandMode bool
	input       []rune
	message     string
	err         error
	width       int
	height      int

	canvasWidth  int
	canvasHeight int
	stackDepth   int
	added        int
}

// Config holds configuration for the editor.
type Config struct {
	Session *session.Session
	Context context.Context
	// Width and Height are the initial terminal size, if known.
	Width  int
	Height int

	CanvasWidth  int
	CanvasHeight int
	// StackDepth is how many groups of each stack are shown.
	StackDepth int
}

// NewEditorModel creates a new editor model.
func NewEditorModel(cfg Config) *EditorModel {
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	if cfg.CanvasWidth == 0 {
		cfg.CanvasWidth = 40
	}
	if cfg.CanvasHeight == 0 {
		cfg.CanvasHeight = 12
	}
	if cfg.StackDepth == 0 {
		cfg.StackDepth = 5
	}
	return &EditorModel{
		s:            cfg.Session,
		ctx:          cfg.Context,
		width:        cfg.Width,
		height:       cfg.Height,
		canvasWidth:  cfg.CanvasWidth,
		canvasHeight: cfg.CanvasHeight,
		stackDepth:   cfg.StackDepth,
	}
}

// Init initializes the model.
func (m *EditorModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m *EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.commandMode {
			return m.handleCommandKey(msg)
		}
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

// handleKeyPress handles keyboard input on the canvas.
func (m *EditorModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if delta, ok := moveKeys[key]; ok {
		if m.requireSelection() {
			m.exec(parser.Command{Op: parser.OpMove, Shape: m.selected, Point: delta,
				Raw: fmt.Sprintf("move %s %d %d", m.selected, delta.X, delta.Y)})
		}
		return m, nil
	}
	if kind, ok := kindKeys[key]; ok {
		m.add(kind)
		return m, nil
	}

	switch key {
	case "q", "ctrl+c":
		if m.grabbed {
			m.drop()
		}
		return m, tea.Quit

	case ":":
		m.commandMode = true
		m.input = m.input[:0]

	case "tab":
		m.cycleSelection(1)
	case "shift+tab":
		m.cycleSelection(-1)

	case "c":
		if m.requireSelection() {
			m.recolor()
		}

	case "x", "delete":
		if m.requireSelection() {
			m.exec(parser.Command{Op: parser.OpRemove, Shape: m.selected, Raw: "remove " + m.selected})
		}

	case "g", " ":
		if m.grabbed {
			m.drop()
		} else if m.requireSelection() {
			if m.exec(parser.Command{Op: parser.OpBegin, Raw: "begin"}) {
				m.grabbed = true
				m.message = "Grabbed " + m.selected
			}
		}

	case "u", "ctrl+z":
		m.exec(parser.Command{Op: parser.OpUndo, N: 1, Raw: "undo"})
	case "U", "ctrl+y":
		m.exec(parser.Command{Op: parser.OpRedo, N: 1, Raw: "redo"})
	}
	return m, nil
}

// handleCommandKey handles keyboard input on the command line.
func (m *EditorModel) handleCommandKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.commandMode = false
		m.input = m.input[:0]
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeySpace:
		m.input = append(m.input, ' ')
	case tea.KeyRunes:
		m.input = append(m.input, msg.Runes...)
	case tea.KeyEnter:
		line := strings.TrimSpace(string(m.input))
		m.commandMode = false
		m.input = m.input[:0]
		if line == "" {
			return m, nil
		}
		cmd, err := parser.ParseCommand(line)
		if err != nil {
			m.err = err
			return m, nil
		}
		renamesSelection := cmd.Op == parser.OpRename && cmd.Shape == m.selected
		if !m.exec(cmd) {
			return m, nil
		}
		switch {
		case cmd.Op == parser.OpAdd:
			m.selected = cmd.Shape
		case renamesSelection:
			m.selected = cmd.Arg
		}
	}
	return m, nil
}

// exec runs cmds as one event and reports whether all of them succeeded.
func (m *EditorModel) exec(cmds ...parser.Command) bool {
	steps, err := m.s.Event(m.ctx, cmds)
	if err != nil {
		m.err = err
		m.message = ""
	} else {
		m.err = nil
		m.message = steps[len(steps)-1].Command
	}
	m.fixSelection()
	return err == nil
}

func (m *EditorModel) add(kind drawing.Kind) {
	d := m.s.Drawing()
	var name string
	for {
		m.added++
		name = fmt.Sprintf("%s%d", kind, m.added)
		if _, taken := d.Lookup(name); !taken {
			break
		}
	}
	pos := drawing.Point{
		X: (1 + 3*m.added) % max(m.canvasWidth, 1),
		Y: (1 + m.added) % max(m.canvasHeight, 1),
	}
	cmd := parser.Command{Op: parser.OpAdd, Arg: string(kind), Shape: name, Point: pos,
		Raw: fmt.Sprintf("add %s %s %d %d", kind, name, pos.X, pos.Y)}
	if m.exec(cmd) {
		m.selected = name
	}
}

func (m *EditorModel) recolor() {
	s, _ := m.s.Drawing().Lookup(m.selected)
	next := Palette[(slices.Index(Palette, s.Color)+1)%len(Palette)]
	m.exec(parser.Command{Op: parser.OpColor, Shape: m.selected, Arg: next,
		Raw: fmt.Sprintf("color %s %s", m.selected, next)})
}

func (m *EditorModel) drop() {
	if m.exec(
		parser.Command{Op: parser.OpName, Arg: "Drag", Raw: "name Drag"},
		parser.Command{Op: parser.OpEnd, Raw: "end"},
	) {
		m.message = "Dropped " + m.selected
	}
	m.grabbed = false
}

func (m *EditorModel) requireSelection() bool {
	if m.selected == "" {
		m.err = errors.NewUserError("no shape selected", "Add a shape with r, o, i or t, or select one with tab")
		return false
	}
	return true
}

func (m *EditorModel) cycleSelection(step int) {
	shapes := m.s.Drawing().Shapes()
	if len(shapes) == 0 {
		m.selected = ""
		return
	}
	i := slices.IndexFunc(shapes, func(s drawing.Shape) bool { return s.Name == m.selected })
	if i < 0 {
		i = 0
	} else {
		i = (i + step + len(shapes)) % len(shapes)
	}
	m.selected = shapes[i].Name
}

// fixSelection keeps the selection on a live shape after undo, redo or
// removal.
func (m *EditorModel) fixSelection() {
	if _, ok := m.s.Drawing().Lookup(m.selected); ok {
		return
	}
	shapes := m.s.Drawing().Shapes()
	if len(shapes) == 0 {
		m.selected = ""
		return
	}
	m.selected = shapes[len(shapes)-1].Name
}

// Selected returns the name of the selected shape.
func (m *EditorModel) Selected() string { return m.selected }

// Grabbed reports whether a shape is grabbed.
func (m *EditorModel) Grabbed() bool { return m.grabbed }

// CommandMode reports whether the command line is open.
func (m *EditorModel) CommandMode() bool { return m.commandMode }

// Err returns the error of the last command.
func (m *EditorModel) Err() error { return m.err }

// Message returns the status message.
func (m *EditorModel) Message() string { return m.message }

// View renders the editor.
func (m *EditorModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	snap := session.Capture(m.s.Manager(), m.s.Drawing())
	var sections []string

	// Header
	title := StyleTitle.Render("undoctl shell")
	info := StyleSubtitle.Render(fmt.Sprintf("%d shapes, %d events", len(snap.Shapes), m.s.Events()))
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", info))

	// Canvas and stacks side by side
	canvasBox := StyleCanvasBox
	if m.grabbed {
		canvasBox = StyleGrabBox
	}
	canvas := canvasBox.Render(Canvas{
		Width:    m.canvasWidth,
		Height:   m.canvasHeight,
		Selected: m.selected,
		Color:    true,
	}.Render(snap.Shapes))

	stacks := StylePanelBox.Render(lipgloss.JoinVertical(lipgloss.Left,
		output.RenderStack("Undo", snap.Undo[:min(len(snap.Undo), m.stackDepth)], true),
		"",
		output.RenderStack("Redo", snap.Redo[:min(len(snap.Redo), m.stackDepth)], true),
	))
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, canvas, " ", stacks))

	status := output.RenderStatus(snap, true)
	if m.selected != "" {
		status += "  " + StyleSelected.Render("selected "+m.selected)
	}
	sections = append(sections, status)

	if m.err != nil {
		sections = append(sections, StyleError.Render("Error: "+m.err.Error()))
	} else if m.message != "" {
		sections = append(sections, StyleWarning.Render(m.message))
	}

	if m.commandMode {
		sections = append(sections, StylePrompt.Render(":")+string(m.input)+"█")
	} else {
		sections = append(sections, HelpBar())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// Run starts the editor.
func Run(cfg Config) error {
	model := NewEditorModel(cfg)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return errors.WithCategory(fmt.Errorf("editor: %w", err), errors.CategorySystem)
	}
	return nil
}
