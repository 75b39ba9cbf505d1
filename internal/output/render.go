package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/manav03panchal/undoctl/internal/drawing"
	"github.com/manav03panchal/undoctl/internal/session"
)

// Styles shared by the CLI and the interactive editor.
var (
	// Colors
	ColorPrimary = lipgloss.Color("#7C3AED") // Purple
	ColorAccent  = lipgloss.Color("#10B981") // Green
	ColorMuted   = lipgloss.Color("#6B7280") // Gray
	ColorWarning = lipgloss.Color("#F59E0B") // Yellow
	ColorError   = lipgloss.Color("#EF4444") // Red

	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorAccent)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleMuted   = lipgloss.NewStyle().Foreground(ColorMuted)
	StyleBold    = lipgloss.NewStyle().Bold(true)
	StyleAction  = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	StyleTarget  = lipgloss.NewStyle().Foreground(ColorAccent)
)

// style renders text with s when color is on.
func style(s lipgloss.Style, color bool, text string) string {
	if !color {
		return text
	}
	return s.Render(text)
}

// RenderGroup renders a group and its nested groups as an indented tree.
func RenderGroup(g session.GroupInfo, color bool) string {
	var b strings.Builder
	renderGroup(&b, g, 0, color)
	return strings.TrimRight(b.String(), "\n")
}

func renderGroup(b *strings.Builder, g session.GroupInfo, depth int, color bool) {
	indent := strings.Repeat("  ", depth)
	name := g.Name
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(b, "%s%s %s\n", indent,
		style(StyleAction, color, name),
		style(StyleMuted, color, fmt.Sprintf("[%s, %d tasks]", ShortID(g.ID), g.Count)))
	for _, t := range g.Tasks {
		if t.Group != nil {
			renderGroup(b, *t.Group, depth+1, color)
			continue
		}
		fmt.Fprintf(b, "%s  - %s %s\n", indent, t.Action, style(StyleTarget, color, t.Target))
	}
}

// RenderStack renders a stack, top first, under a title.
func RenderStack(title string, groups []session.GroupInfo, color bool) string {
	var b strings.Builder
	b.WriteString(style(StyleTitle, color, fmt.Sprintf("%s (%d)", title, len(groups))))
	b.WriteString("\n")
	if len(groups) == 0 {
		b.WriteString(style(StyleMuted, color, "  empty"))
		return b.String()
	}
	for i, g := range groups {
		marker := "  "
		if i == 0 {
			marker = "> "
		}
		for j, line := range strings.Split(RenderGroup(g, color), "\n") {
			if j == 0 {
				b.WriteString(marker)
			} else {
				b.WriteString("  ")
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderShapes renders the shapes back to front.
func RenderShapes(shapes []drawing.Shape, color bool) string {
	if len(shapes) == 0 {
		return style(StyleMuted, color, "no shapes")
	}
	var b strings.Builder
	for i, s := range shapes {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%-8s %s at %s %s",
			s.Kind,
			style(StyleTarget, color, s.Name),
			s.Pos,
			style(StyleMuted, color, s.Color))
	}
	return b.String()
}

// RenderStatus renders the one-line manager status.
func RenderStatus(snap session.Snapshot, color bool) string {
	coalescing := "off"
	if snap.Coalescing {
		coalescing = snap.CoalescingKind
	}
	levels := "unlimited"
	if snap.LevelsOfUndo > 0 {
		levels = fmt.Sprint(snap.LevelsOfUndo)
	}
	return style(StyleMuted, color, fmt.Sprintf("%s | level %d | changes %d | coalescing %s | levels %s",
		snap.State, snap.GroupingLevel, snap.ChangeCount, coalescing, levels))
}

// RenderSnapshot renders the drawing, the open group and both stacks.
func RenderSnapshot(snap session.Snapshot, color bool) string {
	parts := []string{
		style(StyleTitle, color, "Drawing"),
		RenderShapes(snap.Shapes, color),
		"",
	}
	if snap.Open != nil {
		parts = append(parts, style(StyleTitle, color, "Open group"), RenderGroup(*snap.Open, color), "")
	}
	parts = append(parts,
		RenderStack("Undo", snap.Undo, color),
		"",
		RenderStack("Redo", snap.Redo, color),
		"",
		RenderStatus(snap, color),
	)
	return strings.Join(parts, "\n")
}
