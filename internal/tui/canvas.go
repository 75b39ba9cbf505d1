package tui

import (
	"strings"

	"github.com/manav03panchal/undoctl/internal/drawing"
)

// glyphs are the canvas marks per kind.
var glyphs = map[drawing.Kind]string{
	drawing.KindRect:    "■",
	drawing.KindEllipse: "●",
	drawing.KindLine:    "─",
	drawing.KindText:    "T",
}

// Canvas renders shapes on a fixed-size character grid. Shapes outside the
// grid are not drawn; later shapes are drawn over earlier ones.
type Canvas struct {
	Width    int
	Height   int
	Selected string
	Color    bool
}

// Render draws shapes back to front.
func (c Canvas) Render(shapes []drawing.Shape) string {
	if c.Width <= 0 || c.Height <= 0 {
		return ""
	}
	grid := make([][]string, c.Height)
	for y := range grid {
		grid[y] = make([]string, c.Width)
		for x := range grid[y] {
			grid[y][x] = "·"
		}
	}

	for _, s := range shapes {
		if s.Pos.X < 0 || s.Pos.Y < 0 || s.Pos.X >= c.Width || s.Pos.Y >= c.Height {
			continue
		}
		glyph, ok := glyphs[s.Kind]
		if !ok {
			glyph = "?"
		}
		if s.Name == c.Selected {
			if c.Color {
				glyph = StyleSelected.Render(glyph)
			} else {
				glyph = "@"
			}
		}
		grid[s.Pos.Y][s.Pos.X] = glyph
	}

	rows := make([]string, c.Height)
	for y, row := range grid {
		rows[y] = strings.Join(row, "")
	}
	return strings.Join(rows, "\n")
}

// keyHelp is one entry of the help bar.
type keyHelp struct {
	key  string
	desc string
}

var helpKeys = []keyHelp{
	{"r/o/i/t", "add"},
	{"tab", "select"},
	{"←↑↓→", "move"},
	{"g", "grab"},
	{"c", "color"},
	{"x", "delete"},
	{"u", "undo"},
	{"U", "redo"},
	{":", "command"},
	{"q", "quit"},
}

// HelpBar renders the keyboard shortcuts.
func HelpBar() string {
	parts := make([]string, len(helpKeys))
	for i, h := range helpKeys {
		parts[i] = StyleHelpKey.Render(h.key) + " " + StyleHelpDesc.Render(h.desc)
	}
	return strings.Join(parts, "  ")
}
