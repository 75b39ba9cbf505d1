package output

import (
	"fmt"
	"strings"

	"github.com/manav03panchal/undoctl/internal/errors"
	"github.com/manav03panchal/undoctl/internal/model"
	"github.com/manav03panchal/undoctl/internal/session"
	"github.com/manav03panchal/undoctl/internal/validate"
)

// CLIFormatter provides CLI-specific formatting.
type CLIFormatter struct {
	*Formatter
}

// NewCLIFormatter creates a new CLI formatter.
func NewCLIFormatter(f *Formatter) *CLIFormatter {
	return &CLIFormatter{Formatter: f}
}

// Title prints a title.
func (c *CLIFormatter) Title(text string) {
	c.Println(style(StyleTitle, c.IsColorEnabled(), text))
}

// Success prints a success message.
func (c *CLIFormatter) Success(text string) {
	c.Println(style(StyleSuccess, c.IsColorEnabled(), "✓ "+text))
}

// Warning prints a warning message.
func (c *CLIFormatter) Warning(text string) {
	c.Println(style(StyleWarning, c.IsColorEnabled(), "⚠ "+text))
}

// Error prints an error message.
func (c *CLIFormatter) Error(text string) {
	c.Println(style(StyleError, c.IsColorEnabled(), "✗ "+text))
}

// Muted prints muted text.
func (c *CLIFormatter) Muted(text string) {
	c.Println(style(StyleMuted, c.IsColorEnabled(), text))
}

// PrintErr prints err formatted by its category. User errors get their
// suggestion and examples.
func (c *CLIFormatter) PrintErr(err error) {
	if errors.IsUserCategory(err) {
		c.Error(errors.FormatUserError(err))
		return
	}
	c.Error(errors.FormatByCategory(err))
}

// PrintStep prints one trace line.
func (c *CLIFormatter) PrintStep(st session.Step) {
	color := c.IsColorEnabled()
	prefix := fmt.Sprintf("%3d", st.Event)
	if st.Failed() {
		c.Printf("%s  %-28s %s\n", prefix, st.Command, style(StyleError, color, "✗ "+st.Error))
		return
	}
	c.Printf("%s  %-28s %s\n", prefix, st.Command,
		style(StyleMuted, color, fmt.Sprintf("undo %d  redo %d  level %d  changes %d",
			st.UndoDepth, st.RedoDepth, st.GroupingLevel, st.ChangeCount)))
	if st.Snapshot != nil {
		for _, line := range strings.Split(RenderSnapshot(*st.Snapshot, color), "\n") {
			c.Println("     " + line)
		}
	}
}

// PrintResult prints a script trace and the final state.
func (c *CLIFormatter) PrintResult(res *session.Result) {
	if res.Script != "" {
		c.Title("Session " + res.Script)
	}
	for _, st := range res.Steps {
		c.PrintStep(st)
	}
	c.Println()
	c.Println(RenderSnapshot(res.Final, c.IsColorEnabled()))
	c.Println()
	if res.Failed > 0 {
		c.Warning(fmt.Sprintf("%d of %d commands failed", res.Failed, len(res.Steps)))
		return
	}
	c.Success(fmt.Sprintf("%d commands", len(res.Steps)))
}

// PrintSnapshot prints the drawing and the stacks.
func (c *CLIFormatter) PrintSnapshot(snap session.Snapshot) {
	c.Println(RenderSnapshot(snap, c.IsColorEnabled()))
}

// maxActionWidth caps the ACTION column of the journal table.
const maxActionWidth = 32

// PrintJournal prints journal entries as a table.
func (c *CLIFormatter) PrintJournal(entries []*model.JournalEntry) {
	if len(entries) == 0 {
		c.Muted("Journal is empty.")
		return
	}
	rows := make([]TableRow, len(entries))
	for i, e := range entries {
		rows[i] = TableRow{Columns: []string{
			FormatTime(e.Timestamp),
			string(e.Kind),
			validate.TruncateString(e.ActionName, maxActionWidth),
			fmt.Sprint(e.TaskCount),
			fmt.Sprintf("%d/%d", e.UndoDepth, e.RedoDepth),
			ShortID(e.SessionID),
		}}
	}
	c.PrintTable([]string{"TIME", "KIND", "ACTION", "TASKS", "UNDO/REDO", "SESSION"}, rows)
}

// TableRow is one row of PrintTable.
type TableRow struct {
	Columns []string
}

// PrintTable prints a simple table.
func (c *CLIFormatter) PrintTable(headers []string, rows []TableRow) {
	if len(rows) == 0 {
		return
	}

	// Calculate column widths
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, col := range row.Columns {
			if i < len(widths) && len(col) > widths[i] {
				widths[i] = len(col)
			}
		}
	}

	var headerLine strings.Builder
	for i, h := range headers {
		fmt.Fprintf(&headerLine, "%-*s  ", widths[i], h)
	}
	c.Println(style(StyleBold, c.IsColorEnabled(), strings.TrimRight(headerLine.String(), " ")))

	var sep strings.Builder
	for _, w := range widths {
		sep.WriteString(strings.Repeat("─", w) + "  ")
	}
	c.Println(strings.TrimRight(sep.String(), " "))

	for _, row := range rows {
		var rowLine strings.Builder
		for i, col := range row.Columns {
			if i < len(widths) {
				fmt.Fprintf(&rowLine, "%-*s  ", widths[i], col)
			}
		}
		c.Println(strings.TrimRight(rowLine.String(), " "))
	}
}
