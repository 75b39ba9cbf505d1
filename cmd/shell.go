package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/manav03panchal/undoctl/internal/errors"
	"github.com/manav03panchal/undoctl/internal/parser"
	"github.com/manav03panchal/undoctl/internal/tui"
)

// shellCmd starts the interactive canvas editor.
var shellCmd = &cobra.Command{
	Use:     "shell",
	Aliases: []string{"edit"},
	Short:   "Edit a canvas interactively",
	Long: `Open an interactive canvas editor. Every key press is one host event,
so each edit is one undo step. Grab a shape with g to group a drag into a
single step, and press : to type any session command.

Keys:
  r o i t     add a rect, ellipse, line or text
  tab         select the next shape
  arrows/hjkl move the selection
  g           grab or drop the selection
  c           cycle the color
  x           delete the selection
  u / ctrl+z  undo
  U / ctrl+y  redo
  :           command line
  q           quit`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
	in, out := int(os.Stdin.Fd()), int(os.Stdout.Fd())
	if !term.IsTerminal(in) || !term.IsTerminal(out) {
		return &errors.UserError{
			Message:    "shell needs an interactive terminal",
			Suggestion: errors.GetSuggestion(errors.ErrNotATerminal),
			Cause:      errors.ErrNotATerminal,
		}
	}

	s, err := rt.NewSession(parser.ScriptOptions{})
	if err != nil {
		return err
	}

	width, height, err := term.GetSize(out)
	if err != nil {
		rt.Debugf("terminal size: %v", err)
	}

	if err := tui.Run(tui.Config{
		Session: s,
		Context: rt.Ctx(),
		Width:   width,
		Height:  height,
	}); err != nil {
		return err
	}
	return rt.JournalErr()
}
