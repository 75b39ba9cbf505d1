// Package tui provides the interactive canvas editor for undoctl.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/manav03panchal/undoctl/internal/output"
)

// Color palette for the editor. Shared colors come from the CLI styles.
var (
	ColorPrimary  = output.ColorPrimary
	ColorAccent   = output.ColorAccent
	ColorMuted    = output.ColorMuted
	ColorWarning  = output.ColorWarning
	ColorError    = output.ColorError
	ColorSelected = lipgloss.Color("#3B82F6") // Blue
	ColorBorder   = lipgloss.Color("#4B5563") // Dark gray
)

// Base styles for the editor.
var (
	// StyleTitle is used for the header and panel titles.
	StyleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// StyleSubtitle is used for secondary information.
	StyleSubtitle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// StyleSelected marks the selected shape.
	StyleSelected = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSelected)

	StyleWarning = lipgloss.NewStyle().
			Foreground(ColorWarning)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorError)

	// StylePrompt is used for the command line.
	StylePrompt = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	// StyleHelpKey is used for keyboard shortcut keys.
	StyleHelpKey = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	// StyleHelpDesc is used for keyboard shortcut descriptions.
	StyleHelpDesc = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

// Box styles for the panels.
var (
	// StyleCanvasBox frames the canvas.
	StyleCanvasBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	// StyleGrabBox frames the canvas while a shape is grabbed.
	StyleGrabBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSelected)

	// StylePanelBox frames the side panels.
	StylePanelBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)
)
