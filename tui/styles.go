package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette for dark terminals.
var (
	ColorPrimary     = lipgloss.Color("255") // White
	ColorSecondary   = lipgloss.Color("240") // Dark Gray
	ColorAccent      = lipgloss.Color("178") // Gold, liturgical
	ColorSuccess     = lipgloss.Color("42")  // Green
	ColorError       = lipgloss.Color("196") // Red
	ColorWarning     = lipgloss.Color("214") // Orange
	ColorDim         = lipgloss.Color("240")
	ColorHighlightBg = lipgloss.Color("236") // selected table row
)

// Shared styles
var (
	StyleDimmed = lipgloss.NewStyle().Foreground(ColorDim)
	StyleBold   = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)

	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)

	StyleBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSecondary)

	StyleTitle  = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent).MarginBottom(1)
	StylePrompt = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)

	StyleTabActive = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent).
			Padding(0, 1)

	StyleTabInactive = lipgloss.NewStyle().
				Foreground(ColorDim).
				Padding(0, 1)

	StyleStatusBar = lipgloss.NewStyle().
			Foreground(ColorSecondary)

	StyleHelpKey = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	StyleHelpDesc = lipgloss.NewStyle().
			Foreground(ColorDim)
)
