// Package theme holds the palette and shared lipgloss styles of the client.
package theme

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	ColorPrimary   = lipgloss.Color("39")  // Blue
	ColorAccent    = lipgloss.Color("214") // Orange
	ColorSuccess   = lipgloss.Color("35")  // Green
	ColorError     = lipgloss.Color("203") // Red
	ColorBorder    = lipgloss.Color("240")
	ColorMuted     = lipgloss.Color("244")
	ColorHighlight = lipgloss.Color("230")
	ColorText      = lipgloss.Color("252")
)

var (
	StyleBorder = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	StyleActiveBorder = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary)

	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	StyleSelected = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Background(lipgloss.Color("24")).
			Bold(true)

	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	StyleMuted = lipgloss.NewStyle().
			Foreground(ColorMuted)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorError)

	StyleSuccess = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	StyleNull = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)

	StylePrompt = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Padding(0, 1)

	StyleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(ColorText).
			Padding(0, 1)
)
