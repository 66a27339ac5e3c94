package surface

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	colorGreen  = lipgloss.Color("42")
	colorYellow = lipgloss.Color("214")
	colorRed    = lipgloss.Color("196")
	colorGray   = lipgloss.Color("245")
	colorWhite  = lipgloss.Color("255")
	colorBorder = lipgloss.Color("240")
)

// Styles defines the visual styles for modal surfaces.
type Styles struct {
	Box     lipgloss.Style
	Title   lipgloss.Style
	Text    lipgloss.Style
	Faint   lipgloss.Style
	Success lipgloss.Style
	Failure lipgloss.Style
	Prompt  lipgloss.Style
}

// DefaultStyles returns the default style configuration
func DefaultStyles() Styles {
	return Styles{
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite),

		Text: lipgloss.NewStyle().
			Foreground(colorWhite),

		Faint: lipgloss.NewStyle().
			Foreground(colorGray),

		Success: lipgloss.NewStyle().
			Foreground(colorGreen),

		Failure: lipgloss.NewStyle().
			Foreground(colorRed),

		Prompt: lipgloss.NewStyle().
			Foreground(colorYellow),
	}
}
