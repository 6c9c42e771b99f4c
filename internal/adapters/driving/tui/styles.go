package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette for the chat interface.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Warning indicates caution (clarify, collect_lead).
	Warning lipgloss.Color

	// Error indicates problems (handoff, failures).
	Error lipgloss.Color

	// Border is the border colour.
	Border lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#7C3AED"), // Purple
		Foreground: lipgloss.Color("#CDD6F4"), // Light gray
		Muted:      lipgloss.Color("#6C7086"), // Medium gray
		Warning:    lipgloss.Color("#F9E2AF"), // Yellow
		Error:      lipgloss.Color("#F38BA8"), // Red
		Border:     lipgloss.Color("#45475A"), // Border gray
	}
}

// Styles contains pre-configured lipgloss styles for the chat view.
type Styles struct {
	theme *Theme

	// Title style for the header line.
	Title lipgloss.Style

	// User style for the user's own messages.
	User lipgloss.Style

	// Assistant style for assistant answers.
	Assistant lipgloss.Style

	// Citation style for source attributions.
	Citation lipgloss.Style

	// Action style for non-default action badges.
	Action lipgloss.Style

	// Muted style for help text and confidence readouts.
	Muted lipgloss.Style

	// Error style for failures.
	Error lipgloss.Style

	// InputField style for the prompt area.
	InputField lipgloss.Style
}

// DefaultStyles returns styles built from the default theme.
func DefaultStyles() *Styles {
	theme := DefaultTheme()
	return &Styles{
		theme:     theme,
		Title:     lipgloss.NewStyle().Foreground(theme.Primary).Bold(true),
		User:      lipgloss.NewStyle().Foreground(theme.Primary),
		Assistant: lipgloss.NewStyle().Foreground(theme.Foreground),
		Citation:  lipgloss.NewStyle().Foreground(theme.Muted).Italic(true),
		Action:    lipgloss.NewStyle().Foreground(theme.Warning),
		Muted:     lipgloss.NewStyle().Foreground(theme.Muted),
		Error:     lipgloss.NewStyle().Foreground(theme.Error),
		InputField: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
	}
}
