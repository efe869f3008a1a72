// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the palette the chat and document views draw from.
type Theme struct {
	// Accent marks titles and the student's questions.
	Accent lipgloss.Color

	// Reply marks the assistant's answers and section headers.
	Reply lipgloss.Color

	// Text is the default foreground.
	Text lipgloss.Color

	// Dim is used for snippets, distances and hints.
	Dim lipgloss.Color

	// Error marks failures.
	Error lipgloss.Color

	// Frame is the colour of borders around the prompt.
	Frame lipgloss.Color

	// Bar is the status bar background.
	Bar lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Accent: lipgloss.Color("#2563EB"),
		Reply:  lipgloss.Color("#14B8A6"),
		Text:   lipgloss.Color("#E2E8F0"),
		Dim:    lipgloss.Color("#64748B"),
		Error:  lipgloss.Color("#F87171"),
		Frame:  lipgloss.Color("#334155"),
		Bar:    lipgloss.Color("#0F172A"),
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style

	// Question and Answer label transcript turns.
	Question lipgloss.Style
	Answer   lipgloss.Style

	// Distance renders a source's distance to the question.
	Distance lipgloss.Style

	// Scope renders the course or group badge in the status bar.
	Scope lipgloss.Style

	InputField lipgloss.Style
	StatusBar  lipgloss.Style
	Help       lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title:    lipgloss.NewStyle().Bold(true).Foreground(theme.Accent),
		Subtitle: lipgloss.NewStyle().Bold(true).Foreground(theme.Reply),
		Normal:   lipgloss.NewStyle().Foreground(theme.Text),
		Muted:    lipgloss.NewStyle().Foreground(theme.Dim),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(theme.Text).Background(theme.Accent),
		Error:    lipgloss.NewStyle().Foreground(theme.Error),

		Question: lipgloss.NewStyle().Bold(true).Foreground(theme.Accent),
		Answer:   lipgloss.NewStyle().Bold(true).Foreground(theme.Reply),

		Distance: lipgloss.NewStyle().Italic(true).Foreground(theme.Dim),
		Scope:    lipgloss.NewStyle().Bold(true).Foreground(theme.Reply).Background(theme.Bar),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Frame).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Dim).
			Background(theme.Bar).
			Padding(0, 1),

		Help: lipgloss.NewStyle().Foreground(theme.Dim),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
