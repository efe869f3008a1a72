package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	for name, c := range map[string]lipgloss.Color{
		"Accent": theme.Accent,
		"Reply":  theme.Reply,
		"Text":   theme.Text,
		"Dim":    theme.Dim,
		"Error":  theme.Error,
		"Frame":  theme.Frame,
		"Bar":    theme.Bar,
	} {
		assert.NotEmpty(t, string(c), name)
	}
}

func TestDefaultTheme_QuestionAndAnswerDiffer(t *testing.T) {
	theme := DefaultTheme()

	assert.NotEqual(t, theme.Accent, theme.Reply)
	assert.NotEqual(t, theme.Accent, theme.Error)
}

func TestNewStyles_NilTheme(t *testing.T) {
	s := NewStyles(nil)

	require.NotNil(t, s)
	assert.Equal(t, DefaultTheme(), s.Theme())
}

func TestNewStyles_WithTheme(t *testing.T) {
	theme := &Theme{Accent: "#000000", Reply: "#FFFFFF"}
	s := NewStyles(theme)

	assert.Same(t, theme, s.Theme())
	assert.Equal(t, lipgloss.TerminalColor(theme.Accent), s.Question.GetForeground())
	assert.Equal(t, lipgloss.TerminalColor(theme.Reply), s.Answer.GetForeground())
}

func TestStyles_CanRenderText(t *testing.T) {
	s := DefaultStyles()

	for name, style := range map[string]lipgloss.Style{
		"Title":    s.Title,
		"Subtitle": s.Subtitle,
		"Normal":   s.Normal,
		"Muted":    s.Muted,
		"Selected": s.Selected,
		"Error":    s.Error,
		"Question": s.Question,
		"Answer":   s.Answer,
		"Distance": s.Distance,
		"Scope":    s.Scope,
		"Help":     s.Help,
	} {
		t.Run(name, func(t *testing.T) {
			assert.Contains(t, style.Render("course:12"), "course:12")
		})
	}
}
