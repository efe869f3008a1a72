package cli

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// printer styles headings and secondary text only when writing to a terminal.
type printer struct {
	w       io.Writer
	styled  bool
	heading lipgloss.Style
	muted   lipgloss.Style
}

func newPrinter(w io.Writer) *printer {
	return &printer{
		w:       w,
		styled:  isTerminal(w),
		heading: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),
	}
}

func (p *printer) Heading(s string) string {
	if !p.styled {
		return s
	}
	return p.heading.Render(s)
}

func (p *printer) Muted(s string) string {
	if !p.styled {
		return s
	}
	return p.muted.Render(s)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}

// snippet flattens whitespace and shortens text to at most n runes.
func snippet(text string, n int) string {
	flat := strings.Join(strings.Fields(text), " ")
	runes := []rune(flat)
	if len(runes) <= n {
		return flat
	}
	return string(runes[:n-3]) + "..."
}
