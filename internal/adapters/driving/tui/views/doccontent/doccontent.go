// Package doccontent provides the document chunk viewer for the TUI.
package doccontent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/msa123-tech/StudyConnect-AI/internal/adapters/driving/tui/messages"
	"github.com/msa123-tech/StudyConnect-AI/internal/adapters/driving/tui/styles"
	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
	"github.com/msa123-tech/StudyConnect-AI/internal/core/ports/driving"
)

// ErrNoDocumentService indicates that no document service was provided.
var ErrNoDocumentService = errors.New("document service not available")

// View shows the chunks of one document in position order.
type View struct {
	styles          *styles.Styles
	documentService driving.DocumentService
	ctx             context.Context

	document     *domain.Document
	chunks       []domain.Chunk
	lines        []string
	scrollOffset int
	width        int
	height       int
	ready        bool
	err          error
	loading      bool
}

// NewView creates a new document content view.
func NewView(s *styles.Styles, documentService driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:          s,
		documentService: documentService,
		ctx:             context.Background(),
		width:           80,
		height:          24,
	}
}

// WithContext sets the context for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetDocument sets the document and returns a command that loads its chunks.
func (v *View) SetDocument(doc *domain.Document) tea.Cmd {
	v.document = doc
	v.chunks = nil
	v.lines = nil
	v.scrollOffset = 0
	v.err = nil
	v.loading = true
	return v.loadChunks()
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

func (v *View) loadChunks() tea.Cmd {
	doc := v.document
	return func() tea.Msg {
		if doc == nil || v.documentService == nil {
			return messages.ChunksLoaded{Err: ErrNoDocumentService}
		}
		chunks, err := v.documentService.Chunks(v.ctx, doc.ID)
		return messages.ChunksLoaded{DocumentID: doc.ID, Chunks: chunks, Err: err}
	}
}

// Update handles messages for the document content view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ChunksLoaded:
		if v.document != nil && msg.DocumentID != v.document.ID && msg.Err == nil {
			// Stale response for a previously selected document.
			return v, nil
		}
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.chunks = msg.Chunks
		v.err = nil
		v.wrapContent()
		return v, nil

	case messages.ErrorOccurred:
		v.loading = false
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case "down", "j":
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
	case "pgup", "ctrl+u":
		v.scrollOffset = max(v.scrollOffset-v.visibleLines(), 0)
	case "pgdown", "ctrl+d":
		v.scrollOffset = min(v.scrollOffset+v.visibleLines(), v.maxScrollOffset())
	case "home", "g":
		v.scrollOffset = 0
	case "end", "G":
		v.scrollOffset = v.maxScrollOffset()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewDocuments}
		}
	}

	return v, nil
}

// wrapContent lays the chunks out as display lines, one header per chunk.
func (v *View) wrapContent() {
	if len(v.chunks) == 0 {
		v.lines = nil
		return
	}

	wrap := lipgloss.NewStyle().Width(max(v.width-4, 20))
	v.lines = make([]string, 0, len(v.chunks)*4)
	for i, c := range v.chunks {
		if i > 0 {
			v.lines = append(v.lines, "")
		}
		v.lines = append(v.lines, fmt.Sprintf("-- part %d (chunk %d) --", c.Position+1, c.ID))
		v.lines = append(v.lines, strings.Split(wrap.Render(c.Content), "\n")...)
	}
}

// visibleLines returns the number of lines that can be displayed.
func (v *View) visibleLines() int {
	// Title, separator, help and padding.
	return max(v.height-6, 1)
}

func (v *View) maxScrollOffset() int {
	return max(len(v.lines)-v.visibleLines(), 0)
}

// View renders the document content view.
func (v *View) View() string {
	var b strings.Builder

	title := "Document"
	if v.document != nil {
		title = v.document.Filename
		if title == "" {
			title = fmt.Sprintf("document %d", v.document.ID)
		}
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", min(v.width-4, 60)))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading chunks..."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	case len(v.lines) == 0:
		b.WriteString(v.styles.Muted.Render("(No chunks)"))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	visible := v.visibleLines()
	for i := v.scrollOffset; i < len(v.lines) && i < v.scrollOffset+visible; i++ {
		line := v.lines[i]
		if strings.HasPrefix(line, "-- part ") {
			b.WriteString(v.styles.Subtitle.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	if len(v.lines) > visible {
		b.WriteString("\n")
		percentage := 0
		if v.maxScrollOffset() > 0 {
			percentage = v.scrollOffset * 100 / v.maxScrollOffset()
		}
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d%%] Line %d-%d of %d",
			percentage,
			v.scrollOffset+1,
			min(v.scrollOffset+visible, len(v.lines)),
			len(v.lines))))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓/PgUp/PgDn] scroll  [g/G] top/bottom  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.wrapContent()
}

// Document returns the current document.
func (v *View) Document() *domain.Document {
	return v.document
}

// Chunks returns the loaded chunks.
func (v *View) Chunks() []domain.Chunk {
	return v.chunks
}

// Loading reports whether chunks are being fetched.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
