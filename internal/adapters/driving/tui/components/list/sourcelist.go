// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/msa123-tech/StudyConnect-AI/internal/adapters/driving/tui/styles"
	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
)

// SourceList displays the chunks that grounded an answer, in rank order.
type SourceList struct {
	sources  []domain.RetrievedChunk
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewSourceList creates a new source list component.
func NewSourceList(s *styles.Styles) *SourceList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &SourceList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the source list.
func (r *SourceList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *SourceList) Update(msg tea.Msg) (*SourceList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the source list.
func (r *SourceList) View() string {
	if len(r.sources) == 0 {
		return r.styles.Muted.Render("No sources")
	}

	lines := make([]string, 0, len(r.sources)+2)
	lines = append(lines, r.styles.Subtitle.Render(fmt.Sprintf("Sources (%d)", len(r.sources))), "")

	// Each source takes two lines.
	visibleCount := max((r.height-2)/2, 1)

	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := min(start+visibleCount, len(r.sources))

	for i := start; i < end; i++ {
		lines = append(lines, r.renderSource(i, &r.sources[i]))
	}

	return strings.Join(lines, "\n")
}

func (r *SourceList) renderSource(index int, src *domain.RetrievedChunk) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	label := fmt.Sprintf("[%d] document %d, part %d", src.Rank, src.Chunk.DocumentID, src.Chunk.Position+1)
	distance := fmt.Sprintf("d=%.3f", src.Distance)

	var titleLine string
	if index == r.selected {
		titleLine = r.styles.Selected.Render(indicator + label + "  " + distance)
	} else {
		titleLine = r.styles.Normal.Render(indicator+label+"  ") + r.styles.Distance.Render(distance)
	}

	preview := strings.Join(strings.Fields(src.Chunk.Content), " ")
	maxPreview := max(r.width-6, 20)
	if len([]rune(preview)) > maxPreview {
		preview = string([]rune(preview)[:maxPreview-3]) + "..."
	}

	return titleLine + "\n" + r.styles.Muted.Render("    "+preview)
}

// SetSources replaces the list contents and resets the selection.
func (r *SourceList) SetSources(sources []domain.RetrievedChunk) {
	r.sources = sources
	r.selected = 0
}

// Sources returns the current sources.
func (r *SourceList) Sources() []domain.RetrievedChunk {
	return r.sources
}

// Selected returns the index of the selected source.
func (r *SourceList) Selected() int {
	return r.selected
}

// SelectedSource returns the currently selected source, or nil if none.
func (r *SourceList) SelectedSource() *domain.RetrievedChunk {
	if r.selected < 0 || r.selected >= len(r.sources) {
		return nil
	}
	return &r.sources[r.selected]
}

// MoveUp moves selection up.
func (r *SourceList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *SourceList) MoveDown() {
	if r.selected < len(r.sources)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *SourceList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of sources.
func (r *SourceList) Count() int {
	return len(r.sources)
}

// IsEmpty returns whether the list is empty.
func (r *SourceList) IsEmpty() bool {
	return len(r.sources) == 0
}
