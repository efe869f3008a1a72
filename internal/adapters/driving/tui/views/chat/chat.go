// Package chat provides the question and answer view for the TUI.
package chat

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/msa123-tech/StudyConnect-AI/internal/adapters/driving/tui/components/input"
	"github.com/msa123-tech/StudyConnect-AI/internal/adapters/driving/tui/components/list"
	"github.com/msa123-tech/StudyConnect-AI/internal/adapters/driving/tui/components/status"
	"github.com/msa123-tech/StudyConnect-AI/internal/adapters/driving/tui/keymap"
	"github.com/msa123-tech/StudyConnect-AI/internal/adapters/driving/tui/messages"
	"github.com/msa123-tech/StudyConnect-AI/internal/adapters/driving/tui/styles"
	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
	"github.com/msa123-tech/StudyConnect-AI/internal/core/ports/driving"
)

// DefaultHistoryTurns is how many recent turns are sent as discussion context.
const DefaultHistoryTurns = 3

// Turn is one exchange in the transcript.
type Turn struct {
	Question string
	Answer   string
	Sources  []domain.RetrievedChunk
	Summary  bool
}

// View is the chat view: a transcript, a prompt and the sources of the
// latest answer.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.PromptInput
	sources   *list.SourceList
	statusbar *status.Bar

	retrieval driving.RetrievalService
	scope     domain.Scope
	ctx       context.Context

	turns        []Turn
	historyTurns int

	width      int
	height     int
	ready      bool
	err        error
	pending    bool
	focusInput bool // false while browsing sources
}

// NewView creates a new chat view for scope.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	retrieval driving.RetrievalService,
	scope domain.Scope,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	bar := status.NewBar(s, km)
	bar.SetScope(scope.String())

	return &View{
		styles:       s,
		keymap:       km,
		input:        input.NewPromptInput(s),
		sources:      list.NewSourceList(s),
		statusbar:    bar,
		retrieval:    retrieval,
		scope:        scope,
		ctx:          context.Background(),
		historyTurns: DefaultHistoryTurns,
		width:        80,
		height:       24,
		focusInput:   true,
	}
}

// WithContext sets the context for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerReceived:
		v.handleAnswer(msg)
		return v, nil

	case messages.SummaryReceived:
		v.handleSummary(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.pending = false
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	key := msg.String()

	if keymap.Matches(key, v.keymap.ToggleSources) {
		v.toggleFocus()
		return v, nil
	}

	if keymap.Matches(key, v.keymap.Summarize) {
		if v.pending {
			return v, nil
		}
		return v, v.summarize()
	}

	if !v.focusInput {
		v.sources, _ = v.sources.Update(msg)
		return v, nil
	}

	if msg.Type == tea.KeyEnter {
		question := strings.TrimSpace(v.input.Value())
		if question == "" || v.pending {
			return v, nil
		}
		v.input.Reset()
		return v, v.ask(question)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) toggleFocus() {
	if v.focusInput && v.sources.IsEmpty() {
		return
	}
	v.focusInput = !v.focusInput
	if v.focusInput {
		v.input.Focus()
		v.statusbar.SetState(status.StateAnswered)
		return
	}
	v.input.Blur()
	v.statusbar.SetState(status.StateSources)
}

// ask returns a command that queries the retrieval service.
func (v *View) ask(question string) tea.Cmd {
	v.pending = true
	v.err = nil
	v.statusbar.SetState(status.StateThinking)
	recent := v.RecentContext()

	return func() tea.Msg {
		if v.retrieval == nil {
			return messages.ErrorOccurred{Err: ErrNoRetrievalService}
		}
		answer, err := v.retrieval.Query(v.ctx, v.scope, question, recent)
		return messages.AnswerReceived{Question: question, Answer: answer, Err: err}
	}
}

// summarize returns a command that summarises the scope.
func (v *View) summarize() tea.Cmd {
	v.pending = true
	v.err = nil
	v.statusbar.SetState(status.StateThinking)
	recent := v.RecentContext()

	return func() tea.Msg {
		if v.retrieval == nil {
			return messages.ErrorOccurred{Err: ErrNoRetrievalService}
		}
		summary, err := v.retrieval.ScopeSummary(v.ctx, v.scope, recent)
		return messages.SummaryReceived{Summary: summary, Err: err}
	}
}

func (v *View) handleAnswer(msg messages.AnswerReceived) {
	v.pending = false
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}
	v.err = nil
	v.turns = append(v.turns, Turn{
		Question: msg.Question,
		Answer:   msg.Answer.Text,
		Sources:  msg.Answer.Sources,
	})
	v.sources.SetSources(msg.Answer.Sources)
	v.statusbar.SetState(status.StateAnswered)
	v.statusbar.SetSourceCount(len(msg.Answer.Sources))
}

func (v *View) handleSummary(msg messages.SummaryReceived) {
	v.pending = false
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}
	v.err = nil
	v.turns = append(v.turns, Turn{Question: "Summary", Answer: msg.Summary, Summary: true})
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage("Summary ready")
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// RecentContext renders the last few question and answer turns as the
// discussion snippet handed to retrieval. Summaries are left out.
func (v *View) RecentContext() string {
	var lines []string
	count := 0
	for i := len(v.turns) - 1; i >= 0 && count < v.historyTurns; i-- {
		t := v.turns[i]
		if t.Summary {
			continue
		}
		lines = append(lines, "Assistant: "+t.Answer, "Student: "+t.Question)
		count++
	}
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return strings.Join(lines, "\n")
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)
	sections = append(sections, v.styles.Title.Render("StudyConnect - "+v.scope.String()), "")

	transcript := v.renderTranscript()
	if transcript != "" {
		sections = append(sections, transcript, "")
	}

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.input.View())

	if !v.sources.IsEmpty() {
		sections = append(sections, "", v.sources.View())
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderTranscript renders the turns, keeping the newest lines that fit.
func (v *View) renderTranscript() string {
	if len(v.turns) == 0 {
		return v.styles.Muted.Render("Ask a question about this scope's uploaded materials.")
	}

	wrap := lipgloss.NewStyle().Width(max(v.width-4, 20))
	var lines []string
	for _, t := range v.turns {
		label := "You: "
		if t.Summary {
			label = "Summary"
			lines = append(lines, v.styles.Question.Render(label))
		} else {
			lines = append(lines, v.styles.Question.Render(label)+v.styles.Normal.Render(t.Question))
		}
		body := wrap.Render(t.Answer)
		lines = append(lines, v.styles.Answer.Render("Assistant:"))
		lines = append(lines, strings.Split(body, "\n")...)
		lines = append(lines, "")
	}

	// Reserve room for header, prompt, sources and status.
	budget := max(v.height-8-min(v.sources.Count()*2+2, 10), 3)
	if len(lines) > budget {
		lines = lines[len(lines)-budget:]
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.sources.SetDimensions(width, min(height/3, 10))
	v.statusbar.SetWidth(width)
}

// Turns returns the transcript.
func (v *View) Turns() []Turn {
	return v.turns
}

// Pending reports whether a request is in flight.
func (v *View) Pending() bool {
	return v.pending
}

// InputFocused returns whether the prompt has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Input returns the current prompt text.
func (v *View) Input() string {
	return v.input.Value()
}

// Sources returns the sources of the latest answer.
func (v *View) Sources() []domain.RetrievedChunk {
	return v.sources.Sources()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Reset clears the transcript and focuses the prompt.
func (v *View) Reset() {
	v.turns = nil
	v.pending = false
	v.err = nil
	v.focusInput = true
	v.input.Focus()
	v.input.Reset()
	v.sources.SetSources(nil)
	v.statusbar.Clear()
}
