package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/msa123-tech/StudyConnect-AI/internal/adapters/driving/tui/keymap"
	"github.com/msa123-tech/StudyConnect-AI/internal/adapters/driving/tui/messages"
	"github.com/msa123-tech/StudyConnect-AI/internal/adapters/driving/tui/styles"
	"github.com/msa123-tech/StudyConnect-AI/internal/adapters/driving/tui/views/chat"
	"github.com/msa123-tech/StudyConnect-AI/internal/adapters/driving/tui/views/doccontent"
	"github.com/msa123-tech/StudyConnect-AI/internal/adapters/driving/tui/views/documents"
	"github.com/msa123-tech/StudyConnect-AI/internal/adapters/driving/tui/views/menu"
	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// scope is the course or group the session is bound to.
	scope domain.Scope

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// menuView is the main navigation menu.
	menuView *menu.View

	// chatView is the question and answer view.
	chatView *chat.View

	// documentsView is the documents list view component.
	documentsView *documents.View

	// docContentView shows the chunks of the selected document.
	docContentView *doccontent.View

	// selectedDocument tracks the currently selected document for navigation.
	selectedDocument *domain.Document

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application bound to scope.
func NewApp(ports *Ports, scope domain.Scope) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	if err := scope.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w: %w", ErrInvalidScope, err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:          ports,
		scope:          scope,
		ctx:            context.Background(),
		styles:         s,
		menuView:       menu.NewView(s, scope),
		chatView:       chat.NewView(s, km, ports.Retrieval, scope),
		documentsView:  documents.NewView(s, ports.Document, scope),
		docContentView: doccontent.NewView(s, ports.Document),
		currentView:    messages.ViewChat,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chatView.WithContext(ctx)
	a.documentsView.WithContext(ctx)
	a.docContentView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("StudyConnect - "+a.scope.String()),
		a.chatView.Init(),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.forwardToActive(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewDocuments:
			return a, a.documentsView.Load()
		case messages.ViewChat:
			return a, a.chatView.Init()
		case messages.ViewMenu, messages.ViewDocContent, messages.ViewHelp:
			// No initialisation needed.
		}
		return a, nil

	case messages.AnswerReceived, messages.SummaryReceived:
		// Answers land in the chat even if the user navigated away.
		a.chatView, cmd = a.chatView.Update(msg)
		a.err = a.chatView.Err()
		return a, cmd

	case messages.DocumentsLoaded:
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, cmd

	case messages.DocumentSelected:
		doc := msg.Document
		a.selectedDocument = &doc
		a.currentView = messages.ViewDocContent
		return a, a.docContentView.SetDocument(&doc)

	case messages.ChunksLoaded:
		a.docContentView, cmd = a.docContentView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		switch a.currentView {
		case messages.ViewChat:
			a.chatView, cmd = a.chatView.Update(msg)
		case messages.ViewDocuments:
			a.documentsView, cmd = a.documentsView.Update(msg)
		case messages.ViewDocContent:
			a.docContentView, cmd = a.docContentView.Update(msg)
		case messages.ViewMenu, messages.ViewHelp:
			// Nothing to show the error in.
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	return a.forwardToActive(msg)
}

// forwardToActive hands msg to the active view.
func (a *App) forwardToActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewDocContent:
		a.docContentView, cmd = a.docContentView.Update(msg)
	case messages.ViewHelp:
		if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
			a.currentView = messages.ViewMenu
		}
	}

	return a, cmd
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewMenu:
		return a.menuView.View()
	case messages.ViewChat:
		return a.chatView.View()
	case messages.ViewDocuments:
		return a.documentsView.View()
	case messages.ViewDocContent:
		return a.docContentView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Navigation:
  esc         Back
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Chat:
  (type)      Enter a question
  enter       Ask
  ctrl+s      Summarise the materials and recent discussion
  tab         Switch between the prompt and the answer's sources

Documents:
  j/k, ↑/↓    Navigate documents
  enter       View chunks
  r           Reload

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// Scope returns the scope the session is bound to.
func (a *App) Scope() domain.Scope {
	return a.scope
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// SelectedDocument returns the document being viewed, if any.
func (a *App) SelectedDocument() *domain.Document {
	return a.selectedDocument
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions and resizes every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.chatView.SetDimensions(width, height)
	a.documentsView.SetDimensions(width, height)
	a.docContentView.SetDimensions(width, height)
}
