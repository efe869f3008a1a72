package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msa123-tech/StudyConnect-AI/internal/adapters/driving/tui/messages"
	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
)

var testScope = domain.Scope{Type: domain.ScopeCourse, ID: 12}

func newTestPorts() *Ports {
	return &Ports{
		Retrieval: &MockRetrievalService{},
		Document:  &MockDocumentService{},
	}
}

func newTestApp(t *testing.T, ports *Ports) *App {
	t.Helper()
	app, err := NewApp(ports, testScope)
	require.NoError(t, err)
	app.SetDimensions(100, 30)
	return app
}

func typeInto(app *App, text string) {
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func TestNewApp_Success(t *testing.T) {
	app, err := NewApp(newTestPorts(), testScope)

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, messages.ViewChat, app.CurrentView())
	assert.Equal(t, testScope, app.Scope())
	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{Document: &MockDocumentService{}}, testScope)

	assert.ErrorIs(t, err, ErrMissingRetrievalService)
	assert.Nil(t, app)
}

func TestNewApp_InvalidScope(t *testing.T) {
	app, err := NewApp(newTestPorts(), domain.Scope{Type: "club", ID: 1})

	assert.ErrorIs(t, err, ErrInvalidScope)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, app)
}

func TestApp_WithContextAndInit(t *testing.T) {
	app, _ := NewApp(newTestPorts(), testScope)

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Equal(t, app, app.WithContext(ctx))
	assert.NotNil(t, app.Init())
}

func TestApp_Update_WindowSize(t *testing.T) {
	app, _ := NewApp(newTestPorts(), testScope)

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
	assert.True(t, app.Ready())
}

func TestApp_CtrlCQuits(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_QuitMessage(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	_, cmd := app.Update(messages.Quit{})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_AskFlow(t *testing.T) {
	var gotScope domain.Scope
	ports := newTestPorts()
	ports.Retrieval = &MockRetrievalService{
		QueryFunc: func(_ context.Context, s domain.Scope, q, _ string) (domain.Answer, error) {
			gotScope = s
			return domain.Answer{Text: "Photosynthesis makes glucose from light."}, nil
		},
	}
	app := newTestApp(t, ports)

	typeInto(app, "What does photosynthesis do?")
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	app.Update(cmd())

	assert.Equal(t, testScope, gotScope)
	assert.NoError(t, app.Err())
	assert.Contains(t, app.View(), "Photosynthesis makes glucose from light.")
}

func TestApp_AnswerArrivesAfterNavigatingAway(t *testing.T) {
	app := newTestApp(t, newTestPorts())
	app.Update(messages.ViewChanged{View: messages.ViewMenu})

	app.Update(messages.AnswerReceived{Question: "q", Answer: domain.Answer{Text: "late answer"}})
	app.Update(messages.ViewChanged{View: messages.ViewChat})

	assert.Contains(t, app.View(), "late answer")
}

func TestApp_AnswerErrorIsRecorded(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	app.Update(messages.AnswerReceived{Question: "q", Err: domain.ErrEmbeddingUnavailable})

	assert.ErrorIs(t, app.Err(), domain.ErrEmbeddingUnavailable)
}

func TestApp_EscFromChatOpensMenu(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Equal(t, messages.ViewMenu, app.CurrentView())
	assert.Contains(t, app.View(), "StudyConnect")
}

func TestApp_MenuToHelpAndBack(t *testing.T) {
	app := newTestApp(t, newTestPorts())
	app.Update(messages.ViewChanged{View: messages.ViewMenu})

	// Help is the third item.
	app.Update(tea.KeyMsg{Type: tea.KeyDown})
	app.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Contains(t, app.View(), "ctrl+s")

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_DocumentsFlow(t *testing.T) {
	docs := []domain.Document{{ID: 3, Scope: testScope, Filename: "syllabus.pdf"}}
	chunks := []domain.Chunk{{ID: 30, DocumentID: 3, Content: "Week one covers cells.", Position: 0}}

	var listedScope domain.Scope
	var chunkDoc int64
	ports := newTestPorts()
	ports.Document = &MockDocumentService{
		ListFunc: func(_ context.Context, s domain.Scope) ([]domain.Document, error) {
			listedScope = s
			return docs, nil
		},
		ChunksFunc: func(_ context.Context, id int64) ([]domain.Chunk, error) {
			chunkDoc = id
			return chunks, nil
		},
	}
	app := newTestApp(t, ports)

	// 1. Open the documents list.
	_, cmd := app.Update(messages.ViewChanged{View: messages.ViewDocuments})
	require.NotNil(t, cmd)
	app.Update(cmd())
	assert.Equal(t, testScope, listedScope)
	assert.Contains(t, app.View(), "syllabus.pdf")

	// 2. Select the document.
	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	_, cmd = app.Update(cmd())
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewDocContent, app.CurrentView())
	require.NotNil(t, app.SelectedDocument())
	assert.Equal(t, int64(3), app.SelectedDocument().ID)

	// 3. Chunks load into the viewer.
	app.Update(cmd())
	assert.Equal(t, int64(3), chunkDoc)
	assert.Contains(t, app.View(), "Week one covers cells.")

	// 4. Esc returns to the list.
	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	app.Update(cmd())
	assert.Equal(t, messages.ViewDocuments, app.CurrentView())
}

func TestApp_ErrorOccurredForwardsToActiveView(t *testing.T) {
	app := newTestApp(t, newTestPorts())
	err := errors.New("disk full")

	app.Update(messages.ErrorOccurred{Err: err})

	assert.ErrorIs(t, app.Err(), err)
	assert.Contains(t, app.View(), "disk full")
}

func TestApp_ViewForEveryViewType(t *testing.T) {
	app := newTestApp(t, newTestPorts())

	for _, v := range []messages.ViewType{
		messages.ViewMenu, messages.ViewChat, messages.ViewDocuments,
		messages.ViewDocContent, messages.ViewHelp,
	} {
		app.currentView = v
		assert.NotEmpty(t, app.View(), v.String())
	}
}
