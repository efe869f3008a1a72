// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
)

// AnswerReceived carries a grounded answer back to the chat view.
type AnswerReceived struct {
	Question string
	Answer   domain.Answer
	Err      error
}

// SummaryReceived carries a scope summary back to the chat view.
type SummaryReceived struct {
	Summary string
	Err     error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewChat is the question and answer view.
	ViewChat
	// ViewDocuments lists the scope's documents.
	ViewDocuments
	// ViewDocContent shows a document's chunks.
	ViewDocContent
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewChat:
		return "chat"
	case ViewDocuments:
		return "documents"
	case ViewDocContent:
		return "doc_content"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// DocumentsLoaded carries the documents of a scope.
type DocumentsLoaded struct {
	Scope     domain.Scope
	Documents []domain.Document
	Err       error
}

// DocumentSelected signals a document was selected.
type DocumentSelected struct {
	Document domain.Document
}

// ChunksLoaded carries a document's chunks in position order.
type ChunksLoaded struct {
	DocumentID int64
	Chunks     []domain.Chunk
	Err        error
}
