package driving

import (
	"context"

	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
)

// RetrievalService answers questions grounded in a scope's materials.
type RetrievalService interface {
	// Query retrieves the closest chunks for question and generates an answer.
	// recentContext is an optional snippet of recent discussion.
	Query(ctx context.Context, scope domain.Scope, question, recentContext string) (domain.Answer, error)

	// Summarize generates a summary from a caller-supplied discussion
	// snippet and already-retrieved chunk texts.
	Summarize(ctx context.Context, scope domain.Scope, chatSnippet string, chunkTexts []string) (string, error)

	// ScopeSummary retrieves overview material for the scope and summarises it
	// together with the discussion snippet.
	ScopeSummary(ctx context.Context, scope domain.Scope, chatSnippet string) (string, error)

	// Search retrieves the closest chunks without generating an answer.
	Search(ctx context.Context, scope domain.Scope, query string, topK int) ([]domain.RetrievedChunk, error)
}
