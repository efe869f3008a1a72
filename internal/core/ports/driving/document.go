package driving

import (
	"context"

	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
)

// DocumentService provides read access to ingested documents.
type DocumentService interface {
	// List returns the scope's documents.
	List(ctx context.Context, scope domain.Scope) ([]domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, id int64) (*domain.Document, error)

	// Chunks returns a document's chunks in order.
	Chunks(ctx context.Context, id int64) ([]domain.Chunk, error)
}
