package driven

import (
	"context"

	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
)

// DocumentStore is the relational store for documents and chunk text.
// The index only holds chunk ids; this store resolves them to text.
type DocumentStore interface {
	// SaveDocument inserts a document and assigns its ID and CreatedAt.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id int64) (*domain.Document, error)

	// ListDocuments returns the scope's documents, oldest first.
	ListDocuments(ctx context.Context, scope domain.Scope) ([]domain.Document, error)

	// DeleteDocument removes a document and its chunks.
	DeleteDocument(ctx context.Context, id int64) error

	// SaveChunks inserts chunk texts for a document in order and returns
	// them with IDs assigned. Position follows the slice order.
	SaveChunks(ctx context.Context, documentID int64, texts []string) ([]domain.Chunk, error)

	// GetChunks resolves chunk ids. Missing ids are omitted from the map.
	GetChunks(ctx context.Context, ids []int64) (map[int64]domain.Chunk, error)

	// GetDocumentChunks returns a document's chunks by position.
	GetDocumentChunks(ctx context.Context, documentID int64) ([]domain.Chunk, error)

	// Close releases resources.
	Close() error
}

// UploadStore archives the original bytes of an upload.
type UploadStore interface {
	// Save stores content under a unique name derived from the scope and
	// the original filename's extension, returning the storage path.
	Save(ctx context.Context, scope domain.Scope, filename string, content []byte) (string, error)

	// Delete removes an archived upload. Missing files are not an error.
	Delete(ctx context.Context, path string) error
}
