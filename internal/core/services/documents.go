package services

import (
	"context"
	"sort"

	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
	"github.com/msa123-tech/StudyConnect-AI/internal/core/ports/driven"
	"github.com/msa123-tech/StudyConnect-AI/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService provides read access to ingested documents.
type DocumentService struct {
	docStore driven.DocumentStore
}

// NewDocumentService creates a new document service.
func NewDocumentService(docStore driven.DocumentStore) *DocumentService {
	return &DocumentService{docStore: docStore}
}

// List returns the scope's documents.
func (s *DocumentService) List(ctx context.Context, scope domain.Scope) ([]domain.Document, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	return s.docStore.ListDocuments(ctx, scope)
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, id int64) (*domain.Document, error) {
	return s.docStore.GetDocument(ctx, id)
}

// Chunks returns a document's chunks sorted by position.
func (s *DocumentService) Chunks(ctx context.Context, id int64) ([]domain.Chunk, error) {
	if _, err := s.docStore.GetDocument(ctx, id); err != nil {
		return nil, err
	}
	chunks, err := s.docStore.GetDocumentChunks(ctx, id)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].Position < chunks[j].Position
	})
	return chunks, nil
}
