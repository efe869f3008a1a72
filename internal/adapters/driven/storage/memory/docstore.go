// Package memory provides an in-memory document store for tests and
// throwaway sessions. Nothing survives a restart, so it must not be paired
// with a persistent vector index outside of tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
	"github.com/msa123-tech/StudyConnect-AI/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu          sync.RWMutex
	documents   map[int64]domain.Document
	chunks      map[int64]domain.Chunk
	nextDocID   int64
	nextChunkID int64
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[int64]domain.Document),
		chunks:    make(map[int64]domain.Chunk),
	}
}

// SaveDocument inserts a document and assigns its ID and CreatedAt.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	if doc == nil {
		return domain.ErrInvalidInput
	}
	if err := doc.Scope.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextDocID++
	doc.ID = s.nextDocID
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	s.documents[doc.ID] = *doc
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id int64) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// ListDocuments returns the scope's documents, oldest first.
func (s *DocumentStore) ListDocuments(_ context.Context, scope domain.Scope) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var docs []domain.Document
	for _, doc := range s.documents {
		if doc.Scope == scope {
			docs = append(docs, doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// DeleteDocument removes a document and its chunks.
func (s *DocumentStore) DeleteDocument(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, id)
	for cid, c := range s.chunks {
		if c.DocumentID == id {
			delete(s.chunks, cid)
		}
	}
	return nil
}

// SaveChunks inserts chunk texts for a document in order.
func (s *DocumentStore) SaveChunks(_ context.Context, documentID int64, texts []string) ([]domain.Chunk, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[documentID]; !ok {
		return nil, domain.ErrNotFound
	}
	out := make([]domain.Chunk, 0, len(texts))
	for pos, text := range texts {
		s.nextChunkID++
		c := domain.Chunk{ID: s.nextChunkID, DocumentID: documentID, Content: text, Position: pos}
		s.chunks[c.ID] = c
		out = append(out, c)
	}
	return out, nil
}

// GetChunks resolves chunk ids. Missing ids are omitted.
func (s *DocumentStore) GetChunks(_ context.Context, ids []int64) (map[int64]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make(map[int64]domain.Chunk, len(ids))
	for _, id := range ids {
		if c, ok := s.chunks[id]; ok {
			result[id] = c
		}
	}
	return result, nil
}

// GetDocumentChunks returns a document's chunks by position.
func (s *DocumentStore) GetDocumentChunks(_ context.Context, documentID int64) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var chunks []domain.Chunk
	for _, c := range s.chunks {
		if c.DocumentID == documentID {
			chunks = append(chunks, c)
		}
	}
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Position < chunks[j].Position })
	return chunks, nil
}

// Close is a no-op.
func (s *DocumentStore) Close() error {
	return nil
}
