package mcp

import (
	"context"

	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
	"github.com/msa123-tech/StudyConnect-AI/internal/core/ports/driving"
)

var course12 = domain.Scope{Type: domain.ScopeCourse, ID: 12}

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	answer    domain.Answer
	summary   string
	hits      []domain.RetrievedChunk
	err       error
	lastScope domain.Scope
	lastTopK  int
	lastChat  string
	lastTexts []string
	scopeSum  bool
}

func (m *mockRetrievalService) Query(_ context.Context, scope domain.Scope, _, recent string) (domain.Answer, error) {
	m.lastScope = scope
	m.lastChat = recent
	return m.answer, m.err
}

func (m *mockRetrievalService) Summarize(_ context.Context, scope domain.Scope, chat string, texts []string) (string, error) {
	m.lastScope = scope
	m.lastChat = chat
	m.lastTexts = texts
	return m.summary, m.err
}

func (m *mockRetrievalService) ScopeSummary(_ context.Context, scope domain.Scope, chat string) (string, error) {
	m.lastScope = scope
	m.lastChat = chat
	m.scopeSum = true
	return m.summary, m.err
}

func (m *mockRetrievalService) Search(_ context.Context, scope domain.Scope, _ string, topK int) ([]domain.RetrievedChunk, error) {
	m.lastScope = scope
	m.lastTopK = topK
	return m.hits, m.err
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	result  domain.IngestResult
	err     error
	lastReq domain.IngestRequest
}

func (m *mockIngestService) Ingest(_ context.Context, req domain.IngestRequest) (domain.IngestResult, error) {
	m.lastReq = req
	return m.result, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	chunks    []domain.Chunk
	err       error
}

func (m *mockDocumentService) List(_ context.Context, _ domain.Scope) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ int64) (*domain.Document, error) {
	return nil, m.err
}

func (m *mockDocumentService) Chunks(_ context.Context, _ int64) ([]domain.Chunk, error) {
	return m.chunks, m.err
}

var (
	_ driving.RetrievalService = (*mockRetrievalService)(nil)
	_ driving.IngestService    = (*mockIngestService)(nil)
	_ driving.DocumentService  = (*mockDocumentService)(nil)
)
