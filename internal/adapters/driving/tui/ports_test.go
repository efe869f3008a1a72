package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
	"github.com/msa123-tech/StudyConnect-AI/internal/core/ports/driving"
)

// MockRetrievalService implements driving.RetrievalService for testing.
type MockRetrievalService struct {
	QueryFunc        func(ctx context.Context, scope domain.Scope, question, recent string) (domain.Answer, error)
	ScopeSummaryFunc func(ctx context.Context, scope domain.Scope, recent string) (string, error)
}

func (m *MockRetrievalService) Query(
	ctx context.Context, scope domain.Scope, question, recent string,
) (domain.Answer, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, scope, question, recent)
	}
	return domain.Answer{}, nil
}

func (m *MockRetrievalService) Summarize(context.Context, domain.Scope, string, []string) (string, error) {
	return "", nil
}

func (m *MockRetrievalService) ScopeSummary(ctx context.Context, scope domain.Scope, recent string) (string, error) {
	if m.ScopeSummaryFunc != nil {
		return m.ScopeSummaryFunc(ctx, scope, recent)
	}
	return "", nil
}

func (m *MockRetrievalService) Search(context.Context, domain.Scope, string, int) ([]domain.RetrievedChunk, error) {
	return nil, nil
}

// MockDocumentService implements driving.DocumentService for testing.
type MockDocumentService struct {
	ListFunc   func(ctx context.Context, scope domain.Scope) ([]domain.Document, error)
	ChunksFunc func(ctx context.Context, id int64) ([]domain.Chunk, error)
}

func (m *MockDocumentService) List(ctx context.Context, scope domain.Scope) ([]domain.Document, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, scope)
	}
	return nil, nil
}

func (m *MockDocumentService) Get(context.Context, int64) (*domain.Document, error) {
	return nil, domain.ErrNotFound
}

func (m *MockDocumentService) Chunks(ctx context.Context, id int64) ([]domain.Chunk, error) {
	if m.ChunksFunc != nil {
		return m.ChunksFunc(ctx, id)
	}
	return nil, nil
}

var (
	_ driving.RetrievalService = (*MockRetrievalService)(nil)
	_ driving.DocumentService  = (*MockDocumentService)(nil)
)

func TestNewPorts(t *testing.T) {
	retrieval := &MockRetrievalService{}
	docs := &MockDocumentService{}

	ports := NewPorts(retrieval, docs)

	require.NotNil(t, ports)
	assert.Equal(t, retrieval, ports.Retrieval)
	assert.Equal(t, docs, ports.Document)
	assert.NoError(t, ports.Validate())
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name  string
		ports *Ports
		want  error
	}{
		{"nil ports", nil, ErrInvalidPorts},
		{"missing retrieval", &Ports{Document: &MockDocumentService{}}, ErrMissingRetrievalService},
		{"missing documents", &Ports{Retrieval: &MockRetrievalService{}}, ErrMissingDocumentService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.ports.Validate(), tt.want)
		})
	}
}
