package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
)

func TestExtractScope(t *testing.T) {
	tests := []struct {
		name   string
		uri    string
		want   domain.Scope
		wantOK bool
	}{
		{"course", "studyconnect://scopes/course/12/documents", course12, true},
		{"group", "studyconnect://scopes/group/4/documents", domain.Scope{Type: domain.ScopeGroup, ID: 4}, true},
		{"invalid prefix", "file://scopes/course/12/documents", domain.Scope{}, false},
		{"missing suffix", "studyconnect://scopes/course/12", domain.Scope{}, false},
		{"missing id", "studyconnect://scopes/course/documents", domain.Scope{}, false},
		{"unknown type", "studyconnect://scopes/club/1/documents", domain.Scope{}, false},
		{"empty", "", domain.Scope{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractScope(tt.uri)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractDocumentID(t *testing.T) {
	tests := []struct {
		name   string
		uri    string
		want   int64
		wantOK bool
	}{
		{"valid", "studyconnect://documents/42", 42, true},
		{"invalid prefix", "file://documents/42", 0, false},
		{"not a number", "studyconnect://documents/abc", 0, false},
		{"zero", "studyconnect://documents/0", 0, false},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractDocumentID(tt.uri)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleDocumentsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil document service returns not found", func(t *testing.T) {
		server := newTestServer(t, &Ports{Retrieval: &mockRetrievalService{}})

		_, err := server.handleDocumentsResource(ctx, makeReadResourceRequest("studyconnect://scopes/course/12/documents"))

		require.Error(t, err)
	})

	t.Run("invalid URI returns not found", func(t *testing.T) {
		server := newTestServer(t, &Ports{Retrieval: &mockRetrievalService{}, Document: &mockDocumentService{}})

		_, err := server.handleDocumentsResource(ctx, makeReadResourceRequest("studyconnect://invalid/uri"))

		require.Error(t, err)
	})

	t.Run("returns documents", func(t *testing.T) {
		docs := &mockDocumentService{documents: []domain.Document{
			{ID: 1, Filename: "syllabus.pdf", CreatedAt: time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)},
			{ID: 2, Filename: "week1.docx", UploadedBy: 9},
		}}
		server := newTestServer(t, &Ports{Retrieval: &mockRetrievalService{}, Document: docs})

		result, err := server.handleDocumentsResource(ctx, makeReadResourceRequest("studyconnect://scopes/course/12/documents"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		text := result.Contents[0].Text
		assert.Contains(t, text, "syllabus.pdf")
		assert.Contains(t, text, "2026-09-01T08:00:00Z")
		assert.Contains(t, text, `"uri": "studyconnect://documents/2"`)
		assert.Contains(t, text, `"uploaded_by": 9`)
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		docs := &mockDocumentService{err: errors.New("storage error")}
		server := newTestServer(t, &Ports{Retrieval: &mockRetrievalService{}, Document: docs})

		_, err := server.handleDocumentsResource(ctx, makeReadResourceRequest("studyconnect://scopes/course/12/documents"))

		assert.ErrorContains(t, err, "listing documents")
	})
}

func TestServer_handleDocumentContentResource(t *testing.T) {
	ctx := context.Background()

	t.Run("joins chunks in order", func(t *testing.T) {
		docs := &mockDocumentService{chunks: []domain.Chunk{
			{ID: 1, Content: "First part.", Position: 0},
			{ID: 2, Content: "Second part.", Position: 1},
		}}
		server := newTestServer(t, &Ports{Retrieval: &mockRetrievalService{}, Document: docs})

		result, err := server.handleDocumentContentResource(ctx, makeReadResourceRequest("studyconnect://documents/3"))

		require.NoError(t, err)
		assert.Equal(t, "First part.\n\nSecond part.", result.Contents[0].Text)
		assert.Equal(t, "text/plain", result.Contents[0].MIMEType)
	})

	t.Run("unknown document returns not found", func(t *testing.T) {
		docs := &mockDocumentService{err: domain.ErrNotFound}
		server := newTestServer(t, &Ports{Retrieval: &mockRetrievalService{}, Document: docs})

		_, err := server.handleDocumentContentResource(ctx, makeReadResourceRequest("studyconnect://documents/3"))

		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("storage failure is wrapped", func(t *testing.T) {
		docs := &mockDocumentService{err: errors.New("locked")}
		server := newTestServer(t, &Ports{Retrieval: &mockRetrievalService{}, Document: docs})

		_, err := server.handleDocumentContentResource(ctx, makeReadResourceRequest("studyconnect://documents/3"))

		assert.ErrorContains(t, err, "getting document chunks")
	})

	t.Run("bad id returns not found", func(t *testing.T) {
		server := newTestServer(t, &Ports{Retrieval: &mockRetrievalService{}, Document: &mockDocumentService{}})

		_, err := server.handleDocumentContentResource(ctx, makeReadResourceRequest("studyconnect://documents/x"))

		require.Error(t, err)
	})
}
