package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for resources.
	uriScheme = "studyconnect://"
)

// registerResources registers resource handlers when a document service is available.
func (s *Server) registerResources() {
	if s.ports.Document == nil {
		return
	}

	// Documents of a course or group.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "scopes/{type}/{id}/documents",
		Name:        "scope-documents",
		Description: "Documents uploaded to a course or group",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	// Extracted text of a document, chunk by chunk.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}",
		Name:        "document-content",
		Description: "Extracted text of a document",
		MIMEType:    "text/plain",
	}, s.handleDocumentContentResource)
}

// handleDocumentsResource returns the documents of a scope.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Document == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	scope, ok := extractScope(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	docs, err := s.ports.Document.List(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	type docInfo struct {
		ID         int64  `json:"id"`
		Filename   string `json:"filename"`
		UploadedBy int64  `json:"uploaded_by,omitempty"`
		CreatedAt  string `json:"created_at,omitempty"`
		URI        string `json:"uri"`
	}

	infos := make([]docInfo, len(docs))
	for i := range docs {
		infos[i] = docInfo{
			ID:         docs[i].ID,
			Filename:   docs[i].Filename,
			UploadedBy: docs[i].UploadedBy,
			URI:        documentURI(docs[i].ID),
		}
		if !docs[i].CreatedAt.IsZero() {
			infos[i].CreatedAt = docs[i].CreatedAt.UTC().Format("2006-01-02T15:04:05Z")
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling documents: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleDocumentContentResource returns a document's chunks joined in order.
func (s *Server) handleDocumentContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Document == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	docID, ok := extractDocumentID(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	chunks, err := s.ports.Document.Chunks(ctx, docID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting document chunks: %w", err)
	}

	parts := make([]string, len(chunks))
	for i := range chunks {
		parts[i] = chunks[i].Content
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     strings.Join(parts, "\n\n"),
		}},
	}, nil
}

func documentURI(id int64) string {
	return uriScheme + "documents/" + strconv.FormatInt(id, 10)
}

// extractScope parses a URI like studyconnect://scopes/course/12/documents.
func extractScope(uri string) (domain.Scope, bool) {
	const prefix = uriScheme + "scopes/"
	const suffix = "/documents"

	if !strings.HasPrefix(uri, prefix) || !strings.HasSuffix(uri, suffix) {
		return domain.Scope{}, false
	}

	rest := strings.TrimSuffix(strings.TrimPrefix(uri, prefix), suffix)
	typ, id, ok := strings.Cut(rest, "/")
	if !ok {
		return domain.Scope{}, false
	}

	scope, err := domain.ParseScope(typ + ":" + id)
	if err != nil {
		return domain.Scope{}, false
	}
	return scope, true
}

// extractDocumentID parses a URI like studyconnect://documents/42.
func extractDocumentID(uri string) (int64, bool) {
	const prefix = uriScheme + "documents/"

	if !strings.HasPrefix(uri, prefix) {
		return 0, false
	}

	id, err := strconv.ParseInt(strings.TrimPrefix(uri, prefix), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
