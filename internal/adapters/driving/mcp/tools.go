package mcp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
	"github.com/msa123-tech/StudyConnect-AI/internal/logger"
)

// defaultSearchLimit is used when the search tool is called without a limit.
const defaultSearchLimit = 5

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Scope    string `json:"scope" jsonschema:"the course or group, e.g. course:12 or group:4"`
	Question string `json:"question" jsonschema:"the question to answer from the scope's materials"`
	Context  string `json:"context,omitempty" jsonschema:"optional recent discussion to take into account"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string         `json:"answer"`
	Sources []SourceOutput `json:"sources"`
}

// SourceOutput is one retrieved chunk.
type SourceOutput struct {
	Rank       int     `json:"rank"`
	ChunkID    int64   `json:"chunk_id"`
	DocumentID int64   `json:"document_id"`
	Position   int     `json:"position"`
	Distance   float32 `json:"distance"`
	Content    string  `json:"content"`
}

// SummarizeInput is the input schema for the summarize tool.
type SummarizeInput struct {
	Scope  string   `json:"scope" jsonschema:"the course or group, e.g. course:12"`
	Chat   string   `json:"chat,omitempty" jsonschema:"recent discussion to summarise"`
	Chunks []string `json:"chunks,omitempty" jsonschema:"already retrieved passages; when empty the scope's materials are retrieved"`
}

// SummarizeOutput is the output schema for the summarize tool.
type SummarizeOutput struct {
	Summary string `json:"summary"`
}

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Scope string `json:"scope" jsonschema:"the course or group, e.g. course:12"`
	Query string `json:"query" jsonschema:"text to find the closest passages for"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of passages to return (default 5)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SourceOutput `json:"results"`
	Count   int            `json:"count"`
}

// IngestInput is the input schema for the ingest_file tool.
type IngestInput struct {
	Scope      string `json:"scope" jsonschema:"the course or group the file belongs to"`
	Path       string `json:"path" jsonschema:"path of a .txt, .pdf or .docx file readable by the server"`
	UploadedBy int64  `json:"uploaded_by,omitempty" jsonschema:"id of the uploading user"`
}

// IngestOutput is the output schema for the ingest_file tool.
type IngestOutput struct {
	DocumentID int64  `json:"document_id"`
	Filename   string `json:"filename"`
	Chunks     int    `json:"chunks"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using only a course or group's uploaded materials",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "summarize",
		Description: "Summarise a course or group's materials together with recent discussion",
	}, s.handleSummarize)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Find the passages closest to a query within a course or group",
	}, s.handleSearch)

	if s.ports.Ingest != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ingest_file",
			Description: "Extract, chunk and index a file into a course or group",
		}, s.handleIngest)
	}
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	scope, err := domain.ParseScope(input.Scope)
	if err != nil {
		return nil, AskOutput{}, err
	}

	answer, err := s.ports.Retrieval.Query(ctx, scope, input.Question, input.Context)
	if err != nil {
		return nil, AskOutput{}, s.failure("ask", err)
	}

	return nil, AskOutput{
		Answer:  answer.Text,
		Sources: toSourceOutputs(answer.Sources),
	}, nil
}

// handleSummarize handles the summarize tool invocation.
func (s *Server) handleSummarize(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SummarizeInput,
) (*mcp.CallToolResult, SummarizeOutput, error) {
	scope, err := domain.ParseScope(input.Scope)
	if err != nil {
		return nil, SummarizeOutput{}, err
	}

	var summary string
	if len(input.Chunks) > 0 {
		summary, err = s.ports.Retrieval.Summarize(ctx, scope, input.Chat, input.Chunks)
	} else {
		summary, err = s.ports.Retrieval.ScopeSummary(ctx, scope, input.Chat)
	}
	if err != nil {
		return nil, SummarizeOutput{}, s.failure("summarize", err)
	}

	return nil, SummarizeOutput{Summary: summary}, nil
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	scope, err := domain.ParseScope(input.Scope)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	hits, err := s.ports.Retrieval.Search(ctx, scope, input.Query, limit)
	if err != nil {
		return nil, SearchOutput{}, s.failure("search", err)
	}

	results := toSourceOutputs(hits)
	return nil, SearchOutput{Results: results, Count: len(results)}, nil
}

// handleIngest handles the ingest_file tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	scope, err := domain.ParseScope(input.Scope)
	if err != nil {
		return nil, IngestOutput{}, err
	}
	if input.Path == "" {
		return nil, IngestOutput{}, fmt.Errorf("%w: path is required", domain.ErrInvalidInput)
	}

	content, err := os.ReadFile(input.Path)
	if err != nil {
		return nil, IngestOutput{}, fmt.Errorf("reading %s: %w", input.Path, err)
	}

	result, err := s.ports.Ingest.Ingest(ctx, domain.IngestRequest{
		Scope:      scope,
		Filename:   filepath.Base(input.Path),
		Content:    content,
		UploadedBy: input.UploadedBy,
	})
	if err != nil {
		return nil, IngestOutput{}, s.failure("ingest_file", err)
	}

	return nil, IngestOutput{
		DocumentID: result.DocumentID,
		Filename:   result.Filename,
		Chunks:     result.Chunks,
	}, nil
}

// failure maps a service error to the error reported to the client. Errors
// the caller can fix are passed through verbatim; others are logged first.
// The SDK reports handler errors as tool results with IsError set.
func (s *Server) failure(tool string, err error) error {
	switch {
	case domain.IsUserError(err), errors.Is(err, domain.ErrNotFound):
		return err
	case errors.Is(err, domain.ErrEmbeddingUnavailable),
		errors.Is(err, domain.ErrGenerationUnavailable):
		logger.Warn("mcp: %s: %v", tool, err)
		return fmt.Errorf("%s failed: a model service is unavailable, try again later: %w", tool, err)
	default:
		logger.Error("mcp: %s: %v", tool, err)
		return fmt.Errorf("%s failed: %w", tool, err)
	}
}

func toSourceOutputs(chunks []domain.RetrievedChunk) []SourceOutput {
	out := make([]SourceOutput, len(chunks))
	for i := range chunks {
		out[i] = SourceOutput{
			Rank:       chunks[i].Rank,
			ChunkID:    chunks[i].Chunk.ID,
			DocumentID: chunks[i].Chunk.DocumentID,
			Position:   chunks[i].Chunk.Position,
			Distance:   chunks[i].Distance,
			Content:    chunks[i].Chunk.Content,
		}
	}
	return out
}
