package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
)

var testScope = domain.Scope{Type: domain.ScopeCourse, ID: 12}

// mockIngestService implements driving.IngestService.
type mockIngestService struct {
	IngestFunc func(ctx context.Context, req domain.IngestRequest) (domain.IngestResult, error)
	requests   []domain.IngestRequest
}

func (m *mockIngestService) Ingest(ctx context.Context, req domain.IngestRequest) (domain.IngestResult, error) {
	m.requests = append(m.requests, req)
	if m.IngestFunc != nil {
		return m.IngestFunc(ctx, req)
	}
	return domain.IngestResult{DocumentID: int64(len(m.requests)), Filename: req.Filename, Chunks: 2}, nil
}

// mockRetrievalService implements driving.RetrievalService.
type mockRetrievalService struct {
	QueryFunc        func(ctx context.Context, scope domain.Scope, question, recent string) (domain.Answer, error)
	ScopeSummaryFunc func(ctx context.Context, scope domain.Scope, chat string) (string, error)
	SearchFunc       func(ctx context.Context, scope domain.Scope, query string, topK int) ([]domain.RetrievedChunk, error)
}

func (m *mockRetrievalService) Query(ctx context.Context, scope domain.Scope, question, recent string) (domain.Answer, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, scope, question, recent)
	}
	return domain.Answer{Text: "Mitochondria produce ATP.", Sources: sampleHits()}, nil
}

func (m *mockRetrievalService) Summarize(context.Context, domain.Scope, string, []string) (string, error) {
	return "Summary of supplied chunks.", nil
}

func (m *mockRetrievalService) ScopeSummary(ctx context.Context, scope domain.Scope, chat string) (string, error) {
	if m.ScopeSummaryFunc != nil {
		return m.ScopeSummaryFunc(ctx, scope, chat)
	}
	return "Cells, organelles and energy.", nil
}

func (m *mockRetrievalService) Search(ctx context.Context, scope domain.Scope, query string, topK int) ([]domain.RetrievedChunk, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, scope, query, topK)
	}
	return sampleHits(), nil
}

// mockDocumentService implements driving.DocumentService.
type mockDocumentService struct {
	ListFunc   func(ctx context.Context, scope domain.Scope) ([]domain.Document, error)
	GetFunc    func(ctx context.Context, id int64) (*domain.Document, error)
	ChunksFunc func(ctx context.Context, id int64) ([]domain.Chunk, error)
}

func (m *mockDocumentService) List(ctx context.Context, scope domain.Scope) ([]domain.Document, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, scope)
	}
	return []domain.Document{
		{ID: 1, Scope: scope, Filename: "syllabus.pdf", CreatedAt: time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC)},
		{ID: 2, Scope: scope, Filename: "week1.docx"},
	}, nil
}

func (m *mockDocumentService) Get(ctx context.Context, id int64) (*domain.Document, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return &domain.Document{ID: id, Scope: testScope, Filename: "syllabus.pdf"}, nil
}

func (m *mockDocumentService) Chunks(ctx context.Context, id int64) ([]domain.Chunk, error) {
	if m.ChunksFunc != nil {
		return m.ChunksFunc(ctx, id)
	}
	return []domain.Chunk{
		{ID: 10, DocumentID: id, Content: "Week one: cell structure.", Position: 0},
		{ID: 11, DocumentID: id, Content: "Week two: respiration.", Position: 1},
	}, nil
}

// mockIndexAdminService implements driving.IndexAdminService.
type mockIndexAdminService struct {
	VerifyFunc    func(ctx context.Context, scope domain.Scope) (domain.IndexInfo, error)
	VerifyAllFunc func(ctx context.Context) ([]domain.IndexInfo, map[string]error, error)
	RepairFunc    func(ctx context.Context, scope domain.Scope) (domain.RepairReport, error)
}

func (m *mockIndexAdminService) Verify(ctx context.Context, scope domain.Scope) (domain.IndexInfo, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, scope)
	}
	return domain.IndexInfo{Scope: scope, Dimension: 384, Count: 42}, nil
}

func (m *mockIndexAdminService) VerifyAll(ctx context.Context) ([]domain.IndexInfo, map[string]error, error) {
	if m.VerifyAllFunc != nil {
		return m.VerifyAllFunc(ctx)
	}
	return []domain.IndexInfo{{Scope: testScope, Dimension: 384, Count: 42}}, map[string]error{}, nil
}

func (m *mockIndexAdminService) Repair(ctx context.Context, scope domain.Scope) (domain.RepairReport, error) {
	if m.RepairFunc != nil {
		return m.RepairFunc(ctx, scope)
	}
	return domain.RepairReport{Scope: scope, VectorCount: 42, MappingBefore: 42}, nil
}

func sampleHits() []domain.RetrievedChunk {
	return []domain.RetrievedChunk{
		{Chunk: domain.Chunk{ID: 10, DocumentID: 1, Content: "Mitochondria are the site of aerobic respiration.", Position: 2}, Distance: 0.125, Rank: 1},
		{Chunk: domain.Chunk{ID: 11, DocumentID: 1, Content: "ATP stores energy.", Position: 3}, Distance: 0.5, Rank: 2},
	}
}

// setupTestServices installs mock services and returns a cleanup function
// restoring the previous services, bootstrap and flag values.
func setupTestServices() func() {
	oldIngest := ingestService
	oldRetrieval := retrievalService
	oldDocument := documentService
	oldIndexAdmin := indexAdminService
	oldSettings := settings
	oldClose := closeServices
	oldBootstrap := bootstrap

	s := domain.DefaultSettings()
	SetServices(&Services{
		Ingest:     &mockIngestService{},
		Retrieval:  &mockRetrievalService{},
		Document:   &mockDocumentService{},
		IndexAdmin: &mockIndexAdminService{},
		Settings:   &s,
	})

	return func() {
		ingestService = oldIngest
		retrievalService = oldRetrieval
		documentService = oldDocument
		indexAdminService = oldIndexAdmin
		settings = oldSettings
		closeServices = oldClose
		bootstrap = oldBootstrap
		resetFlags()
	}
}

// resetFlags restores command flag variables to their defaults.
func resetFlags() {
	configPath, dataDir, verbose = "", "", false
	ingestScope, ingestUploadedBy = "", 0
	askScope, askContext, askJSON = "", "", false
	summarizeScope, summarizeChat = "", ""
	searchScope, searchLimit, searchJSON = "", domain.DefaultTopK, false
	docsScope = ""
	indexScope = ""
	chatScope = ""
	serveCron = ""

	// cobra keeps parsed values on the flag set between executions.
	resetCommandFlags(rootCmd)
}

func resetCommandFlags(cmd *cobra.Command) {
	for _, name := range []string{"help", "port"} {
		if f := cmd.Flags().Lookup(name); f != nil {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	}
	for _, child := range cmd.Commands() {
		resetCommandFlags(child)
	}
}

// executeCommand runs the root command with args and returns its output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeCommandContext(t, context.Background(), args...)
}

func executeCommandContext(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		resetFlags()
	}()

	err := rootCmd.ExecuteContext(ctx)
	return buf.String(), err
}
