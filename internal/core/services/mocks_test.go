package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
	"github.com/msa123-tech/StudyConnect-AI/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbedding implements driven.EmbeddingService for testing.
// Each text maps to a vector of dims copies of its length.
type mockEmbedding struct {
	dims     int
	embedErr error
	vectors  [][]float32 // returned verbatim when set
	calls    int
	closed   bool
}

func (m *mockEmbedding) Embed(ctx context.Context, text string) ([]float32, error) {
	out, err := m.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (m *mockEmbedding) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.calls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if m.vectors != nil {
		return m.vectors, nil
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v := make([]float32, m.dims)
		for j := range v {
			v[j] = float32(len(t))
		}
		out[i] = v
	}
	return out, nil
}

func (m *mockEmbedding) Dimensions() int   { return m.dims }
func (m *mockEmbedding) ModelName() string { return "mock-embed" }
func (m *mockEmbedding) Ping(_ context.Context) error {
	return nil
}
func (m *mockEmbedding) Close() error {
	m.closed = true
	return nil
}

// mockLLM implements driven.LLMService for testing.
type mockLLM struct {
	response    string
	generateErr error
	prompts     []string
}

func (m *mockLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return m.response, nil
}

func (m *mockLLM) ModelName() string            { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

// mockIndex implements driven.ScopedIndex for testing.
type mockIndex struct {
	hits       []domain.VectorHit
	searchErr  error
	appendErr  error
	verifyErr  map[string]error
	repairOut  domain.RepairReport
	scopes     []domain.Scope
	appended   map[string][]int64
	lastQuery  []float32
	lastTopK   int
	listErr    error
	repairErr  error
	verifyInfo domain.IndexInfo
}

func newMockIndex() *mockIndex {
	return &mockIndex{appended: make(map[string][]int64), verifyErr: make(map[string]error)}
}

func (m *mockIndex) GetOrCreate(_ context.Context, scope domain.Scope, dim int) (domain.IndexInfo, error) {
	return domain.IndexInfo{Scope: scope, Dimension: dim}, nil
}

func (m *mockIndex) Append(_ context.Context, scope domain.Scope, _ [][]float32, ids []int64) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.appended[scope.Key()] = append(m.appended[scope.Key()], ids...)
	return nil
}

func (m *mockIndex) Search(_ context.Context, _ domain.Scope, query []float32, topK int) ([]domain.VectorHit, error) {
	m.lastQuery = query
	m.lastTopK = topK
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if topK < len(m.hits) {
		return m.hits[:topK], nil
	}
	return m.hits, nil
}

func (m *mockIndex) Verify(_ context.Context, scope domain.Scope) (domain.IndexInfo, error) {
	if err := m.verifyErr[scope.Key()]; err != nil {
		return domain.IndexInfo{}, err
	}
	info := m.verifyInfo
	info.Scope = scope
	return info, nil
}

func (m *mockIndex) Repair(_ context.Context, scope domain.Scope) (domain.RepairReport, error) {
	if m.repairErr != nil {
		return domain.RepairReport{}, m.repairErr
	}
	r := m.repairOut
	r.Scope = scope
	return r, nil
}

func (m *mockIndex) ListScopes(_ context.Context) ([]domain.Scope, error) {
	return m.scopes, m.listErr
}

func (m *mockIndex) Close() error { return nil }

// mockExtractor implements driven.TextExtractor for testing.
type mockExtractor struct {
	text       string
	extractErr error
}

func (m *mockExtractor) Supports(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".txt")
}

func (m *mockExtractor) Extract(_ string, content []byte) (string, error) {
	if m.extractErr != nil {
		return "", m.extractErr
	}
	if m.text != "" {
		return m.text, nil
	}
	return string(content), nil
}

// lineChunker implements driven.Chunker by splitting on newlines.
type lineChunker struct{}

func (lineChunker) Chunk(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// mockUploads implements driven.UploadStore for testing.
type mockUploads struct {
	saved   map[string][]byte
	saveErr error
	next    int
}

func newMockUploads() *mockUploads {
	return &mockUploads{saved: make(map[string][]byte)}
}

func (m *mockUploads) Save(_ context.Context, scope domain.Scope, filename string, content []byte) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	m.next++
	path := scope.Key() + "/" + strings.Repeat("u", m.next) + "_" + filename
	m.saved[path] = content
	return path, nil
}

func (m *mockUploads) Delete(_ context.Context, path string) error {
	delete(m.saved, path)
	return nil
}

// mockDocStore implements driven.DocumentStore with injectable failures.
type mockDocStore struct {
	docs          map[int64]domain.Document
	chunks        map[int64]domain.Chunk
	nextID        int64
	saveDocErr    error
	saveChunksErr error
	getChunksErr  error
	deleted       []int64
}

func newMockDocStore() *mockDocStore {
	return &mockDocStore{
		docs:   make(map[int64]domain.Document),
		chunks: make(map[int64]domain.Chunk),
	}
}

func (m *mockDocStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	if m.saveDocErr != nil {
		return m.saveDocErr
	}
	m.nextID++
	doc.ID = m.nextID
	m.docs[doc.ID] = *doc
	return nil
}

func (m *mockDocStore) GetDocument(_ context.Context, id int64) (*domain.Document, error) {
	d, ok := m.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &d, nil
}

func (m *mockDocStore) ListDocuments(_ context.Context, scope domain.Scope) ([]domain.Document, error) {
	var out []domain.Document
	for _, d := range m.docs {
		if d.Scope == scope {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockDocStore) DeleteDocument(_ context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	delete(m.docs, id)
	for cid, c := range m.chunks {
		if c.DocumentID == id {
			delete(m.chunks, cid)
		}
	}
	return nil
}

func (m *mockDocStore) SaveChunks(_ context.Context, documentID int64, texts []string) ([]domain.Chunk, error) {
	if m.saveChunksErr != nil {
		return nil, m.saveChunksErr
	}
	if _, ok := m.docs[documentID]; !ok {
		return nil, domain.ErrNotFound
	}
	out := make([]domain.Chunk, len(texts))
	for i, t := range texts {
		m.nextID++
		c := domain.Chunk{ID: m.nextID, DocumentID: documentID, Content: t, Position: i}
		m.chunks[c.ID] = c
		out[i] = c
	}
	return out, nil
}

func (m *mockDocStore) GetChunks(_ context.Context, ids []int64) (map[int64]domain.Chunk, error) {
	if m.getChunksErr != nil {
		return nil, m.getChunksErr
	}
	out := make(map[int64]domain.Chunk, len(ids))
	for _, id := range ids {
		if c, ok := m.chunks[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

func (m *mockDocStore) GetDocumentChunks(_ context.Context, documentID int64) ([]domain.Chunk, error) {
	var out []domain.Chunk
	for _, c := range m.chunks {
		if c.DocumentID == documentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockDocStore) Close() error { return nil }

// mockPrompts implements driven.PromptStore for testing.
type mockPrompts struct {
	templates map[string]string
}

func (m *mockPrompts) Load(name string) (string, error) {
	t, ok := m.templates[name]
	if !ok {
		return "", errors.New("no template")
	}
	return t, nil
}

func (m *mockPrompts) Reload() {}

// Compile-time checks.
var (
	_ driven.EmbeddingService = (*mockEmbedding)(nil)
	_ driven.LLMService       = (*mockLLM)(nil)
	_ driven.ScopedIndex      = (*mockIndex)(nil)
	_ driven.TextExtractor    = (*mockExtractor)(nil)
	_ driven.Chunker          = lineChunker{}
	_ driven.UploadStore      = (*mockUploads)(nil)
	_ driven.DocumentStore    = (*mockDocStore)(nil)
	_ driven.PromptStore      = (*mockPrompts)(nil)
)

var course12 = domain.Scope{Type: domain.ScopeCourse, ID: 12}
