package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
	"github.com/msa123-tech/StudyConnect-AI/internal/core/ports/driven"
	"github.com/msa123-tech/StudyConnect-AI/internal/core/ports/driving"
	"github.com/msa123-tech/StudyConnect-AI/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// SummaryQuery is the fixed query used to pick overview material for a
// scope summary.
const SummaryQuery = "summary overview key points"

// Context bundle wording.
const (
	discussionHeader  = "Recent course discussion:\n"
	materialsHeader   = "Course materials (from uploads):\n"
	sectionSeparator  = "\n\n---\n\n"
	chunkSeparator    = "\n\n"
	emptyContext      = "No recent discussion or uploaded materials."
	emptyDiscussion   = "No discussion yet."
	emptyMaterials    = "No uploaded materials."
	defaultAnswerTmpl = "Using the following context (recent course discussion and/or uploaded materials), " +
		"answer the question. If the answer is not found in the context, say you don't know." +
		"\n\nContext:\n{context}\n\nQuestion:\n{question}"
	defaultSummaryTmpl = "Summarize the following course discussion and materials for students. " +
		"Be concise and highlight key points.\n\nRecent discussion:\n{chat}\n\nRelevant materials:\n{materials}" +
		"\n\nProvide a short summary (a few sentences)."
)

var thinkBlock = regexp.MustCompile(`(?is)<think>.*?</think>`)

// RetrievalService answers questions from a scope's indexed materials.
type RetrievalService struct {
	embedder *Embedder
	index    driven.ScopedIndex
	docStore driven.DocumentStore
	llm      driven.LLMService
	prompts  driven.PromptStore
	topK     int
}

// NewRetrievalService creates a retrieval service. llm and prompts may be
// nil: without llm, Search still works and generation reports
// domain.ErrGenerationUnavailable; without prompts the built-in templates
// are used.
func NewRetrievalService(
	embedder *Embedder,
	index driven.ScopedIndex,
	docStore driven.DocumentStore,
	llm driven.LLMService,
	prompts driven.PromptStore,
	topK int,
) *RetrievalService {
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	return &RetrievalService{
		embedder: embedder,
		index:    index,
		docStore: docStore,
		llm:      llm,
		prompts:  prompts,
		topK:     topK,
	}
}

// Query embeds the question, retrieves the nearest chunks in scope, and
// generates an answer grounded in them and the recent discussion.
func (s *RetrievalService) Query(ctx context.Context, scope domain.Scope, question, recentContext string) (domain.Answer, error) {
	logger.Section("Query")
	logger.Debug("scope=%s question=%q", scope, question)

	if strings.TrimSpace(question) == "" {
		return domain.Answer{}, fmt.Errorf("%w: question is required", domain.ErrInvalidInput)
	}

	sources, err := s.Search(ctx, scope, question, s.topK)
	if err != nil {
		return domain.Answer{}, err
	}

	texts := make([]string, len(sources))
	for i, src := range sources {
		texts[i] = src.Chunk.Content
	}
	bundle := BuildContext(recentContext, texts)

	prompt := render(s.template(driven.PromptAnswer, defaultAnswerTmpl), map[string]string{
		"context":  bundle,
		"question": question,
	})
	text, err := s.generate(ctx, prompt)
	if err != nil {
		return domain.Answer{}, err
	}

	return domain.Answer{Text: text, Sources: sources, Context: bundle}, nil
}

// Summarize generates a summary of a discussion snippet and the given
// material texts. No retrieval happens here.
func (s *RetrievalService) Summarize(ctx context.Context, scope domain.Scope, chatSnippet string, chunkTexts []string) (string, error) {
	logger.Debug("summarize scope=%s materials=%d", scope, len(chunkTexts))

	chat := strings.TrimSpace(chatSnippet)
	if chat == "" {
		chat = emptyDiscussion
	}
	materials := emptyMaterials
	if len(chunkTexts) > 0 {
		materials = strings.Join(chunkTexts, chunkSeparator)
	}

	prompt := render(s.template(driven.PromptSummary, defaultSummaryTmpl), map[string]string{
		"chat":      chat,
		"materials": materials,
	})
	return s.generate(ctx, prompt)
}

// ScopeSummary retrieves overview material with SummaryQuery and
// summarises it together with the discussion snippet.
func (s *RetrievalService) ScopeSummary(ctx context.Context, scope domain.Scope, chatSnippet string) (string, error) {
	sources, err := s.Search(ctx, scope, SummaryQuery, s.topK)
	if err != nil {
		return "", err
	}
	texts := make([]string, len(sources))
	for i, src := range sources {
		texts[i] = src.Chunk.Content
	}
	return s.Summarize(ctx, scope, chatSnippet, texts)
}

// Search returns up to topK chunks nearest to query, in rank order.
// Ids the document store no longer knows are dropped.
func (s *RetrievalService) Search(ctx context.Context, scope domain.Scope, query string, topK int) ([]domain.RetrievedChunk, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = s.topK
	}

	vec, err := s.embedder.EncodeSingle(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.index.Search(ctx, scope, vec, topK)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	if len(hits) == 0 {
		logger.Debug("no indexed material for %s", scope)
		return []domain.RetrievedChunk{}, nil
	}

	ids := make([]int64, len(hits))
	for i, h := range hits {
		ids[i] = h.ChunkID
	}
	chunks, err := s.docStore.GetChunks(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve chunks: %w", err)
	}

	results := make([]domain.RetrievedChunk, 0, len(hits))
	for _, h := range hits {
		c, ok := chunks[h.ChunkID]
		if !ok {
			logger.Debug("chunk %d in %s index has no record, skipping", h.ChunkID, scope)
			continue
		}
		results = append(results, domain.RetrievedChunk{
			Chunk:    c,
			Distance: h.Distance,
			Rank:     len(results) + 1,
		})
	}
	return results, nil
}

// BuildContext assembles the context bundle from the recent discussion and
// retrieved chunk texts. Either part may be absent.
func BuildContext(recent string, texts []string) string {
	var parts []string
	if r := strings.TrimSpace(recent); r != "" {
		parts = append(parts, discussionHeader+r)
	}
	if len(texts) > 0 {
		parts = append(parts, materialsHeader+strings.Join(texts, chunkSeparator))
	}
	if len(parts) == 0 {
		return emptyContext
	}
	return strings.Join(parts, sectionSeparator)
}

// StripThinkTags removes <think>...</think> reasoning blocks emitted by
// some local models and trims the result.
func StripThinkTags(text string) string {
	return strings.TrimSpace(thinkBlock.ReplaceAllString(text, ""))
}

func (s *RetrievalService) generate(ctx context.Context, prompt string) (string, error) {
	if s.llm == nil {
		return "", fmt.Errorf("%w: no generation provider configured", domain.ErrGenerationUnavailable)
	}
	raw, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{})
	if err != nil {
		logger.Warn("generation failed: %v", err)
		return "", fmt.Errorf("%w: %w", domain.ErrGenerationUnavailable, err)
	}
	return StripThinkTags(raw), nil
}

func (s *RetrievalService) template(name, fallback string) string {
	if s.prompts == nil {
		return fallback
	}
	t, err := s.prompts.Load(name)
	if err != nil || strings.TrimSpace(t) == "" {
		return fallback
	}
	return t
}

// render substitutes {name} placeholders in one pass, so placeholder-like
// text inside the values is left alone.
func render(tmpl string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
