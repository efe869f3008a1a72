// Package gemini provides an embedding service adapter for the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/msa123-tech/StudyConnect-AI/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultModel      = "text-embedding-004"
	DefaultDimensions = 768
	DefaultBatchSize  = 100
	taskTypeDocument  = "RETRIEVAL_DOCUMENT"
)

// ErrMissingAPIKey is returned when no API key is configured.
var ErrMissingAPIKey = errors.New("gemini: API key is required")

// Config holds configuration for the Gemini embedding service.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// Model is the embedding model (default: text-embedding-004).
	Model string

	// Dimensions requests a reduced output dimensionality when set.
	Dimensions int

	// BatchSize caps contents per request.
	BatchSize int
}

type embedFunc func(ctx context.Context, contents []*genai.Content, cfg *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)

// EmbeddingService generates embeddings through genai's Models API.
type EmbeddingService struct {
	model      string
	dimensions int
	reduce     bool
	batchSize  int
	embed      embedFunc
	ping       func(ctx context.Context) error
}

// NewEmbeddingService creates a Gemini API client for embeddings.
func NewEmbeddingService(ctx context.Context, cfg Config) (*EmbeddingService, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	svc := newService(cfg)
	svc.embed = func(ctx context.Context, contents []*genai.Content, c *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error) {
		return client.Models.EmbedContent(ctx, svc.model, contents, c)
	}
	svc.ping = func(ctx context.Context) error {
		_, err := client.Models.Get(ctx, svc.model, nil)
		return err
	}
	return svc, nil
}

func newService(cfg Config) *EmbeddingService {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	dims := cfg.Dimensions
	if dims <= 0 {
		dims = DefaultDimensions
	}
	return &EmbeddingService{
		model:      cfg.Model,
		dimensions: dims,
		reduce:     cfg.Dimensions > 0,
		batchSize:  cfg.BatchSize,
	}
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.embedChunk(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds texts in order, splitting into BatchSize requests.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += s.batchSize {
		end := min(start+s.batchSize, len(texts))
		vectors, err := s.embedChunk(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vectors...)
	}
	return out, nil
}

func (s *EmbeddingService) embedChunk(ctx context.Context, texts []string) ([][]float32, error) {
	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = &genai.Content{Parts: []*genai.Part{{Text: text}}}
	}

	config := &genai.EmbedContentConfig{TaskType: taskTypeDocument}
	if s.reduce {
		dims := int32(s.dimensions)
		config.OutputDimensionality = &dims
	}

	resp, err := s.embed(ctx, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini: embed: %w", err)
	}
	if resp == nil || len(resp.Embeddings) != len(texts) {
		got := 0
		if resp != nil {
			got = len(resp.Embeddings)
		}
		return nil, fmt.Errorf("gemini: expected %d embeddings, got %d", len(texts), got)
	}

	vectors := make([][]float32, len(texts))
	for i, e := range resp.Embeddings {
		if e == nil || len(e.Values) == 0 {
			return nil, fmt.Errorf("gemini: no embedding values returned for input %d", i)
		}
		vectors[i] = e.Values
	}
	return vectors, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping fetches the model's metadata, which validates the key and model name.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if err := s.ping(ctx); err != nil {
		return fmt.Errorf("gemini: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
