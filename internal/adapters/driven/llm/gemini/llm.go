// Package gemini provides an LLM service adapter for the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/msa123-tech/StudyConnect-AI/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// DefaultLLMModel is used when no model is configured.
const DefaultLLMModel = "gemini-2.0-flash"

// ErrMissingAPIKey is returned when no API key is configured.
var ErrMissingAPIKey = errors.New("gemini: API key is required")

// LLMConfig holds configuration for the Gemini LLM service.
type LLMConfig struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// Model is the generation model (default: gemini-2.0-flash).
	Model string
}

type generateFunc func(ctx context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// LLMService generates text through genai's Models API.
type LLMService struct {
	model    string
	generate generateFunc
	ping     func(ctx context.Context) error
}

// NewLLMService creates a Gemini API client for generation.
func NewLLMService(ctx context.Context, cfg LLMConfig) (*LLMService, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	model := cfg.Model
	return &LLMService{
		model: model,
		generate: func(ctx context.Context, contents []*genai.Content, c *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			return client.Models.GenerateContent(ctx, model, contents, c)
		},
		ping: func(ctx context.Context) error {
			_, err := client.Models.Get(ctx, model, nil)
			return err
		},
	}, nil
}

// Generate produces a completion for the prompt.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	var config *genai.GenerateContentConfig
	if opts.MaxTokens > 0 || opts.Temperature > 0 || len(opts.StopWords) > 0 {
		config = &genai.GenerateContentConfig{StopSequences: opts.StopWords}
		if opts.MaxTokens > 0 {
			config.MaxOutputTokens = int32(opts.MaxTokens)
		}
		if opts.Temperature > 0 {
			temp := float32(opts.Temperature)
			config.Temperature = &temp
		}
	}

	resp, err := s.generate(ctx, []*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}}, config)
	if err != nil {
		return "", fmt.Errorf("gemini: generate: %w", err)
	}
	if resp == nil {
		return "", errors.New("gemini: empty response")
	}
	return strings.TrimSpace(resp.Text()), nil
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping fetches the model's metadata, which validates the key and model name.
func (s *LLMService) Ping(ctx context.Context) error {
	if err := s.ping(ctx); err != nil {
		return fmt.Errorf("gemini: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}
