// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	embedcache "github.com/msa123-tech/StudyConnect-AI/internal/adapters/driven/embedding/cache"
	geminiembed "github.com/msa123-tech/StudyConnect-AI/internal/adapters/driven/embedding/gemini"
	hashembed "github.com/msa123-tech/StudyConnect-AI/internal/adapters/driven/embedding/hash"
	ollamaembed "github.com/msa123-tech/StudyConnect-AI/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/msa123-tech/StudyConnect-AI/internal/adapters/driven/embedding/openai"
	geminillm "github.com/msa123-tech/StudyConnect-AI/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/msa123-tech/StudyConnect-AI/internal/adapters/driven/llm/ollama"
	openaillm "github.com/msa123-tech/StudyConnect-AI/internal/adapters/driven/llm/openai"
	"github.com/msa123-tech/StudyConnect-AI/internal/adapters/driven/llm/ratelimit"
	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
	"github.com/msa123-tech/StudyConnect-AI/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// EmbeddingFactory returns a constructor suitable for services.NewEmbedder.
// The provider is created and pinged the first time the embedder is used.
func EmbeddingFactory(settings domain.EmbeddingSettings) func(context.Context) (driven.EmbeddingService, error) {
	return func(ctx context.Context) (driven.EmbeddingService, error) {
		return CreateAndValidateEmbeddingService(ctx, settings)
	}
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
func CreateAndValidateEmbeddingService(ctx context.Context, settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}
	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns nil, nil when no generation provider is configured.
func CreateAndValidateLLMService(ctx context.Context, settings domain.LLMSettings) (driven.LLMService, error) {
	if !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateLLMService(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGenerationUnavailable, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrGenerationUnavailable, err)
	}
	return svc, nil
}

// CreateEmbeddingService creates the embedding service named by settings,
// wrapped in a cache when CacheSize is positive.
func CreateEmbeddingService(ctx context.Context, settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if !settings.Provider.IsValid() {
		return nil, fmt.Errorf("unsupported embedding provider: %q", settings.Provider)
	}
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%s embedding provider requires an API key", settings.Provider)
	}

	var (
		svc driven.EmbeddingService
		err error
	)
	switch settings.Provider {
	case domain.AIProviderOllama:
		svc = ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		})
	case domain.AIProviderOpenAI:
		svc, err = openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		})
	case domain.AIProviderGemini:
		svc, err = geminiembed.NewEmbeddingService(ctx, geminiembed.Config{
			APIKey:     settings.APIKey,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		})
	case domain.AIProviderHash:
		svc = hashembed.NewEmbeddingService(settings.Dimensions)
	}
	if err != nil {
		return nil, err
	}

	if settings.CacheSize > 0 {
		svc = embedcache.New(svc, settings.CacheSize, settings.CacheTTL)
	}
	return svc, nil
}

// CreateLLMService creates the generation service named by settings,
// wrapped in a rate limiter when RequestsPerSecond is positive.
func CreateLLMService(ctx context.Context, settings domain.LLMSettings) (driven.LLMService, error) {
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("LLM provider %q is not configured", settings.Provider)
	}

	var (
		svc driven.LLMService
		err error
	)
	switch settings.Provider {
	case domain.AIProviderOllama:
		svc = ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		})
	case domain.AIProviderOpenAI:
		svc, err = openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		})
	case domain.AIProviderGemini:
		svc, err = geminillm.NewLLMService(ctx, geminillm.LLMConfig{
			APIKey: settings.APIKey,
			Model:  settings.Model,
		})
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %q", settings.Provider)
	}
	if err != nil {
		return nil, err
	}

	return ratelimit.New(svc, settings.RequestsPerSecond, settings.Burst), nil
}
