// Package ratelimit provides a rate-limiting decorator for LLM services,
// so several callers can share one local model server without queuing
// unbounded work on it.
package ratelimit

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/msa123-tech/StudyConnect-AI/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// LLMService waits on a token bucket before each Generate call.
type LLMService struct {
	inner   driven.LLMService
	limiter *rate.Limiter
}

// New wraps inner with a limiter allowing rps requests per second and the
// given burst. A non-positive rps returns inner unchanged.
func New(inner driven.LLMService, rps float64, burst int) driven.LLMService {
	if rps <= 0 {
		return inner
	}
	if burst <= 0 {
		burst = 1
	}
	return &LLMService{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Generate waits for a token, then delegates.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}
	return s.inner.Generate(ctx, prompt, opts)
}

// ModelName returns the wrapped model name.
func (s *LLMService) ModelName() string {
	return s.inner.ModelName()
}

// Ping checks the wrapped service without consuming a token.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close closes the wrapped service.
func (s *LLMService) Close() error {
	return s.inner.Close()
}
