package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
	"github.com/msa123-tech/StudyConnect-AI/internal/core/ports/driven"
	"github.com/msa123-tech/StudyConnect-AI/internal/logger"
)

// EmbeddingFactory constructs and validates an embedding provider.
type EmbeddingFactory func(ctx context.Context) (driven.EmbeddingService, error)

// Embedder owns the process-wide embedding provider. The provider is built
// on first use, at most once; a failed initialisation is remembered and
// returned from every later call rather than retried. Initialisation is
// detached from the first caller's cancellation so one abandoned request
// cannot disable embedding for the rest of the process.
type Embedder struct {
	factory EmbeddingFactory

	once    sync.Once
	svc     driven.EmbeddingService
	initErr error
}

// NewEmbedder creates an Embedder around factory. Nothing is loaded yet.
func NewEmbedder(factory EmbeddingFactory) *Embedder {
	return &Embedder{factory: factory}
}

// NewEmbedderWith wraps an already constructed provider.
func NewEmbedderWith(svc driven.EmbeddingService) *Embedder {
	e := &Embedder{svc: svc}
	e.once.Do(func() {})
	return e
}

func (e *Embedder) service(ctx context.Context) (driven.EmbeddingService, error) {
	e.once.Do(func() {
		logger.Debug("initialising embedding provider")
		if e.factory == nil {
			e.initErr = fmt.Errorf("%w: no provider configured", domain.ErrEmbeddingUnavailable)
			return
		}
		svc, err := e.factory(context.WithoutCancel(ctx))
		switch {
		case err != nil:
			e.initErr = fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
		case svc == nil:
			e.initErr = fmt.Errorf("%w: provider factory returned nothing", domain.ErrEmbeddingUnavailable)
		default:
			e.svc = svc
			logger.Debug("embedding provider ready: %s (%d dims)", svc.ModelName(), svc.Dimensions())
		}
	})
	if e.initErr != nil {
		return nil, e.initErr
	}
	return e.svc, nil
}

// Encode returns one vector per text, in order, all of one dimension.
func (e *Embedder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	svc, err := e.service(ctx)
	if err != nil {
		return nil, err
	}

	vectors, err := svc.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: provider returned %d vectors for %d texts",
			domain.ErrEmbeddingUnavailable, len(vectors), len(texts))
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: provider returned an empty vector", domain.ErrEmbeddingUnavailable)
	}
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: vector %d has %d dims, expected %d",
				domain.ErrDimensionMismatch, i, len(v), dim)
		}
	}
	return vectors, nil
}

// EncodeSingle embeds one text.
func (e *Embedder) EncodeSingle(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.Encode(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// Dimensions returns the provider's dimension, initialising it if needed.
func (e *Embedder) Dimensions(ctx context.Context) (int, error) {
	svc, err := e.service(ctx)
	if err != nil {
		return 0, err
	}
	return svc.Dimensions(), nil
}

// ModelName returns the provider's model, or "" if it failed to initialise.
func (e *Embedder) ModelName(ctx context.Context) string {
	svc, err := e.service(ctx)
	if err != nil {
		return ""
	}
	return svc.ModelName()
}

// Close releases the provider if it was initialised. It waits for an
// initialisation in progress; an embedder closed before first use stays
// unusable.
func (e *Embedder) Close() error {
	e.once.Do(func() {
		e.initErr = fmt.Errorf("%w: embedder closed", domain.ErrEmbeddingUnavailable)
	})
	if e.svc == nil {
		return nil
	}
	return e.svc.Close()
}
