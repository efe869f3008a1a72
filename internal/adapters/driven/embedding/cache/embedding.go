// Package cache provides a memoising decorator for embedding services.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/msa123-tech/StudyConnect-AI/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default cache sizing.
const (
	DefaultSize = 256
	DefaultTTL  = 10 * time.Minute
)

// EmbeddingService caches vectors by model and text digest.
// Repeated questions and the fixed summary query hit the cache.
type EmbeddingService struct {
	inner driven.EmbeddingService
	lru   *expirable.LRU[string, []float32]
}

// New wraps inner with an expiring LRU of the given size and TTL.
func New(inner driven.EmbeddingService, size int, ttl time.Duration) *EmbeddingService {
	if size <= 0 {
		size = DefaultSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &EmbeddingService{
		inner: inner,
		lru:   expirable.NewLRU[string, []float32](size, nil, ttl),
	}
}

func (s *EmbeddingService) key(text string) string {
	sum := sha256.Sum256([]byte(s.inner.ModelName() + "\x00" + text))
	return hex.EncodeToString(sum[:])
}

// Embed returns a cached vector or computes and stores one.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	k := s.key(text)
	if vec, ok := s.lru.Get(k); ok {
		return slices.Clone(vec), nil
	}
	vec, err := s.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	s.lru.Add(k, slices.Clone(vec))
	return vec, nil
}

// EmbedBatch serves hits from the cache and sends only misses to the
// wrapped service, preserving input order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, len(texts))
	keys := make([]string, len(texts))
	var missing []string
	var missingIdx []int
	for i, text := range texts {
		keys[i] = s.key(text)
		if vec, ok := s.lru.Get(keys[i]); ok {
			out[i] = slices.Clone(vec)
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}
	if len(missing) == 0 {
		return out, nil
	}

	vectors, err := s.inner.EmbedBatch(ctx, missing)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(missing) {
		return nil, fmt.Errorf("embedding cache: expected %d vectors, got %d", len(missing), len(vectors))
	}
	for j, vec := range vectors {
		i := missingIdx[j]
		out[i] = vec
		s.lru.Add(keys[i], slices.Clone(vec))
	}
	return out, nil
}

// Len reports the number of cached vectors.
func (s *EmbeddingService) Len() int {
	return s.lru.Len()
}

// Dimensions returns the wrapped service's dimension.
func (s *EmbeddingService) Dimensions() int {
	return s.inner.Dimensions()
}

// ModelName returns the wrapped service's model name.
func (s *EmbeddingService) ModelName() string {
	return s.inner.ModelName()
}

// Ping checks the wrapped service.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close purges the cache and closes the wrapped service.
func (s *EmbeddingService) Close() error {
	s.lru.Purge()
	return s.inner.Close()
}
