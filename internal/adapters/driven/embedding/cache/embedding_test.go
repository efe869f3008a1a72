package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingEmbedder struct {
	batches [][]string
	singles int
	err     error
}

func (c *countingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	c.singles++
	if c.err != nil {
		return nil, c.err
	}
	return []float32{float32(len(text))}, nil
}

func (c *countingEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	c.batches = append(c.batches, texts)
	if c.err != nil {
		return nil, c.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t))}
	}
	return out, nil
}

func (c *countingEmbedder) Dimensions() int              { return 1 }
func (c *countingEmbedder) ModelName() string            { return "counting" }
func (c *countingEmbedder) Ping(_ context.Context) error { return nil }
func (c *countingEmbedder) Close() error                 { return nil }

func TestEmbeddingService_EmbedCaches(t *testing.T) {
	inner := &countingEmbedder{}
	svc := New(inner, 10, time.Minute)

	first, err := svc.Embed(context.Background(), "abc")
	require.NoError(t, err)
	second, err := svc.Embed(context.Background(), "abc")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.singles)
	assert.Equal(t, 1, svc.Len())
}

func TestEmbeddingService_ReturnsCopies(t *testing.T) {
	svc := New(&countingEmbedder{}, 10, time.Minute)

	vec, err := svc.Embed(context.Background(), "abc")
	require.NoError(t, err)
	vec[0] = 99

	again, err := svc.Embed(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, []float32{3}, again)
}

func TestEmbeddingService_EmbedBatchOnlyMisses(t *testing.T) {
	inner := &countingEmbedder{}
	svc := New(inner, 10, time.Minute)
	_, err := svc.Embed(context.Background(), "bb")
	require.NoError(t, err)

	vectors, err := svc.EmbedBatch(context.Background(), []string{"a", "bb", "cccc"})

	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1}, {2}, {4}}, vectors)
	require.Len(t, inner.batches, 1)
	assert.Equal(t, []string{"a", "cccc"}, inner.batches[0])

	_, err = svc.EmbedBatch(context.Background(), []string{"a", "cccc"})
	require.NoError(t, err)
	assert.Len(t, inner.batches, 1)
}

func TestEmbeddingService_ErrorsNotCached(t *testing.T) {
	inner := &countingEmbedder{err: errors.New("down")}
	svc := New(inner, 10, time.Minute)

	_, err := svc.Embed(context.Background(), "x")
	require.Error(t, err)
	assert.Equal(t, 0, svc.Len())
}

func TestEmbeddingService_Delegates(t *testing.T) {
	svc := New(&countingEmbedder{}, 0, 0)

	assert.Equal(t, 1, svc.Dimensions())
	assert.Equal(t, "counting", svc.ModelName())
	assert.NoError(t, svc.Ping(context.Background()))
	assert.NoError(t, svc.Close())
}
