package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msa123-tech/StudyConnect-AI/internal/adapters/driven/embedding/hash"
	"github.com/msa123-tech/StudyConnect-AI/internal/adapters/driven/index/flatfile"
	"github.com/msa123-tech/StudyConnect-AI/internal/adapters/driven/storage/memory"
	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
	"github.com/msa123-tech/StudyConnect-AI/internal/core/services"
	"github.com/msa123-tech/StudyConnect-AI/internal/normalisers"
	"github.com/msa123-tech/StudyConnect-AI/internal/postprocessors/chunker"
)

const (
	biologyNotes = "Photosynthesis happens in the chloroplasts of plant leaves. " +
		"Chlorophyll absorbs sunlight and plants convert carbon dioxide and water into glucose and oxygen."
	historyNotes = "The French Revolution began in 1789 with the storming of the Bastille. " +
		"The monarchy fell and the revolution reshaped politics across Europe."
)

// Ingests two unrelated documents into one scope and checks each question
// retrieves its own topic first, using only in-repo components.
func TestPipeline_TwoTopicRetrieval(t *testing.T) {
	ctx := context.Background()
	scope := domain.Scope{Type: domain.ScopeCourse, ID: 1}

	index, err := flatfile.New(t.TempDir())
	require.NoError(t, err)
	docs := memory.NewDocumentStore()
	embedder := services.NewEmbedderWith(hash.NewEmbeddingService(hash.DefaultDimensions))

	ingest := services.NewIngestService(normalisers.Extractor{}, chunker.New(), embedder, index, docs, nil, 0)
	retrieval := services.NewRetrievalService(embedder, index, docs, nil, nil, 1)

	for name, text := range map[string]string{"biology.txt": biologyNotes, "history.txt": historyNotes} {
		result, err := ingest.Ingest(ctx, domain.IngestRequest{Scope: scope, Filename: name, Content: []byte(text)})
		require.NoError(t, err, name)
		assert.Equal(t, 1, result.Chunks, name)
	}

	info, err := index.Verify(ctx, scope)
	require.NoError(t, err)
	assert.Equal(t, 2, info.Count)
	assert.Equal(t, hash.DefaultDimensions, info.Dimension)

	tests := []struct {
		question string
		want     string
	}{
		{"How do plants use sunlight and chlorophyll?", "Photosynthesis"},
		{"When did the revolution and the storming of the Bastille happen?", "French Revolution"},
	}
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			results, err := retrieval.Search(ctx, scope, tt.question, 1)
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Contains(t, results[0].Chunk.Content, tt.want)
		})
	}
}

func TestPipeline_ScopesAreIsolated(t *testing.T) {
	ctx := context.Background()
	course := domain.Scope{Type: domain.ScopeCourse, ID: 1}
	group := domain.Scope{Type: domain.ScopeGroup, ID: 1}

	index, err := flatfile.New(t.TempDir())
	require.NoError(t, err)
	docs := memory.NewDocumentStore()
	embedder := services.NewEmbedderWith(hash.NewEmbeddingService(64))

	ingest := services.NewIngestService(normalisers.Extractor{}, chunker.New(), embedder, index, docs, nil, 0)
	retrieval := services.NewRetrievalService(embedder, index, docs, nil, nil, 5)

	_, err = ingest.Ingest(ctx, domain.IngestRequest{Scope: course, Filename: "bio.txt", Content: []byte(biologyNotes)})
	require.NoError(t, err)

	results, err := retrieval.Search(ctx, group, "photosynthesis", 5)
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = retrieval.Search(ctx, course, "photosynthesis", 5)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestPipeline_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	scope := domain.Scope{Type: domain.ScopeGroup, ID: 9}
	dir := t.TempDir()

	index, err := flatfile.New(dir)
	require.NoError(t, err)
	docs := memory.NewDocumentStore()
	embedder := services.NewEmbedderWith(hash.NewEmbeddingService(32))

	ingest := services.NewIngestService(normalisers.Extractor{}, chunker.New(), embedder, index, docs, nil, 0)
	_, err = ingest.Ingest(ctx, domain.IngestRequest{Scope: scope, Filename: "h.txt", Content: []byte(historyNotes)})
	require.NoError(t, err)
	require.NoError(t, index.Close())

	reopened, err := flatfile.New(dir)
	require.NoError(t, err)
	retrieval := services.NewRetrievalService(embedder, reopened, docs, nil, nil, 3)

	results, err := retrieval.Search(ctx, scope, "Bastille", 3)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Chunk.Content, "Bastille")
}
