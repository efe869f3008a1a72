package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeEmbedServer(t *testing.T, calls *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"models":[]}`))
		case "/api/embed":
			*calls++
			var req embedRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			resp := embedResponse{Model: req.Model}
			for _, in := range req.Input {
				resp.Embeddings = append(resp.Embeddings, []float64{float64(len(in)), 1, 0})
			}
			_ = json.NewEncoder(w).Encode(resp)
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestNewEmbeddingService_Defaults(t *testing.T) {
	svc := NewEmbeddingService(Config{})

	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, DefaultDimensions, svc.Dimensions())
	assert.Equal(t, DefaultBaseURL, svc.baseURL)
	assert.Equal(t, DefaultBatchSize, svc.batchSize)
}

func TestEmbeddingService_EmbedBatchSplitsRequests(t *testing.T) {
	calls := 0
	server := fakeEmbedServer(t, &calls)
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL, Dimensions: 3, BatchSize: 2})
	vectors, err := svc.EmbedBatch(context.Background(), []string{"a", "bb", "ccc"})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, vectors, 3)
	assert.Equal(t, []float32{3, 1, 0}, vectors[2])
}

func TestEmbeddingService_Embed(t *testing.T) {
	calls := 0
	server := fakeEmbedServer(t, &calls)
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL})
	vec, err := svc.Embed(context.Background(), "four")

	require.NoError(t, err)
	assert.Equal(t, []float32{4, 1, 0}, vec)
}

func TestEmbeddingService_EmbedBatchEmpty(t *testing.T) {
	svc := NewEmbeddingService(Config{BaseURL: "http://127.0.0.1:1"})

	vectors, err := svc.EmbedBatch(context.Background(), nil)

	require.NoError(t, err)
	assert.Nil(t, vectors)
}

func TestEmbeddingService_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`model "missing" not found`))
	}))
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL})
	_, err := svc.Embed(context.Background(), "x")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
	assert.Error(t, svc.Ping(context.Background()))
}

func TestEmbeddingService_CountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"embeddings":[]}`))
	}))
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL})
	_, err := svc.Embed(context.Background(), "x")

	assert.ErrorContains(t, err, "expected 1 embeddings")
}

func TestEmbeddingService_Ping(t *testing.T) {
	calls := 0
	server := fakeEmbedServer(t, &calls)
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL})

	assert.NoError(t, svc.Ping(context.Background()))
	assert.NoError(t, svc.Close())
}
