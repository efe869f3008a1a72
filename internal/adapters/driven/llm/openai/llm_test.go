package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
	"github.com/msa123-tech/StudyConnect-AI/internal/core/ports/driven"
)

func TestNewLLMService_RequiresKey(t *testing.T) {
	_, err := NewLLMService(LLMConfig{})

	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestLLMService_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		var req completionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if assert.Len(t, req.Messages, 2) {
			assert.Equal(t, "system", req.Messages[0].Role)
			assert.Equal(t, "user", req.Messages[1].Role)
			assert.Equal(t, "question", req.Messages[1].Content)
		}
		assert.Equal(t, 0.2, req.Temperature)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"answer"},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	svc, err := NewLLMService(LLMConfig{APIKey: "k", BaseURL: server.URL + "/", SystemPrompt: "be brief"})
	require.NoError(t, err)

	out, err := svc.Generate(context.Background(), "question", driven.GenerateOptions{Temperature: 0.2})

	require.NoError(t, err)
	assert.Equal(t, "answer", out)
}

func TestLLMService_GenerateFailureClasses(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantErr  error
		contains string
	}{
		{"bad key", http.StatusUnauthorized, `{"error":{"message":"Incorrect API key"}}`, ErrUnauthorized, "Incorrect API key"},
		{"rate limited", http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`, ErrRateLimited, "slow down"},
		{"unknown model", http.StatusNotFound, `{"error":{"message":"no such model"}}`, ErrModelNotFound, "gpt-4o-mini"},
		{"api error", http.StatusBadRequest, `{"error":{"message":"context too long"}}`, ErrAPI, "context too long"},
		{"non json", http.StatusBadGateway, `upstream down`, ErrAPI, "status 502"},
		{"no choices", http.StatusOK, `{"choices":[]}`, ErrAPI, "no response choices"},
		{"malformed", http.StatusOK, `{`, ErrAPI, "decode response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			svc, err := NewLLMService(LLMConfig{APIKey: "k", BaseURL: server.URL})
			require.NoError(t, err)

			_, err = svc.Generate(context.Background(), "q", driven.GenerateOptions{})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, domain.ErrGenerationUnavailable)
			assert.ErrorContains(t, err, tt.contains)
		})
	}
}

func TestLLMService_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	svc, err := NewLLMService(LLMConfig{APIKey: "k", BaseURL: server.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), "q", driven.GenerateOptions{})
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestLLMService_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	svc, err := NewLLMService(LLMConfig{APIKey: "k", BaseURL: url})
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), "q", driven.GenerateOptions{})
	assert.ErrorIs(t, err, ErrUnreachable)
	assert.ErrorIs(t, svc.Ping(context.Background()), ErrUnreachable)
}

func TestLLMService_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	good, err := NewLLMService(LLMConfig{APIKey: "good", BaseURL: server.URL})
	require.NoError(t, err)
	assert.NoError(t, good.Ping(context.Background()))
	assert.Equal(t, DefaultLLMModel, good.ModelName())

	bad, err := NewLLMService(LLMConfig{APIKey: "bad", BaseURL: server.URL})
	require.NoError(t, err)
	assert.ErrorIs(t, bad.Ping(context.Background()), ErrUnauthorized)
}
