// Package ollama generates answers with a local Ollama server.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
	"github.com/msa123-tech/StudyConnect-AI/internal/core/ports/driven"
)

var _ driven.LLMService = (*LLMService)(nil)

// Defaults match a stock local install.
const (
	DefaultBaseURL    = "http://localhost:11434"
	DefaultLLMModel   = "llama3.2"
	DefaultLLMTimeout = 120 * time.Second
)

// Failure classes. Each wraps domain.ErrGenerationUnavailable so callers
// can report any of them as "service unavailable" with errors.Is.
var (
	// ErrUnreachable means nothing answered at the configured address.
	ErrUnreachable = fmt.Errorf("%w: ollama not reachable", domain.ErrGenerationUnavailable)

	// ErrTimeout means the server accepted the request but did not finish in time.
	ErrTimeout = fmt.Errorf("%w: ollama request timed out", domain.ErrGenerationUnavailable)

	// ErrModelNotFound means the server is up but the model has not been pulled.
	ErrModelNotFound = fmt.Errorf("%w: ollama model not found", domain.ErrGenerationUnavailable)

	// ErrServer covers any other non-200 reply or an error in the reply body.
	ErrServer = fmt.Errorf("%w: ollama error", domain.ErrGenerationUnavailable)
)

// LLMConfig holds configuration for the Ollama LLM service.
type LLMConfig struct {
	BaseURL string
	Model   string

	// Timeout bounds one generation. Local models on CPU can take a while
	// on a full context bundle.
	Timeout time.Duration
}

// LLMService calls the non-streaming /api/generate endpoint.
type LLMService struct {
	client  *http.Client
	baseURL string
	model   string
}

type generateRequest struct {
	Model   string   `json:"model"`
	Prompt  string   `json:"prompt"`
	Stream  bool     `json:"stream"`
	Options *options `json:"options,omitempty"`
}

type options struct {
	NumPredict  int      `json:"num_predict,omitempty"`
	Temperature float64  `json:"temperature,omitempty"`
	Stop        []string `json:"stop,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// NewLLMService creates a new Ollama LLM service.
func NewLLMService(cfg LLMConfig) *LLMService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}
	return &LLMService{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
	}
}

// Generate produces the full answer for prompt. Failures are classified
// into ErrUnreachable, ErrTimeout, ErrModelNotFound or ErrServer.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	body := generateRequest{Model: s.model, Prompt: prompt}
	if opts.MaxTokens > 0 || opts.Temperature > 0 || len(opts.StopWords) > 0 {
		body.Options = &options{
			NumPredict:  opts.MaxTokens,
			Temperature: opts.Temperature,
			Stop:        opts.StopWords,
		}
	}

	var out generateResponse
	if err := s.call(ctx, http.MethodPost, "/api/generate", body, &out); err != nil {
		return "", err
	}
	if out.Error != "" {
		return "", fmt.Errorf("%w: %s", ErrServer, out.Error)
	}
	return strings.TrimSpace(out.Response), nil
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping lists local models via /api/tags, which needs no inference.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.call(ctx, http.MethodGet, "/api/tags", nil, nil)
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}

// call sends one request and decodes a 200 reply into out when out is set.
func (s *LLMService) call(ctx context.Context, method, path string, in, out any) error {
	var reqBody io.Reader = http.NoBody
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return s.transportError(ctx, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound && path == "/api/generate":
		return fmt.Errorf("%w: %q, pull it with: ollama pull %s", ErrModelNotFound, s.model, s.model)
	case resp.StatusCode != http.StatusOK:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w (status %d): %s", ErrServer, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrServer, err)
	}
	return nil
}

// transportError maps a failed round trip to a failure class. A caller's
// own cancellation is returned as is.
func (s *LLMService) transportError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w after %s", ErrTimeout, s.client.Timeout)
	}
	return fmt.Errorf("%w at %s, is it running? (%w)", ErrUnreachable, s.baseURL, err)
}
