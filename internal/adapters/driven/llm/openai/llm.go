// Package openai generates answers through OpenAI or any gateway that
// speaks the same chat completions API.
package openai

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

const (
	DefaultBaseURL    = "https://api.openai.com/v1"
	DefaultLLMModel   = "gpt-4o-mini"
	DefaultLLMTimeout = 120 * time.Second
)

// ErrMissingAPIKey is returned when no API key is configured.
var ErrMissingAPIKey = errors.New("openai: API key is required")

// Failure classes returned by Generate and Ping. All wrap
// domain.ErrGenerationUnavailable.
var (
	ErrUnreachable   = fmt.Errorf("%w: openai endpoint not reachable", domain.ErrGenerationUnavailable)
	ErrTimeout       = fmt.Errorf("%w: openai request timed out", domain.ErrGenerationUnavailable)
	ErrUnauthorized  = fmt.Errorf("%w: openai rejected the API key", domain.ErrGenerationUnavailable)
	ErrRateLimited   = fmt.Errorf("%w: openai rate limit reached", domain.ErrGenerationUnavailable)
	ErrModelNotFound = fmt.Errorf("%w: openai model not found", domain.ErrGenerationUnavailable)
	ErrAPI           = fmt.Errorf("%w: openai error", domain.ErrGenerationUnavailable)
)

// LLMConfig holds configuration for the OpenAI LLM service.
type LLMConfig struct {
	// APIKey is required.
	APIKey string

	// BaseURL is the API base URL. Change it for compatible gateways.
	BaseURL string

	Model   string
	Timeout time.Duration

	// SystemPrompt, when set, is sent as a system message before the prompt.
	SystemPrompt string
}

// LLMService generates completions through /chat/completions.
type LLMService struct {
	client       *http.Client
	baseURL      string
	apiKey       string
	model        string
	systemPrompt string
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
	Stop        []string  `json:"stop,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

type errorEnvelope struct {
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewLLMService creates a new OpenAI LLM service.
func NewLLMService(cfg LLMConfig) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
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
		client:       &http.Client{Timeout: cfg.Timeout},
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		model:        cfg.Model,
		systemPrompt: cfg.SystemPrompt,
	}, nil
}

// Generate sends the prompt as a single user message and returns the
// first choice.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	msgs := make([]message, 0, 2)
	if s.systemPrompt != "" {
		msgs = append(msgs, message{Role: "system", Content: s.systemPrompt})
	}
	msgs = append(msgs, message{Role: "user", Content: prompt})

	var out completionResponse
	err := s.call(ctx, http.MethodPost, "/chat/completions", completionRequest{
		Model:       s.model,
		Messages:    msgs,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		Stop:        opts.StopWords,
	}, &out)
	if err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: no response choices returned", ErrAPI)
	}
	return out.Choices[0].Message.Content, nil
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping lists models, which validates the key without inference.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.call(ctx, http.MethodGet, "/models", nil, nil)
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}

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
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return fmt.Errorf("%w after %s", ErrTimeout, s.client.Timeout)
		}
		return fmt.Errorf("%w at %s (%w)", ErrUnreachable, s.baseURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("%w: read response: %w", ErrAPI, err)
	}
	if resp.StatusCode != http.StatusOK {
		return statusError(resp.StatusCode, body, s.model)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrAPI, err)
	}
	return nil
}

// statusError classifies a non-200 reply, preferring the API's own message.
func statusError(status int, body []byte, model string) error {
	detail := strings.TrimSpace(string(body))
	var env errorEnvelope
	if json.Unmarshal(body, &env) == nil && env.Error != nil && env.Error.Message != "" {
		detail = env.Error.Message
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, detail)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, detail)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %q: %s", ErrModelNotFound, model, detail)
	default:
		return fmt.Errorf("%w (status %d): %s", ErrAPI, status, detail)
	}
}
