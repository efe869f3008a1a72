package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or generation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API (or a compatible server).
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderGemini is the Google Gemini API.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderHash is a deterministic offline embedder. It has no semantic
	// quality and exists for tests and air-gapped smoke runs.
	AIProviderHash AIProvider = "hash"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderGemini, AIProviderHash:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderGemini
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderGemini:
		return "Gemini (cloud)"
	case AIProviderHash:
		return "Hash (offline, deterministic)"
	default:
		return unknownDescription
	}
}

// StorageBackend selects the chunk/document store implementation.
type StorageBackend string

// Available storage backends.
const (
	StorageSQLite StorageBackend = "sqlite"
	StorageBolt   StorageBackend = "bolt"
	StorageMemory StorageBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageSQLite, StorageBolt, StorageMemory:
		return true
	default:
		return false
	}
}

// StorageSettings holds on-disk layout configuration.
type StorageSettings struct {
	// DataDir is the root for the index, database and uploads.
	DataDir string

	// Backend is the document/chunk store.
	Backend StorageBackend
}

// IndexDir returns the directory holding per-scope index file pairs.
func (s StorageSettings) IndexDir() string {
	return s.DataDir + "/vector_index"
}

// UploadDir returns the directory holding archived uploads.
func (s StorageSettings) UploadDir() string {
	return s.DataDir + "/uploads"
}

// IngestSettings holds upload validation and chunking parameters.
type IngestSettings struct {
	// MaxUploadBytes rejects uploads larger than this.
	MaxUploadBytes int64

	// ChunkTargetChars is the chunk window size in characters.
	ChunkTargetChars int

	// ChunkOverlapChars is the overlap carried between chunks.
	ChunkOverlapChars int
}

// RetrievalSettings holds query-time parameters.
type RetrievalSettings struct {
	// TopK is the number of chunks retrieved per question.
	TopK int
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (Ollama, OpenAI-compatible).
	BaseURL string

	// APIKey is the API key (OpenAI, Gemini).
	APIKey string

	// Dimensions overrides the model's default vector size when non-zero.
	Dimensions int

	// CacheSize is the number of query embeddings kept in memory. Zero disables the cache.
	CacheSize int

	// CacheTTL bounds how long cached embeddings are reused.
	CacheTTL time.Duration
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds answer generation provider configuration.
type LLMSettings struct {
	// Provider is the generation service provider.
	Provider AIProvider

	// Model is the model name.
	Model string

	// BaseURL is the API endpoint (Ollama, OpenAI-compatible).
	BaseURL string

	// APIKey is the API key (OpenAI, Gemini).
	APIKey string

	// Timeout bounds a single generation request.
	Timeout time.Duration

	// RequestsPerSecond throttles generation calls. Zero disables throttling.
	RequestsPerSecond float64

	// Burst is the limiter burst size.
	Burst int
}

// IsConfigured returns true if the generation provider is set up.
// The hash provider only embeds and cannot generate.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() || l.Provider == AIProviderHash {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// ScheduleSettings configures background index verification.
type ScheduleSettings struct {
	// Enabled runs the verification job in the background of long-running
	// commands (chat, mcp serve). The serve command always runs it.
	Enabled bool

	// VerifyCron is a five-field cron expression.
	VerifyCron string
}

// Settings holds all application settings.
type Settings struct {
	Storage   StorageSettings
	Ingest    IngestSettings
	Retrieval RetrievalSettings
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Schedule  ScheduleSettings
}

// Default setting values.
const (
	DefaultMaxUploadBytes    = 10 * 1024 * 1024
	DefaultChunkTargetChars  = 2400
	DefaultChunkOverlapChars = 200
	DefaultTopK              = 5
	DefaultEmbeddingModel    = "all-minilm"
	DefaultEmbeddingDims     = 384
	DefaultLLMModel          = "llama3.2"
	DefaultLLMTimeout        = 120 * time.Second
	DefaultVerifyCron        = "0 3 * * *"
)

// DefaultSettings returns settings matching the reference deployment:
// a local Ollama for both embeddings and generation, sqlite storage.
func DefaultSettings() Settings {
	return Settings{
		Storage: StorageSettings{
			DataDir: "data",
			Backend: StorageSQLite,
		},
		Ingest: IngestSettings{
			MaxUploadBytes:    DefaultMaxUploadBytes,
			ChunkTargetChars:  DefaultChunkTargetChars,
			ChunkOverlapChars: DefaultChunkOverlapChars,
		},
		Retrieval: RetrievalSettings{
			TopK: DefaultTopK,
		},
		Embedding: EmbeddingSettings{
			Provider:   AIProviderOllama,
			Model:      DefaultEmbeddingModel,
			Dimensions: DefaultEmbeddingDims,
			CacheSize:  256,
			CacheTTL:   10 * time.Minute,
		},
		LLM: LLMSettings{
			Provider: AIProviderOllama,
			Model:    DefaultLLMModel,
			Timeout:  DefaultLLMTimeout,
		},
		Schedule: ScheduleSettings{
			VerifyCron: DefaultVerifyCron,
		},
	}
}
