package file

import (
	"os"
	"time"

	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
	"github.com/msa123-tech/StudyConnect-AI/internal/core/ports/driven"
)

// Configuration keys.
const (
	KeyDataDir        = "storage.data_dir"
	KeyStorageBackend = "storage.backend"

	KeyMaxUploadBytes    = "ingest.max_upload_bytes"
	KeyChunkTargetChars  = "ingest.chunk_target_chars"
	KeyChunkOverlapChars = "ingest.chunk_overlap_chars"

	KeyTopK = "retrieval.top_k"

	KeyEmbeddingProvider   = "embedding.provider"
	KeyEmbeddingModel      = "embedding.model"
	KeyEmbeddingBaseURL    = "embedding.base_url"
	KeyEmbeddingAPIKey     = "embedding.api_key"
	KeyEmbeddingDimensions = "embedding.dimensions"
	KeyEmbeddingCacheSize  = "embedding.cache_size"
	KeyEmbeddingCacheTTL   = "embedding.cache_ttl"

	KeyLLMProvider = "llm.provider"
	KeyLLMModel    = "llm.model"
	KeyLLMBaseURL  = "llm.base_url"
	KeyLLMAPIKey   = "llm.api_key"
	KeyLLMTimeout  = "llm.timeout"
	KeyLLMRate     = "llm.requests_per_second"
	KeyLLMBurst    = "llm.burst"

	KeyScheduleEnabled = "schedule.enabled"
	KeyVerifyCron      = "schedule.verify_cron"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvDataDir      = "STUDYCONNECT_DATA_DIR"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvOllamaHost   = "OLLAMA_HOST"
)

// LoadSettings overlays values present in store onto domain.DefaultSettings.
// Absent or mistyped keys keep their defaults.
func LoadSettings(store driven.ConfigStore) domain.Settings {
	s := domain.DefaultSettings()
	if store == nil {
		return s
	}

	setString(store, KeyDataDir, &s.Storage.DataDir)
	if v := store.GetString(KeyStorageBackend); v != "" {
		s.Storage.Backend = domain.StorageBackend(v)
	}

	if v := store.GetInt(KeyMaxUploadBytes); v > 0 {
		s.Ingest.MaxUploadBytes = int64(v)
	}
	setPositiveInt(store, KeyChunkTargetChars, &s.Ingest.ChunkTargetChars)
	if _, ok := store.Get(KeyChunkOverlapChars); ok {
		if v := store.GetInt(KeyChunkOverlapChars); v >= 0 {
			s.Ingest.ChunkOverlapChars = v
		}
	}

	setPositiveInt(store, KeyTopK, &s.Retrieval.TopK)

	if v := store.GetString(KeyEmbeddingProvider); v != "" {
		s.Embedding.Provider = domain.AIProvider(v)
	}
	setString(store, KeyEmbeddingModel, &s.Embedding.Model)
	setString(store, KeyEmbeddingBaseURL, &s.Embedding.BaseURL)
	setString(store, KeyEmbeddingAPIKey, &s.Embedding.APIKey)
	setPositiveInt(store, KeyEmbeddingDimensions, &s.Embedding.Dimensions)
	if _, ok := store.Get(KeyEmbeddingCacheSize); ok {
		s.Embedding.CacheSize = store.GetInt(KeyEmbeddingCacheSize)
	}
	setDuration(store, KeyEmbeddingCacheTTL, &s.Embedding.CacheTTL)

	if v := store.GetString(KeyLLMProvider); v != "" {
		s.LLM.Provider = domain.AIProvider(v)
	}
	setString(store, KeyLLMModel, &s.LLM.Model)
	setString(store, KeyLLMBaseURL, &s.LLM.BaseURL)
	setString(store, KeyLLMAPIKey, &s.LLM.APIKey)
	setDuration(store, KeyLLMTimeout, &s.LLM.Timeout)
	if v := store.GetFloat(KeyLLMRate); v > 0 {
		s.LLM.RequestsPerSecond = v
	}
	setPositiveInt(store, KeyLLMBurst, &s.LLM.Burst)

	s.Schedule.Enabled = store.GetBool(KeyScheduleEnabled)
	setString(store, KeyVerifyCron, &s.Schedule.VerifyCron)

	return s
}

// ApplyEnv fills settings from the environment. The data directory
// override always wins; API keys only fill empty keys for providers that
// need them.
func ApplyEnv(s *domain.Settings) {
	if v := os.Getenv(EnvDataDir); v != "" {
		s.Storage.DataDir = v
	}

	keyFor := func(p domain.AIProvider) string {
		switch p {
		case domain.AIProviderOpenAI:
			return os.Getenv(EnvOpenAIAPIKey)
		case domain.AIProviderGemini:
			return os.Getenv(EnvGeminiAPIKey)
		default:
			return ""
		}
	}
	if s.Embedding.APIKey == "" {
		s.Embedding.APIKey = keyFor(s.Embedding.Provider)
	}
	if s.LLM.APIKey == "" {
		s.LLM.APIKey = keyFor(s.LLM.Provider)
	}

	if host := os.Getenv(EnvOllamaHost); host != "" {
		if s.Embedding.Provider == domain.AIProviderOllama && s.Embedding.BaseURL == "" {
			s.Embedding.BaseURL = host
		}
		if s.LLM.Provider == domain.AIProviderOllama && s.LLM.BaseURL == "" {
			s.LLM.BaseURL = host
		}
	}
}

func setString(store driven.ConfigStore, key string, dst *string) {
	if v := store.GetString(key); v != "" {
		*dst = v
	}
}

func setPositiveInt(store driven.ConfigStore, key string, dst *int) {
	if v := store.GetInt(key); v > 0 {
		*dst = v
	}
}

// setDuration accepts a Go duration string ("90s") or integer seconds.
func setDuration(store driven.ConfigStore, key string, dst *time.Duration) {
	if v := store.GetString(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			*dst = d
		}
		return
	}
	if v := store.GetInt(key); v > 0 {
		*dst = time.Duration(v) * time.Second
	}
}
