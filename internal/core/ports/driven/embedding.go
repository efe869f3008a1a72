package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Implementations must be deterministic for a given model version: the
// same text always maps to the same vector, otherwise previously indexed
// vectors stop matching their queries.
//
// Implementations include:
//   - Ollama (all-minilm, nomic-embed-text)
//   - OpenAI (text-embedding-3-small)
//   - Gemini (text-embedding-004)
//   - Hash (deterministic, no semantics)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates one embedding per text, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 1536).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
