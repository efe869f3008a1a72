package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Ingestion Errors.

	// ErrUnsupportedFormat indicates a file type the extractor cannot read.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrFileTooLarge indicates an upload above the configured size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrExtractionFailed indicates the extractor could not parse the file.
	// This is distinct from a file that parsed but holds no text.
	ErrExtractionFailed = errors.New("text extraction failed")

	// ErrNoExtractableText indicates the file parsed but yielded no text.
	ErrNoExtractableText = errors.New("no extractable text")

	// ErrNoContent indicates the extracted text produced no chunks.
	ErrNoContent = errors.New("no content to index")

	// Service Errors.

	// ErrEmbeddingUnavailable indicates the embedding model could not be
	// initialised or reached. Fatal to the in-flight ingestion or query.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrGenerationUnavailable indicates the answer generation service is
	// unreachable or timed out. Callers should report it as service unavailable.
	ErrGenerationUnavailable = errors.New("generation service unavailable")

	// Index Errors.

	// ErrDimensionMismatch indicates a vector whose length differs from the
	// dimension fixed by the scope's first append.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrIndexCorrupt indicates the persisted vectors and chunk id mapping
	// disagree. Results from such an index would be misaligned.
	ErrIndexCorrupt = errors.New("index corrupt")
)

// IsUserError reports whether err is an ingestion failure the uploader can
// correct (wrong file type, empty document), as opposed to a system fault.
func IsUserError(err error) bool {
	return errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrFileTooLarge) ||
		errors.Is(err, ErrExtractionFailed) ||
		errors.Is(err, ErrNoExtractableText) ||
		errors.Is(err, ErrNoContent) ||
		errors.Is(err, ErrInvalidInput)
}
