// Package services implements the driving port interfaces.
// Services contain the ingestion and retrieval logic and orchestrate
// calls to driven ports (extractor, chunker, embedding provider, scope
// index, document store, generation provider).
//
// Services are pure Go with no CGO or external dependencies.
package services
