// Package domain defines the core business entities for the StudyConnect
// retrieval engine.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Scope: A course or study group that owns an isolated index
//   - Document: An uploaded file that has been ingested into a scope
//   - Chunk: A bounded span of a document's text, the unit of retrieval
//   - VectorHit: A nearest-neighbour match returned by a scope index
//   - Settings: Runtime configuration with defaults
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
