// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - EmbeddingService: Turns text into fixed-dimension vectors
//   - LLMService: Generates answers and summaries from a prompt
//   - ScopedIndex: Per-scope persistent vector index and chunk id mapping
//   - DocumentStore: Relational store for documents and chunk text
//   - UploadStore: Archive for the original uploaded bytes
//   - ConfigStore: Application configuration
//   - PromptStore: Prompt templates for generation
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
