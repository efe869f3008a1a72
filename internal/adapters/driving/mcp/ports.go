package mcp

import (
	"github.com/msa123-tech/StudyConnect-AI/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retrieval answers, summarises and searches within a scope.
	Retrieval driving.RetrievalService

	// Ingest indexes new files. The ingest_file tool is only offered when set.
	Ingest driving.IngestService

	// Document lists documents and chunks. Resources are only offered when set.
	Document driving.DocumentService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}
