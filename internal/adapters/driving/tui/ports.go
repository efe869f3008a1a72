// Package tui provides an interactive terminal interface for chatting with a
// course or group's materials. It implements a driving adapter following
// hexagonal architecture principles.
package tui

import (
	"github.com/msa123-tech/StudyConnect-AI/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retrieval answers and summarises questions about a scope.
	Retrieval driving.RetrievalService

	// Document lists a scope's documents and their chunks.
	Document driving.DocumentService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(retrieval driving.RetrievalService, document driving.DocumentService) *Ports {
	return &Ports{
		Retrieval: retrieval,
		Document:  document,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	return nil
}
