package chat

import "errors"

// Error definitions for the chat view.
var (
	// ErrNoRetrievalService indicates that no retrieval service was provided.
	ErrNoRetrievalService = errors.New("retrieval service is required")
)
