// Package mcp provides an MCP (Model Context Protocol) server adapter.
// It lets AI assistants ask grounded questions about a course or group's
// uploaded materials and feed new files into a scope's index.
package mcp

import "errors"

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")

// ErrInvalidPorts is returned when no ports are provided.
var ErrInvalidPorts = errors.New("mcp: invalid ports configuration")
