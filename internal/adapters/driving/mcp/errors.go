// Package mcp provides an MCP (Model Context Protocol) server adapter
// for Sibyl. It lets AI assistants ask grounded questions against the
// indexed corpus.
package mcp

import "errors"

// ErrMissingAssistantService is returned when the assistant service is not provided.
var ErrMissingAssistantService = errors.New("mcp: assistant service is required")
