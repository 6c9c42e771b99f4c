package mcp

import (
	"github.com/sibyl-labs/sibyl-cli/internal/core/ports/driven"
	"github.com/sibyl-labs/sibyl-cli/internal/core/ports/driving"
)

// Ports aggregates the port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Assistant answers grounded questions and exposes retrieval.
	Assistant driving.AssistantService

	// Corpus backs the document resources. Optional; resources degrade
	// to empty listings without it.
	Corpus driven.CorpusStore
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Assistant == nil {
		return ErrMissingAssistantService
	}
	return nil
}
