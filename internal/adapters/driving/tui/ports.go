// Package tui provides an interactive chat terminal interface for Sibyl.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"errors"

	"github.com/sibyl-labs/sibyl-cli/internal/core/ports/driving"
)

// ErrMissingAssistantService is returned when the assistant service is not provided.
var ErrMissingAssistantService = errors.New("tui: assistant service is required")

// Ports aggregates the driving port interfaces required by the TUI.
type Ports struct {
	// Assistant answers questions against the indexed corpus.
	Assistant driving.AssistantService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Assistant == nil {
		return ErrMissingAssistantService
	}
	return nil
}
