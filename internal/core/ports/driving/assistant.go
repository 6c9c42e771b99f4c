// Package driving provides interfaces for primary (inbound) adapters.
package driving

import (
	"context"

	"github.com/sibyl-labs/sibyl-cli/internal/core/domain"
)

// AssistantService is the core's surface to transports (CLI, TUI, MCP).
type AssistantService interface {
	// Index rebuilds the corpus store and the retrieval index from the
	// given documents. Total rebuild semantics; idempotent.
	Index(ctx context.Context, docs []domain.Document) error

	// Answer runs retrieve, clean, assemble (and optional enrichment)
	// for one query. It always returns a valid GroundedResponse: every
	// failure mode degrades to clarify or handoff rather than an error.
	Answer(ctx context.Context, query string, topK int) (domain.GroundedResponse, error)

	// Retrieve exposes the ranked candidates for one query without
	// assembling an answer.
	Retrieve(ctx context.Context, query string, topK int) ([]domain.ScoredCandidate, error)

	// Stats summarizes the loaded corpus.
	Stats(ctx context.Context) (domain.CorpusStats, error)
}
