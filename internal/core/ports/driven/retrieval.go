// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import (
	"context"

	"github.com/sibyl-labs/sibyl-cli/internal/core/domain"
)

// RetrievalEngine ranks corpus documents against a query.
// Backed by the lexical inverted index.
type RetrievalEngine interface {
	// Build replaces the index with one built from the given documents.
	// The swap is atomic: concurrent searches see either the old or the
	// new index, never a partially built one. Empty input produces an
	// empty, queryable index.
	Build(ctx context.Context, docs []domain.Document) error

	// Search tokenizes the query and returns up to limit candidates
	// ranked by normalized relevance. An empty or token-free query
	// returns no candidates.
	Search(ctx context.Context, query string, limit int) ([]domain.ScoredCandidate, error)

	// TermCount reports the number of distinct indexed terms.
	TermCount() int
}
