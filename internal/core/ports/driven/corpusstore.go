package driven

import (
	"context"

	"github.com/sibyl-labs/sibyl-cli/internal/core/domain"
)

// CorpusStore persists the document corpus.
// Corpus order is significant: search ties break by first-stored position.
type CorpusStore interface {
	// Replace swaps the entire corpus for the given documents.
	// There is no partial mutation; reloads are total rebuilds.
	Replace(ctx context.Context, docs []domain.Document) error

	// Get retrieves a document by URL.
	Get(ctx context.Context, url string) (*domain.Document, error)

	// List returns all documents in corpus order.
	List(ctx context.Context) ([]domain.Document, error)

	// Count returns the number of stored documents.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
