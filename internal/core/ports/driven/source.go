package driven

import (
	"context"

	"github.com/sibyl-labs/sibyl-cli/internal/core/domain"
)

// DocumentSource supplies corpus snapshots from an external producer
// (the scraper pipeline). Crawling itself is outside this system.
type DocumentSource interface {
	// Load reads the current snapshot. A missing snapshot yields an
	// empty corpus, not an error.
	Load(ctx context.Context) ([]domain.Document, error)
}
