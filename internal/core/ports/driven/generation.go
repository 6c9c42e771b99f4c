package driven

import (
	"context"

	"github.com/sibyl-labs/sibyl-cli/internal/core/domain"
)

// ComposeRequest carries everything a text-generation service may use.
// The service must derive answer text solely from the supplied blocks.
type ComposeRequest struct {
	// Query is the user's question.
	Query string

	// Blocks are the retrieved context blocks, best first.
	Blocks []domain.ContextBlock

	// Confidence is the retrieval confidence; the returned response
	// must not report higher confidence than this.
	Confidence float64
}

// GenerationService is an optional enrichment collaborator that may
// replace the templated answer text. When nil, the assembler's templated
// output is used directly.
//
// Error contract: a payload that does not conform to the response schema
// is reported as domain.ErrMalformedPayload (callers fall back to the
// templated answer); transport and provider failures are reported as
// domain.ErrGenerationUnavailable, and any other error likewise means the
// service failed (callers degrade to a handoff response).
type GenerationService interface {
	// Compose asks the service for a full GroundedResponse.
	// The context deadline bounds the call.
	Compose(ctx context.Context, req ComposeRequest) (*domain.GroundedResponse, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
