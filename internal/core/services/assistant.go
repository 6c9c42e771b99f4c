package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sibyl-labs/sibyl-cli/internal/core/domain"
	"github.com/sibyl-labs/sibyl-cli/internal/core/ports/driven"
	"github.com/sibyl-labs/sibyl-cli/internal/core/ports/driving"
	"github.com/sibyl-labs/sibyl-cli/internal/logger"
)

// Ensure AssistantService implements the interface.
var _ driving.AssistantService = (*AssistantService)(nil)

// AssistantService is the answer pipeline: retrieve, clean, assemble,
// and optionally enrich. Every failure mode inside Answer degrades to
// a clarify or handoff response; transports never see a panic or an
// assembly error.
type AssistantService struct {
	store     driven.CorpusStore
	engine    driven.RetrievalEngine
	generator driven.GenerationService // optional, nil disables enrichment
	assembler *Assembler
	policy    domain.Policy
	catalog   domain.Catalog
}

// NewAssistantService creates the assistant around a corpus store and
// retrieval engine. The generator is optional (can be nil).
func NewAssistantService(
	store driven.CorpusStore,
	engine driven.RetrievalEngine,
	generator driven.GenerationService,
	policy domain.Policy,
	catalog domain.Catalog,
) *AssistantService {
	return &AssistantService{
		store:     store,
		engine:    engine,
		generator: generator,
		assembler: NewAssembler(policy, catalog),
		policy:    policy,
		catalog:   catalog,
	}
}

// Index replaces the corpus store contents and rebuilds the retrieval
// index. Total rebuild semantics; calling it twice with the same
// documents is a no-op for observers.
func (s *AssistantService) Index(ctx context.Context, docs []domain.Document) error {
	logger.Section("Corpus Indexing")
	logger.Debug("Indexing %d documents", len(docs))

	if err := s.store.Replace(ctx, docs); err != nil {
		return fmt.Errorf("replacing corpus: %w", err)
	}
	if err := s.engine.Build(ctx, docs); err != nil {
		return fmt.Errorf("building index: %w", err)
	}

	logger.Info("Indexed %d documents, %d terms", len(docs), s.engine.TermCount())
	return nil
}

// Answer runs the full pipeline for one query. The returned response is
// always valid: retrieval errors degrade to the no-candidates path and
// enrichment failures degrade per the enrichment contract.
func (s *AssistantService) Answer(ctx context.Context, query string, topK int) (domain.GroundedResponse, error) {
	if topK <= 0 {
		topK = s.policy.DefaultTopK
	}

	candidates, err := s.engine.Search(ctx, query, topK)
	if err != nil {
		// A broken index must not break the conversation; answer as if
		// retrieval found nothing.
		logger.Warn("Search failed, degrading to no candidates: %v", err)
		candidates = nil
	}

	confidence := domain.ConfidenceFrom(candidates)
	logger.Debug("Query %q: %d candidates, confidence %.3f", query, len(candidates), confidence)

	resp, ruleName := s.assembler.Assemble(query, candidates, confidence)
	logger.Debug("Rule %q decided the response", ruleName)

	if s.generator == nil || !Retrievable(ruleName) {
		return resp, nil
	}

	return s.enrich(ctx, query, candidates, confidence, resp), nil
}

// enrich asks the generation service for a composed answer and applies
// the fallback contract: a malformed payload keeps the templated answer
// verbatim; a transport failure becomes a handoff with a fixed apology
// and a low confidence floor.
func (s *AssistantService) enrich(
	ctx context.Context,
	query string,
	candidates []domain.ScoredCandidate,
	confidence float64,
	templated domain.GroundedResponse,
) domain.GroundedResponse {
	blocks := make([]domain.ContextBlock, 0, len(candidates))
	for _, c := range candidates {
		blocks = append(blocks, c.Block)
	}

	composed, err := s.generator.Compose(ctx, driven.ComposeRequest{
		Query:      query,
		Blocks:     blocks,
		Confidence: confidence,
	})

	switch {
	case err == nil:
		if composed.Confidence > confidence {
			composed.Confidence = confidence
		}
		if vErr := composed.ValidateAgainst(candidates); vErr != nil {
			logger.Warn("Composed response failed validation, keeping templated answer: %v", vErr)
			return templated
		}
		return *composed

	case errors.Is(err, domain.ErrMalformedPayload):
		logger.Warn("Malformed generation payload, keeping templated answer: %v", err)
		return templated

	default:
		logger.Warn("Generation unavailable, handing off: %v", err)
		return domain.GroundedResponse{
			Text:       s.catalog.ApologyReply,
			Citations:  []domain.Citation{},
			Confidence: s.policy.HandoffConfidence,
			Actions:    []domain.Action{{Type: domain.ActionHandoff}},
		}
	}
}

// Retrieve exposes the ranked candidates without assembling an answer.
func (s *AssistantService) Retrieve(ctx context.Context, query string, topK int) ([]domain.ScoredCandidate, error) {
	if topK <= 0 {
		topK = s.policy.DefaultTopK
	}
	return s.engine.Search(ctx, query, topK)
}

// Stats summarizes the stored corpus and the index built over it.
func (s *AssistantService) Stats(ctx context.Context) (domain.CorpusStats, error) {
	docs, err := s.store.List(ctx)
	if err != nil {
		return domain.CorpusStats{}, fmt.Errorf("listing corpus: %w", err)
	}

	stats := domain.CorpusStats{
		Documents:    len(docs),
		IndexedTerms: s.engine.TermCount(),
		ContentTypes: make(map[string]int),
	}
	for _, doc := range docs {
		stats.TotalContentLength += len(doc.Content)
		stats.ContentTypes[domain.ClassifyURL(doc.URL)]++
	}
	if len(docs) > 0 {
		stats.AverageContentLength = stats.TotalContentLength / len(docs)
	}

	return stats, nil
}
