package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sibyl-labs/sibyl-cli/internal/core/domain"
	"github.com/sibyl-labs/sibyl-cli/internal/core/ports/driven"
)

// ==================== Mocks ====================

type mockCorpusStore struct {
	docs       []domain.Document
	replaceErr error
	listErr    error
}

func (m *mockCorpusStore) Replace(_ context.Context, docs []domain.Document) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.docs = docs
	return nil
}

func (m *mockCorpusStore) Get(_ context.Context, url string) (*domain.Document, error) {
	for i := range m.docs {
		if m.docs[i].URL == url {
			return &m.docs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockCorpusStore) List(_ context.Context) ([]domain.Document, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.docs, nil
}

func (m *mockCorpusStore) Count(_ context.Context) (int, error) {
	return len(m.docs), nil
}

func (m *mockCorpusStore) Close() error { return nil }

type mockEngine struct {
	built      []domain.Document
	candidates []domain.ScoredCandidate
	terms      int
	buildErr   error
	searchErr  error
	lastLimit  int
}

func (m *mockEngine) Build(_ context.Context, docs []domain.Document) error {
	if m.buildErr != nil {
		return m.buildErr
	}
	m.built = docs
	return nil
}

func (m *mockEngine) Search(_ context.Context, _ string, limit int) ([]domain.ScoredCandidate, error) {
	m.lastLimit = limit
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.candidates, nil
}

func (m *mockEngine) TermCount() int { return m.terms }

type mockGenerator struct {
	resp    *domain.GroundedResponse
	err     error
	calls   int
	lastReq driven.ComposeRequest
}

func (m *mockGenerator) Compose(_ context.Context, req driven.ComposeRequest) (*domain.GroundedResponse, error) {
	m.calls++
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

func (m *mockGenerator) ModelName() string            { return "mock" }
func (m *mockGenerator) Ping(_ context.Context) error { return nil }
func (m *mockGenerator) Close() error                 { return nil }

// ==================== Helpers ====================

func newAssistant(store *mockCorpusStore, engine *mockEngine, gen driven.GenerationService) *AssistantService {
	return NewAssistantService(store, engine, gen, domain.DefaultPolicy(), domain.DefaultCatalog("Core DNA"))
}

func strongCandidates() []domain.ScoredCandidate {
	return []domain.ScoredCandidate{
		{
			Block: domain.ContextBlock{
				Title:   "Checkout",
				URL:     "https://example.com/checkout",
				Excerpt: "The platform provides a streamlined one-page checkout that helps customers complete purchases quickly.",
			},
			Relevance: 0.8,
		},
	}
}

// ==================== Index ====================

func TestAssistant_Index(t *testing.T) {
	store := &mockCorpusStore{}
	engine := &mockEngine{terms: 42}
	svc := newAssistant(store, engine, nil)

	docs := []domain.Document{
		{URL: "https://example.com/a", Title: "A", Content: "alpha"},
	}
	require.NoError(t, svc.Index(context.Background(), docs))

	assert.Equal(t, docs, store.docs)
	assert.Equal(t, docs, engine.built)
}

func TestAssistant_Index_StoreError(t *testing.T) {
	store := &mockCorpusStore{replaceErr: errors.New("disk full")}
	engine := &mockEngine{}
	svc := newAssistant(store, engine, nil)

	err := svc.Index(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "replacing corpus")
	assert.Nil(t, engine.built)
}

func TestAssistant_Index_EngineError(t *testing.T) {
	svc := newAssistant(&mockCorpusStore{}, &mockEngine{buildErr: errors.New("boom")}, nil)

	err := svc.Index(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "building index")
}

// ==================== Answer ====================

func TestAssistant_Answer_Templated(t *testing.T) {
	engine := &mockEngine{candidates: strongCandidates()}
	svc := newAssistant(&mockCorpusStore{}, engine, nil)

	resp, err := svc.Answer(context.Background(), "explain the checkout flow", 3)
	require.NoError(t, err)

	assert.NoError(t, resp.Validate())
	assert.Equal(t, domain.ActionNone, resp.PrimaryAction().Type)
	assert.InDelta(t, 0.8, resp.Confidence, 1e-9)
	assert.Equal(t, 3, engine.lastLimit)
}

func TestAssistant_Answer_DefaultTopK(t *testing.T) {
	engine := &mockEngine{}
	svc := newAssistant(&mockCorpusStore{}, engine, nil)

	_, err := svc.Answer(context.Background(), "anything at all", 0)
	require.NoError(t, err)
	assert.Equal(t, 5, engine.lastLimit)
}

func TestAssistant_Answer_SearchErrorDegrades(t *testing.T) {
	engine := &mockEngine{searchErr: errors.New("index corrupted")}
	svc := newAssistant(&mockCorpusStore{}, engine, nil)

	resp, err := svc.Answer(context.Background(), "explain the checkout flow", 5)
	require.NoError(t, err)

	assert.Equal(t, domain.ActionClarify, resp.PrimaryAction().Type)
	assert.Empty(t, resp.Citations)
	assert.Zero(t, resp.Confidence)
}

func TestAssistant_Answer_EmptyCorpus(t *testing.T) {
	svc := newAssistant(&mockCorpusStore{}, &mockEngine{}, nil)

	resp, err := svc.Answer(context.Background(), "explain the checkout flow", 5)
	require.NoError(t, err)

	assert.NoError(t, resp.Validate())
	assert.Equal(t, domain.ActionClarify, resp.PrimaryAction().Type)
}

// ==================== Enrichment ====================

func TestAssistant_Answer_EnrichmentReplacesText(t *testing.T) {
	gen := &mockGenerator{resp: &domain.GroundedResponse{
		Text:       "A concise composed answer about checkout.",
		Citations:  []domain.Citation{{Title: "Checkout", URL: "https://example.com/checkout", Quote: "one-page checkout"}},
		Confidence: 0.78,
		Actions:    []domain.Action{{Type: domain.ActionNone}},
	}}
	engine := &mockEngine{candidates: strongCandidates()}
	svc := newAssistant(&mockCorpusStore{}, engine, gen)

	resp, err := svc.Answer(context.Background(), "explain the checkout flow", 5)
	require.NoError(t, err)

	assert.Equal(t, "A concise composed answer about checkout.", resp.Text)
	assert.Equal(t, 1, gen.calls)
	assert.InDelta(t, 0.8, gen.lastReq.Confidence, 1e-9)
	require.Len(t, gen.lastReq.Blocks, 1)
	assert.Equal(t, "https://example.com/checkout", gen.lastReq.Blocks[0].URL)
}

func TestAssistant_Answer_EnrichmentConfidenceCapped(t *testing.T) {
	gen := &mockGenerator{resp: &domain.GroundedResponse{
		Text:       "Overconfident answer.",
		Confidence: 0.99,
		Actions:    []domain.Action{{Type: domain.ActionNone}},
	}}
	engine := &mockEngine{candidates: strongCandidates()}
	svc := newAssistant(&mockCorpusStore{}, engine, gen)

	resp, err := svc.Answer(context.Background(), "explain the checkout flow", 5)
	require.NoError(t, err)

	// The composed answer must not claim more confidence than retrieval measured.
	assert.InDelta(t, 0.8, resp.Confidence, 1e-9)
}

func TestAssistant_Answer_OrphanCitationKeepsTemplated(t *testing.T) {
	gen := &mockGenerator{resp: &domain.GroundedResponse{
		Text:       "Answer citing a page retrieval never saw.",
		Citations:  []domain.Citation{{Title: "Elsewhere", URL: "https://example.com/elsewhere"}},
		Confidence: 0.8,
		Actions:    []domain.Action{{Type: domain.ActionNone}},
	}}
	engine := &mockEngine{candidates: strongCandidates()}
	svc := newAssistant(&mockCorpusStore{}, engine, gen)

	resp, err := svc.Answer(context.Background(), "explain the checkout flow", 5)
	require.NoError(t, err)

	assert.Contains(t, resp.Text, "Based on Core DNA's documentation:")
	assert.NoError(t, resp.ValidateAgainst(strongCandidates()))
}

func TestAssistant_Answer_MalformedPayloadKeepsTemplated(t *testing.T) {
	gen := &mockGenerator{err: domain.ErrMalformedPayload}
	engine := &mockEngine{candidates: strongCandidates()}
	svc := newAssistant(&mockCorpusStore{}, engine, gen)

	resp, err := svc.Answer(context.Background(), "explain the checkout flow", 5)
	require.NoError(t, err)

	assert.Contains(t, resp.Text, "Based on Core DNA's documentation:")
	assert.Equal(t, domain.ActionNone, resp.PrimaryAction().Type)
	assert.InDelta(t, 0.8, resp.Confidence, 1e-9)
}

func TestAssistant_Answer_GenerationFailureHandsOff(t *testing.T) {
	failures := map[string]error{
		"unavailable sentinel": fmt.Errorf("%w: connection refused", domain.ErrGenerationUnavailable),
		"unclassified error":   errors.New("connection refused"),
	}

	for name, genErr := range failures {
		t.Run(name, func(t *testing.T) {
			gen := &mockGenerator{err: genErr}
			engine := &mockEngine{candidates: strongCandidates()}
			svc := newAssistant(&mockCorpusStore{}, engine, gen)

			resp, err := svc.Answer(context.Background(), "explain the checkout flow", 5)
			require.NoError(t, err)

			assert.Equal(t, domain.ActionHandoff, resp.PrimaryAction().Type)
			assert.InDelta(t, 0.1, resp.Confidence, 1e-9)
			assert.Empty(t, resp.Citations)
			assert.Contains(t, resp.Text, "I'm sorry")
		})
	}
}

func TestAssistant_Answer_EnrichmentSkippedForCannedRules(t *testing.T) {
	gen := &mockGenerator{err: errors.New("should never be called")}
	engine := &mockEngine{candidates: strongCandidates()}
	svc := newAssistant(&mockCorpusStore{}, engine, gen)

	resp, err := svc.Answer(context.Background(), "hello", 5)
	require.NoError(t, err)

	assert.Zero(t, gen.calls)
	assert.InDelta(t, 1.0, resp.Confidence, 1e-9)
}

// ==================== Retrieve & Stats ====================

func TestAssistant_Retrieve(t *testing.T) {
	engine := &mockEngine{candidates: strongCandidates()}
	svc := newAssistant(&mockCorpusStore{}, engine, nil)

	candidates, err := svc.Retrieve(context.Background(), "checkout", 0)
	require.NoError(t, err)
	assert.Len(t, candidates, 1)
	assert.Equal(t, 5, engine.lastLimit)
}

func TestAssistant_Stats(t *testing.T) {
	store := &mockCorpusStore{docs: []domain.Document{
		{URL: "https://example.com/blogs/launch", Content: "aaaa"},
		{URL: "https://example.com/all-features/cart", Content: "bbbbbb"},
		{URL: "https://example.com/pricing", Content: "cc"},
	}}
	engine := &mockEngine{terms: 99}
	svc := newAssistant(store, engine, nil)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Documents)
	assert.Equal(t, 99, stats.IndexedTerms)
	assert.Equal(t, 12, stats.TotalContentLength)
	assert.Equal(t, 4, stats.AverageContentLength)
	assert.Equal(t, map[string]int{"blog": 1, "features": 1, "other": 1}, stats.ContentTypes)
}

func TestAssistant_Stats_StoreError(t *testing.T) {
	store := &mockCorpusStore{listErr: errors.New("db closed")}
	svc := newAssistant(store, &mockEngine{}, nil)

	_, err := svc.Stats(context.Background())
	assert.Error(t, err)
}
