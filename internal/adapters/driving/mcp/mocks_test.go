package mcp

import (
	"context"

	"github.com/sibyl-labs/sibyl-cli/internal/core/domain"
)

// mockAssistantService implements driving.AssistantService for tests.
type mockAssistantService struct {
	response   domain.GroundedResponse
	candidates []domain.ScoredCandidate
	stats      domain.CorpusStats
	err        error
}

func (m *mockAssistantService) Index(_ context.Context, _ []domain.Document) error {
	return m.err
}

func (m *mockAssistantService) Answer(_ context.Context, _ string, _ int) (domain.GroundedResponse, error) {
	if m.err != nil {
		return domain.GroundedResponse{}, m.err
	}
	return m.response, nil
}

func (m *mockAssistantService) Retrieve(_ context.Context, _ string, _ int) ([]domain.ScoredCandidate, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.candidates, nil
}

func (m *mockAssistantService) Stats(_ context.Context) (domain.CorpusStats, error) {
	if m.err != nil {
		return domain.CorpusStats{}, m.err
	}
	return m.stats, nil
}

// mockCorpusStore implements driven.CorpusStore for tests.
type mockCorpusStore struct {
	docs []domain.Document
	err  error
}

func (m *mockCorpusStore) Replace(_ context.Context, docs []domain.Document) error {
	m.docs = docs
	return m.err
}

func (m *mockCorpusStore) Get(_ context.Context, url string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.docs {
		if m.docs[i].URL == url {
			return &m.docs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockCorpusStore) List(_ context.Context) ([]domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.docs, nil
}

func (m *mockCorpusStore) Count(_ context.Context) (int, error) {
	return len(m.docs), nil
}

func (m *mockCorpusStore) Close() error { return nil }
