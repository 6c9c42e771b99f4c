// Package memory provides in-memory store implementations, used by tests
// and by one-shot CLI invocations that index a snapshot per run.
package memory

import (
	"context"
	"sync"

	"github.com/sibyl-labs/sibyl-cli/internal/core/domain"
	"github.com/sibyl-labs/sibyl-cli/internal/core/ports/driven"
)

// Ensure CorpusStore implements the interface.
var _ driven.CorpusStore = (*CorpusStore)(nil)

// CorpusStore is an in-memory implementation of driven.CorpusStore.
// The slice preserves corpus order; the map serves URL lookups.
type CorpusStore struct {
	mu    sync.RWMutex
	docs  []domain.Document
	byURL map[string]int
}

// NewCorpusStore creates an empty in-memory corpus store.
func NewCorpusStore() *CorpusStore {
	return &CorpusStore{byURL: make(map[string]int)}
}

// Replace swaps the entire corpus for docs.
func (s *CorpusStore) Replace(_ context.Context, docs []domain.Document) error {
	next := make([]domain.Document, len(docs))
	copy(next, docs)
	byURL := make(map[string]int, len(docs))
	for i, d := range next {
		byURL[d.URL] = i
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = next
	s.byURL = byURL
	return nil
}

// Get retrieves a document by URL.
func (s *CorpusStore) Get(_ context.Context, url string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byURL[url]
	if !ok {
		return nil, domain.ErrNotFound
	}
	doc := s.docs[i]
	return &doc, nil
}

// List returns all documents in corpus order.
func (s *CorpusStore) List(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Document, len(s.docs))
	copy(out, s.docs)
	return out, nil
}

// Count returns the number of stored documents.
func (s *CorpusStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs), nil
}

// Close releases resources; a no-op for the in-memory store.
func (s *CorpusStore) Close() error {
	return nil
}
