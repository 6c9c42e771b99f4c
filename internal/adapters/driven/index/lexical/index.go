// Package lexical provides the keyword retrieval engine: an inverted
// index over the corpus with match-count scoring. It has no notion of
// synonymy or semantic similarity; that is an accepted limitation of
// the lexical approach, not a defect.
package lexical

import (
	"context"
	"sort"
	"strings"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/sibyl-labs/sibyl-cli/internal/core/domain"
	"github.com/sibyl-labs/sibyl-cli/internal/core/ports/driven"
	"github.com/sibyl-labs/sibyl-cli/internal/logger"
)

// Ensure Engine implements the interface.
var _ driven.RetrievalEngine = (*Engine)(nil)

// DefaultExcerptPrefixLen bounds the excerpt stored per document.
const DefaultExcerptPrefixLen = 500

// minTokenLen is the shortest token worth indexing; anything of this
// length or less is stop-word-like noise.
const minTokenLen = 3

// docEntry holds the indexed view of one document.
type docEntry struct {
	url         string
	title       string
	excerpt     string
	lastUpdated time.Time
}

// snapshot is one immutable generation of the index. Postings reference
// documents by corpus position, which also provides the deterministic
// tie-break order.
type snapshot struct {
	postings map[string][]int
	docs     []docEntry
}

// Engine is the lexical retrieval engine. Rebuilds swap the snapshot
// pointer atomically, so in-flight searches always see a complete index.
type Engine struct {
	excerptLen int
	snap       atomic.Pointer[snapshot]
}

// Option configures the engine.
type Option func(*Engine)

// WithExcerptPrefixLen sets the per-posting excerpt cap in runes.
func WithExcerptPrefixLen(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.excerptLen = n
		}
	}
}

// New creates an empty, queryable engine.
func New(opts ...Option) *Engine {
	e := &Engine{excerptLen: DefaultExcerptPrefixLen}
	for _, opt := range opts {
		opt(e)
	}
	e.snap.Store(&snapshot{postings: map[string][]int{}})
	return e
}

// Build replaces the index with one built from docs. The previous
// snapshot keeps serving searches until the new one is complete.
func (e *Engine) Build(_ context.Context, docs []domain.Document) error {
	next := &snapshot{
		postings: make(map[string][]int),
		docs:     make([]docEntry, len(docs)),
	}

	for i, doc := range docs {
		next.docs[i] = docEntry{
			url:         doc.URL,
			title:       doc.Title,
			excerpt:     prefix(doc.Content, e.excerptLen),
			lastUpdated: doc.LastUpdated,
		}

		// Every occurrence creates a posting; repeated terms in one
		// document accumulate weight at search time.
		for _, token := range tokenize(doc.Title + " " + doc.Content) {
			if len(token) <= minTokenLen {
				continue
			}
			next.postings[token] = append(next.postings[token], i)
		}
	}

	e.snap.Store(next)
	logger.Debug("Lexical index built: %d documents, %d terms", len(docs), len(next.postings))
	return nil
}

// Search ranks documents by accumulated query-term matches, normalized
// by query length and capped at 1.0.
func (e *Engine) Search(_ context.Context, query string, limit int) ([]domain.ScoredCandidate, error) {
	snap := e.snap.Load()

	tokens := tokenize(query)
	if len(tokens) == 0 {
		logger.Debug("Lexical search: no query tokens")
		return nil, nil
	}
	if limit <= 0 {
		limit = len(snap.docs)
	}

	scores := make(map[int]float64)
	for _, token := range tokens {
		for _, docIdx := range snap.postings[token] {
			scores[docIdx] += 1.0
		}
	}

	ranked := make([]int, 0, len(scores))
	for docIdx := range scores {
		ranked = append(ranked, docIdx)
	}
	// Descending score; corpus order breaks ties so results are
	// deterministic across runs.
	sort.Slice(ranked, func(i, j int) bool {
		si, sj := scores[ranked[i]], scores[ranked[j]]
		if si != sj {
			return si > sj
		}
		return ranked[i] < ranked[j]
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	queryLen := float64(len(tokens))
	results := make([]domain.ScoredCandidate, len(ranked))
	for i, docIdx := range ranked {
		relevance := scores[docIdx] / queryLen
		// Duplicate postings can push the raw ratio past 1; the
		// externally reported relevance is capped.
		if relevance > 1.0 {
			relevance = 1.0
		}
		entry := snap.docs[docIdx]
		results[i] = domain.ScoredCandidate{
			Block: domain.ContextBlock{
				Title:       entry.title,
				URL:         entry.url,
				LastUpdated: entry.lastUpdated,
				Excerpt:     entry.excerpt,
			},
			Relevance: relevance,
		}
	}

	logger.Debug("Lexical search: %d tokens, %d hits", len(tokens), len(results))
	return results, nil
}

// TermCount reports the number of distinct indexed terms.
func (e *Engine) TermCount() int {
	return len(e.snap.Load().postings)
}

// tokenize lower-cases text and splits it on word boundaries.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}

// prefix returns the first n runes of s.
func prefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
