package domain

import "time"

// Document is one record of the scraped corpus snapshot.
// It is the canonical input to indexing; the URL is the stable identity.
type Document struct {
	// URL is the source page address and the unique document identifier.
	URL string `json:"url"`

	// Title is the human-readable page title.
	Title string `json:"title"`

	// Content is the extracted page text.
	Content string `json:"content"`

	// LastUpdated is when the page was last modified, if the scraper knew it.
	// Zero when unknown.
	LastUpdated time.Time `json:"last_updated,omitzero"`
}

// ContextBlock is a titled, sourced excerpt offered as evidence for an answer.
type ContextBlock struct {
	// Title is the source document title.
	Title string

	// URL identifies the source document. Non-empty for any block that
	// originates from a real document; synthetic blocks may leave it empty.
	URL string

	// LastUpdated is carried over from the source document. Zero when unknown.
	LastUpdated time.Time

	// Excerpt is the raw, uncleaned excerpt text.
	Excerpt string
}

// ScoredCandidate pairs a context block with its retrieval relevance.
type ScoredCandidate struct {
	// Block is the retrieved evidence.
	Block ContextBlock

	// Relevance is the normalized match score in [0, 1].
	Relevance float64
}

// ConfidenceFrom derives the retrieval confidence for a candidate set:
// the mean relevance capped at 1.0, or 0.0 when there are no candidates.
func ConfidenceFrom(candidates []ScoredCandidate) float64 {
	if len(candidates) == 0 {
		return 0.0
	}
	var sum float64
	for _, c := range candidates {
		sum += c.Relevance
	}
	confidence := sum / float64(len(candidates))
	if confidence > 1.0 {
		return 1.0
	}
	return confidence
}
