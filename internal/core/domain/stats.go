package domain

import "strings"

// CorpusStats summarizes the loaded corpus and its index.
type CorpusStats struct {
	// Documents is the number of records in the corpus.
	Documents int `json:"documents"`

	// IndexedTerms is the number of distinct terms in the lexical index.
	IndexedTerms int `json:"indexed_terms"`

	// TotalContentLength is the summed content length in bytes.
	TotalContentLength int `json:"total_content_length"`

	// AverageContentLength is TotalContentLength / Documents, 0 when empty.
	AverageContentLength int `json:"average_content_length"`

	// ContentTypes counts documents per URL-derived category.
	ContentTypes map[string]int `json:"content_types"`
}

// ClassifyURL buckets a document URL by its path segment.
func ClassifyURL(url string) string {
	switch {
	case strings.Contains(url, "/blogs/"):
		return "blog"
	case strings.Contains(url, "/all-features/"):
		return "features"
	case strings.Contains(url, "/customers/"):
		return "case_studies"
	case strings.Contains(url, "/guides/"):
		return "guides"
	default:
		return "other"
	}
}
