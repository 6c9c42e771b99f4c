// Package file loads the document corpus from a scraped JSON snapshot
// on local disk.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/sibyl-labs/sibyl-cli/internal/core/domain"
	"github.com/sibyl-labs/sibyl-cli/internal/core/ports/driven"
)

// Source reads documents from a JSON snapshot file. The snapshot is a
// flat array of documents in scrape order.
type Source struct {
	path string
}

var _ driven.DocumentSource = (*Source)(nil)

// New creates a source for the given snapshot path.
func New(path string) *Source {
	return &Source{path: path}
}

// Resolve creates a source for the first path that exists, falling
// back to the last one. The scraper writes a raw snapshot and may
// write a cleaned one next to it; the cleaned snapshot wins when both
// are present.
func Resolve(paths ...string) *Source {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return New(p)
		}
	}
	if len(paths) == 0 {
		return New("")
	}
	return New(paths[len(paths)-1])
}

// Path returns the snapshot file path.
func (s *Source) Path() string {
	return s.path
}

// Load reads and parses the snapshot. A missing file yields an empty
// corpus rather than an error so a fresh install can start before any
// scrape has run. A malformed snapshot is an error.
func (s *Source) Load(_ context.Context) ([]domain.Document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var docs []domain.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", s.path, err)
	}

	return docs, nil
}
