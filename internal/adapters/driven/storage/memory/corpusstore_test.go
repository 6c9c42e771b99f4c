package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sibyl-labs/sibyl-cli/internal/core/domain"
)

func testDocs() []domain.Document {
	return []domain.Document{
		{URL: "https://example.com/a", Title: "A", Content: "alpha"},
		{URL: "https://example.com/b", Title: "B", Content: "beta"},
	}
}

func TestCorpusStore_ReplaceAndList(t *testing.T) {
	store := NewCorpusStore()
	ctx := context.Background()

	require.NoError(t, store.Replace(ctx, testDocs()))

	docs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "https://example.com/a", docs[0].URL)
	assert.Equal(t, "https://example.com/b", docs[1].URL)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCorpusStore_Replace_IsTotal(t *testing.T) {
	store := NewCorpusStore()
	ctx := context.Background()

	require.NoError(t, store.Replace(ctx, testDocs()))
	require.NoError(t, store.Replace(ctx, []domain.Document{
		{URL: "https://example.com/c", Title: "C", Content: "gamma"},
	}))

	_, err := store.Get(ctx, "https://example.com/a")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	docs, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestCorpusStore_Get(t *testing.T) {
	store := NewCorpusStore()
	ctx := context.Background()
	require.NoError(t, store.Replace(ctx, testDocs()))

	doc, err := store.Get(ctx, "https://example.com/b")
	require.NoError(t, err)
	assert.Equal(t, "B", doc.Title)

	_, err = store.Get(ctx, "https://example.com/missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCorpusStore_EmptyReplace(t *testing.T) {
	store := NewCorpusStore()
	ctx := context.Background()

	require.NoError(t, store.Replace(ctx, nil))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
