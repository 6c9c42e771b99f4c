package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sibyl-labs/sibyl-cli/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})

	return store
}

func TestNewStore_Success(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	defer store.Close()

	dbPath := filepath.Join(tempDir, "corpus.db")
	assert.Equal(t, dbPath, store.Path())
	assert.FileExists(t, dbPath)

	assert.NoError(t, store.db.Ping())
}

func TestNewStore_ErrorHandling(t *testing.T) {
	_, err := NewStore("/invalid\x00path")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "creating data directory")
}

func TestStore_ReplaceAndList(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	updated := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	docs := []domain.Document{
		{URL: "https://example.com/pricing", Title: "Pricing", Content: "plans and tiers", LastUpdated: updated},
		{URL: "https://example.com/features", Title: "Features", Content: "everything included"},
	}
	require.NoError(t, store.Replace(ctx, docs))

	got, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// corpus order survives the round trip
	assert.Equal(t, "https://example.com/pricing", got[0].URL)
	assert.Equal(t, "https://example.com/features", got[1].URL)
	assert.True(t, updated.Equal(got[0].LastUpdated))
	assert.True(t, got[1].LastUpdated.IsZero())

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestStore_Replace_IsTotal(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Replace(ctx, []domain.Document{
		{URL: "https://example.com/a", Title: "A", Content: "alpha"},
		{URL: "https://example.com/b", Title: "B", Content: "beta"},
	}))
	require.NoError(t, store.Replace(ctx, []domain.Document{
		{URL: "https://example.com/c", Title: "C", Content: "gamma"},
	}))

	_, err := store.Get(ctx, "https://example.com/a")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStore_Get(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Replace(ctx, []domain.Document{
		{URL: "https://example.com/guides", Title: "Guides", Content: "how to get started"},
	}))

	doc, err := store.Get(ctx, "https://example.com/guides")
	require.NoError(t, err)
	assert.Equal(t, "Guides", doc.Title)
	assert.Equal(t, "how to get started", doc.Content)

	_, err = store.Get(ctx, "https://example.com/missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_MigrationsIdempotent(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NoError(t, store.Replace(context.Background(), []domain.Document{
		{URL: "https://example.com/a", Title: "A", Content: "alpha"},
	}))
	require.NoError(t, store.Close())

	// Reopening the same directory must not re-run applied migrations
	// or lose data.
	reopened, err := NewStore(tempDir)
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
