package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const indexSnapshotJSON = `[
  {
    "url": "https://www.example.com/platform/ecommerce",
    "title": "eCommerce Platform",
    "content": "Shopping cart functionality and secure checkout."
  },
  {
    "url": "https://www.example.com/blogs/headless-commerce",
    "title": "Headless Commerce Explained",
    "content": "Headless commerce separates the storefront from the commerce engine."
  }
]`

func TestIndexCmd_Use(t *testing.T) {
	assert.Equal(t, "index [snapshot]", indexCmd.Use)
}

func TestIndexCmd_IndexesSnapshot(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte(indexSnapshotJSON), 0o600))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"index", path})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Indexed 2 documents")
	assert.Contains(t, buf.String(), "blog: 1")
}

func TestIndexCmd_SnapshotMissing(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"index", filepath.Join(t.TempDir(), "missing.json")})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "snapshot not found")
}

func TestIndexCmd_MalformedSnapshot(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"index", path})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading snapshot")
}
