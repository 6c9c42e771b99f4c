package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	source "github.com/sibyl-labs/sibyl-cli/internal/adapters/driven/source/file"
)

var indexCmd = &cobra.Command{
	Use:   "index [snapshot]",
	Short: "Index a documentation snapshot",
	Long: `Index a scraped documentation snapshot.

The snapshot is a JSON array of pages with url, title, and content
fields. Indexing replaces the whole corpus; previously indexed pages
that are missing from the snapshot are removed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	snapshot := snapshotSource()
	if len(args) > 0 {
		snapshot = source.New(args[0])
	}

	docs, err := snapshot.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}
	if docs == nil {
		return fmt.Errorf("snapshot not found: %s", snapshot.Path())
	}

	if err := assistantService.Index(cmd.Context(), docs); err != nil {
		return fmt.Errorf("indexing: %w", err)
	}

	stats, err := assistantService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading corpus stats: %w", err)
	}

	cmd.Printf("Indexed %d documents (%d terms)\n", stats.Documents, stats.IndexedTerms)

	contentTypes := make([]string, 0, len(stats.ContentTypes))
	for contentType := range stats.ContentTypes {
		contentTypes = append(contentTypes, contentType)
	}
	sort.Strings(contentTypes)
	for _, contentType := range contentTypes {
		cmd.Printf("  %s: %d\n", contentType, stats.ContentTypes[contentType])
	}

	return nil
}
