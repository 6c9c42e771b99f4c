package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output statistics as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if err := prepareCorpus(cmd); err != nil {
		return err
	}

	stats, err := assistantService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading corpus stats: %w", err)
	}

	if statsJSON {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling stats: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Documents:       %d\n", stats.Documents)
	cmd.Printf("Indexed terms:   %d\n", stats.IndexedTerms)
	cmd.Printf("Total content:   %d bytes\n", stats.TotalContentLength)
	cmd.Printf("Average content: %d bytes\n", stats.AverageContentLength)

	if len(stats.ContentTypes) > 0 {
		cmd.Println("Content types:")
		contentTypes := make([]string, 0, len(stats.ContentTypes))
		for contentType := range stats.ContentTypes {
			contentTypes = append(contentTypes, contentType)
		}
		sort.Strings(contentTypes)
		for _, contentType := range contentTypes {
			cmd.Printf("  %s: %d\n", contentType, stats.ContentTypes[contentType])
		}
	}

	return nil
}
