package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sibyl-labs/sibyl-cli/internal/core/domain"
	"github.com/sibyl-labs/sibyl-cli/internal/excerpt"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed documentation",
	Long: `Search the corpus and show the ranked excerpts.

This is the retrieval stage on its own, without answer assembly.
Useful for inspecting what evidence a question would be grounded on.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 5, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if err := prepareCorpus(cmd); err != nil {
		return err
	}

	candidates, err := assistantService.Retrieve(cmd.Context(), args[0], searchLimit)
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	if searchJSON {
		return outputCandidatesJSON(cmd, candidates)
	}

	return outputCandidatesTable(cmd, candidates)
}

func outputCandidatesJSON(cmd *cobra.Command, candidates []domain.ScoredCandidate) error {
	data, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputCandidatesTable(cmd *cobra.Command, candidates []domain.ScoredCandidate) error {
	if len(candidates) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, c := range candidates {
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, c.Block.Title, c.Relevance)
		if c.Block.URL != "" {
			cmd.Printf("      %s\n", c.Block.URL)
		}
		cmd.Printf("      %s\n", excerpt.Truncate(c.Block.Excerpt, 120))
		cmd.Println()
	}

	return nil
}
