package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sibyl-labs/sibyl-cli/internal/core/domain"
)

var (
	askTopK int
	askJSON bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question against the indexed corpus",
	Long: `Ask a question and get a grounded answer.

The answer is assembled from retrieved documentation excerpts and
includes citations to the source pages. Confidence reflects how well
the corpus matched the question; low-confidence answers ask for
clarification instead of guessing.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "candidates to retrieve (0 = policy default)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the full response as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if err := prepareCorpus(cmd); err != nil {
		return err
	}

	resp, err := assistantService.Answer(cmd.Context(), args[0], askTopK)
	if err != nil {
		return fmt.Errorf("answering: %w", err)
	}

	conversationID := uuid.NewString()
	if askJSON {
		return outputResponseJSON(cmd, conversationID, resp)
	}

	return outputResponseText(cmd, conversationID, resp)
}

// askEnvelope wraps a grounded response with its exchange identifier
// for JSON output.
type askEnvelope struct {
	ConversationID string                  `json:"conversation_id"`
	Response       domain.GroundedResponse `json:"response"`
}

func outputResponseJSON(cmd *cobra.Command, conversationID string, resp domain.GroundedResponse) error {
	data, err := json.MarshalIndent(askEnvelope{ConversationID: conversationID, Response: resp}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling response: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputResponseText(cmd *cobra.Command, conversationID string, resp domain.GroundedResponse) error {
	cmd.Println(resp.Text)

	if len(resp.Citations) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for _, c := range resp.Citations {
			cmd.Printf("  - %s (%s)\n", c.Title, c.URL)
		}
	}

	if action := resp.PrimaryAction(); action.Type != domain.ActionNone {
		cmd.Println()
		switch action.Type {
		case domain.ActionClarify:
			cmd.Println("Action: clarify")
		case domain.ActionHandoff:
			cmd.Println("Action: handoff to a human")
		case domain.ActionCollectLead:
			cmd.Printf("Action: collect lead (%s)\n", strings.Join(action.Fields, ", "))
		case domain.ActionUseTool:
			cmd.Printf("Action: use tool %s\n", action.ToolName)
		case domain.ActionNone:
		}
	}

	cmd.Println()
	cmd.Printf("Confidence: %.2f\n", resp.Confidence)
	cmd.Printf("Conversation: %s\n", conversationID)

	return nil
}
