package mcp

import (
	"context"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sibyl-labs/sibyl-cli/internal/core/domain"
)

// AnswerInput is the input schema for the answer tool.
type AnswerInput struct {
	Query string `json:"query" jsonschema:"the question to answer from the indexed corpus"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"maximum number of candidates to retrieve (default 5)"`
}

// AnswerOutput is the output schema for the answer tool. It mirrors the
// grounded response contract.
type AnswerOutput struct {
	ConversationID string            `json:"conversation_id"`
	Text           string            `json:"text"`
	Citations      []domain.Citation `json:"citations"`
	Confidence     float64           `json:"confidence"`
	Actions        []domain.Action   `json:"actions"`
}

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the search query to rank corpus documents"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 5)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single ranked candidate.
type SearchResultOutput struct {
	Title     string  `json:"title"`
	URL       string  `json:"url"`
	Relevance float64 `json:"relevance"`
	Excerpt   string  `json:"excerpt,omitempty"`
}

// StatsInput is the (empty) input schema for the corpus_stats tool.
type StatsInput struct{}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "answer",
		Description: "Answer a question from the indexed corpus with citations and an action directive",
	}, s.handleAnswer)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Rank corpus documents against a query without composing an answer",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "corpus_stats",
		Description: "Summarize the indexed corpus: document counts, index size, content types",
	}, s.handleStats)
}

// handleAnswer handles the answer tool invocation.
func (s *Server) handleAnswer(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnswerInput,
) (*mcp.CallToolResult, AnswerOutput, error) {
	resp, err := s.ports.Assistant.Answer(ctx, input.Query, input.TopK)
	if err != nil {
		return nil, AnswerOutput{}, err
	}

	return nil, AnswerOutput{
		ConversationID: uuid.NewString(),
		Text:           resp.Text,
		Citations:      resp.Citations,
		Confidence:     resp.Confidence,
		Actions:        resp.Actions,
	}, nil
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	candidates, err := s.ports.Assistant.Retrieve(ctx, input.Query, input.Limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(candidates)),
		Count:   len(candidates),
	}
	for i := range candidates {
		output.Results[i] = SearchResultOutput{
			Title:     candidates[i].Block.Title,
			URL:       candidates[i].Block.URL,
			Relevance: candidates[i].Relevance,
			Excerpt:   candidates[i].Block.Excerpt,
		}
	}

	return nil, output, nil
}

// handleStats handles the corpus_stats tool invocation.
func (s *Server) handleStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatsInput,
) (*mcp.CallToolResult, domain.CorpusStats, error) {
	stats, err := s.ports.Assistant.Stats(ctx)
	if err != nil {
		return nil, domain.CorpusStats{}, err
	}
	return nil, stats, nil
}
