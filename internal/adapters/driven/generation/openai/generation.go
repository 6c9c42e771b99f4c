// Package openai provides a generation service adapter using the OpenAI
// chat completions API. The model is asked for a strict JSON grounded
// response; anything that does not conform is reported as a malformed
// payload so callers can fall back to the templated answer.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/sibyl-labs/sibyl-cli/internal/core/domain"
	"github.com/sibyl-labs/sibyl-cli/internal/core/ports/driven"
)

var _ driven.GenerationService = (*Service)(nil)

// Default configuration values.
const (
	DefaultBaseURL     = "https://api.openai.com/v1"
	DefaultModel       = "gpt-4o-mini"
	DefaultTimeout     = 60 * time.Second
	DefaultMaxTokens   = 800
	DefaultTemperature = 0.3
	DefaultRateLimit   = 60 // requests per minute
)

// Config holds configuration for the OpenAI generation service.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	// Can be changed for Azure OpenAI or compatible APIs.
	BaseURL string

	// Model is the model to use (default: gpt-4o-mini).
	Model string

	// ProductName names the product the assistant speaks for.
	ProductName string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration

	// MaxTokens caps the completion length (default: 800).
	MaxTokens int

	// Temperature controls sampling (default: 0.3).
	Temperature float64

	// RateLimit is the allowed requests per minute (default: 60).
	RateLimit int
}

// Service provides grounded answer generation using the OpenAI API.
type Service struct {
	client      *http.Client
	limiter     *rate.Limiter
	baseURL     string
	apiKey      string
	model       string
	productName string
	maxTokens   int
	temperature float64
}

// chatCompletionRequest is the OpenAI /chat/completions request format.
type chatCompletionRequest struct {
	Model       string              `json:"model"`
	Messages    []chatCompletionMsg `json:"messages"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Temperature float64             `json:"temperature,omitempty"`
}

// chatCompletionMsg is the OpenAI chat message format.
type chatCompletionMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionResponse is the OpenAI /chat/completions response format.
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewService creates a new OpenAI generation service.
func NewService(cfg Config) (*Service, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.ProductName == "" {
		cfg.ProductName = "the product"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = DefaultRateLimit
	}

	return &Service{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:     rate.NewLimiter(rate.Limit(float64(cfg.RateLimit)/60.0), cfg.RateLimit),
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		productName: cfg.ProductName,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}, nil
}

// systemPromptTemplate instructs the model to answer strictly from the
// supplied context and to emit the grounded response JSON schema.
const systemPromptTemplate = `You are %s's assistant. Answer ONLY using the provided Context.
If evidence is weak or missing, ask a concise clarifying question or offer a human handoff.
Never invent facts, policies, pricing, SLAs, or order/stock data.

STYLE
- Clear, compact, practical. 120 words or fewer unless the user explicitly asks for detail.
- Always include source attributions for any factual claim.
- Quote exact lines for pricing/SLAs/security.

CITATIONS
- Cite only documents you actually used.
- Prefer the most recent, most specific source (product/docs/policy pages over blogs).
- If multiple snippets from the same page are used, cite once.

CONFIDENCE & ACTIONS
- You will receive a numeric confidence score from the retrieval step (0-1) as retrieval_confidence.
- Behavior:
  - >= 0.72: Answer normally + citations.
  - 0.55-0.71: Answer briefly + ask exactly ONE clarifying question + citations if applicable.
  - < 0.55: Do NOT answer; ask ONE clarifying question or propose human handoff.
- Never mask uncertainty; say what you do and don't know based on Context.

LEAD / HANDOFF
- If the user requests a demo/quote or mentions budget/timeline/integrations, collect:
  name, work email, company, use case.
- Offer a human handoff path and confirm consent.

PRIVACY & SAFETY
- Do not expose raw emails, phone numbers, or IDs from Context.
- Never output API keys, internal tokens, or credentials.
- If a request is out of scope, decline and propose next steps.

OUTPUT FORMAT (STRICT)
Return a single JSON object matching this schema:
{
  "text": "final answer or clarifying question",
  "citations": [{"title":"...", "url":"...", "quote":"..."}],
  "confidence": <number 0..1>,
  "actions": [{"type":"none" | "clarify" | "handoff" | "collect_lead" | "use_tool", "tool_name":"optional", "fields":["optional"]}]
}

AIM
Provide the most accurate, sourced, minimal answer possible based solely on Context.`

// Compose generates a grounded response for the query using the given
// context blocks. A reply that is not the expected JSON object is
// reported as domain.ErrMalformedPayload; transport and API failures
// are reported as domain.ErrGenerationUnavailable.
func (s *Service) Compose(ctx context.Context, req driven.ComposeRequest) (*domain.GroundedResponse, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	raw, err := s.chatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationUnavailable, err)
	}

	return parsePayload(raw, req)
}

// chatCompletion sends the request and returns the model's raw reply.
func (s *Service) chatCompletion(ctx context.Context, req driven.ComposeRequest) (string, error) {
	reqBody := chatCompletionRequest{
		Model: s.model,
		Messages: []chatCompletionMsg{
			{Role: "system", Content: fmt.Sprintf(systemPromptTemplate, s.productName)},
			{Role: "user", Content: userPrompt(req)},
		},
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/chat/completions",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("openai error: %s", chatResp.Error.Message)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai error (status %d): %s", resp.StatusCode, string(body))
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("openai: no response choices returned")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// userPrompt renders the retrieval confidence, context blocks and query.
func userPrompt(req driven.ComposeRequest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "retrieval_confidence: %.2f\n\nContext:\n", req.Confidence)
	for _, block := range req.Blocks {
		fmt.Fprintf(&sb, "Title: %s\nURL: %s\nContent: %s\n\n", block.Title, block.URL, block.Excerpt)
	}
	fmt.Fprintf(&sb, "User question: %s", req.Query)
	return sb.String()
}

// parsePayload decodes and validates the model's JSON reply.
func parsePayload(raw string, req driven.ComposeRequest) (*domain.GroundedResponse, error) {
	raw = stripCodeFence(strings.TrimSpace(raw))

	var resp domain.GroundedResponse
	decoder := json.NewDecoder(strings.NewReader(raw))
	if err := decoder.Decode(&resp); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}

	if strings.TrimSpace(resp.Text) == "" {
		return nil, fmt.Errorf("%w: empty text", domain.ErrMalformedPayload)
	}

	// Models occasionally omit fields the schema requires; repair the
	// benign omissions, reject the rest.
	if resp.Confidence == 0 {
		resp.Confidence = req.Confidence
	}
	if len(resp.Actions) == 0 {
		resp.Actions = []domain.Action{{Type: domain.ActionNone}}
	}

	if err := resp.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}

	return &resp, nil
}

// stripCodeFence removes a surrounding markdown code fence if present.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ModelName returns the name of the model being used.
func (s *Service) ModelName() string {
	return s.model
}

// Ping validates the service is reachable by checking the /models endpoint.
// This is a lightweight check that validates the API key without running inference.
func (s *Service) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("openai: failed to create ping request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("openai: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("openai: API returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("openai: API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Close releases resources.
func (s *Service) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
