package domain

import "fmt"

// ActionType enumerates the behavioral directives a response can carry.
type ActionType string

// Available action types.
const (
	// ActionNone means the answer stands on its own.
	ActionNone ActionType = "none"

	// ActionClarify asks the user a clarifying question before answering.
	ActionClarify ActionType = "clarify"

	// ActionHandoff routes the conversation to a human.
	ActionHandoff ActionType = "handoff"

	// ActionCollectLead gathers contact and use-case details from the user.
	ActionCollectLead ActionType = "collect_lead"

	// ActionUseTool requests invocation of a named external tool.
	ActionUseTool ActionType = "use_tool"
)

// IsValid returns true if the action type is recognised.
func (t ActionType) IsValid() bool {
	switch t {
	case ActionNone, ActionClarify, ActionHandoff, ActionCollectLead, ActionUseTool:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t ActionType) String() string {
	return string(t)
}

// Action is one behavioral directive attached to a response.
// The first action in a response is the primary directive.
type Action struct {
	Type ActionType `json:"type"`

	// ToolName names the tool to invoke when Type is ActionUseTool.
	ToolName string `json:"tool_name,omitempty"`

	// Fields lists the inputs to collect when Type is ActionCollectLead.
	Fields []string `json:"fields,omitempty"`
}

// Citation attributes a piece of the answer to a source document.
type Citation struct {
	Title string `json:"title"`
	URL   string `json:"url"`

	// Quote is a cleaned excerpt, truncated with an explicit marker.
	Quote string `json:"quote"`
}

// GroundedResponse is the sole output contract of the answer pipeline.
type GroundedResponse struct {
	// Text is the final answer or clarifying question.
	Text string `json:"text"`

	// Citations list the sources actually used to produce Text.
	Citations []Citation `json:"citations"`

	// Confidence estimates how well retrieved evidence supports the answer.
	Confidence float64 `json:"confidence"`

	// Actions carry the behavioral directives; never empty, and the
	// first element governs.
	Actions []Action `json:"actions"`
}

// PrimaryAction returns the governing directive.
// A response with no actions is malformed; callers should Validate first.
func (r *GroundedResponse) PrimaryAction() Action {
	if len(r.Actions) == 0 {
		return Action{Type: ActionNone}
	}
	return r.Actions[0]
}

// Validate checks the structural invariants of the response contract.
func (r *GroundedResponse) Validate() error {
	if r.Text == "" {
		return fmt.Errorf("%w: empty response text", ErrInvalidInput)
	}
	if r.Confidence < 0.0 || r.Confidence > 1.0 {
		return fmt.Errorf("%w: confidence %v outside [0,1]", ErrInvalidInput, r.Confidence)
	}
	if len(r.Actions) == 0 {
		return fmt.Errorf("%w: response carries no actions", ErrInvalidInput)
	}
	for _, a := range r.Actions {
		if !a.Type.IsValid() {
			return fmt.Errorf("%w: unknown action type %q", ErrInvalidInput, a.Type)
		}
	}
	for _, c := range r.Citations {
		if c.URL == "" {
			return fmt.Errorf("%w: citation with empty URL", ErrInvalidInput)
		}
	}
	return nil
}

// ValidateAgainst checks Validate plus citation soundness: every cited URL
// must come from the candidate set that produced the answer.
func (r *GroundedResponse) ValidateAgainst(candidates []ScoredCandidate) error {
	if err := r.Validate(); err != nil {
		return err
	}
	known := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		known[c.Block.URL] = true
	}
	for _, c := range r.Citations {
		if !known[c.URL] {
			return fmt.Errorf("%w: citation %q not among candidates", ErrInvalidInput, c.URL)
		}
	}
	return nil
}
