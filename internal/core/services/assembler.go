package services

import (
	"fmt"
	"strings"

	"github.com/sibyl-labs/sibyl-cli/internal/core/domain"
	"github.com/sibyl-labs/sibyl-cli/internal/excerpt"
)

// Rule names, also reported to callers so they can decide whether a
// response is a candidate for generative enrichment.
const (
	RuleGreeting      = "greeting"
	RuleOverview      = "overview"
	RuleTopicBucket   = "topic_bucket"
	RuleLowConfidence = "low_confidence"
	RuleNoCandidates  = "no_candidates"
	RuleLeadCapture   = "lead_capture"
	RuleFullAnswer    = "full_answer"
	RuleBriefAnswer   = "brief_answer"
)

// Intent cue words for full-answer framing.
var (
	definitionalCues = []string{"what is", "what are", "define", "explain"}
	proceduralCues   = []string{"how", "steps", "process", "setup", "configure"}
	capabilityCues   = []string{"feature", "capability", "function", "can", "does"}
)

// Assembler converts (query, ranked candidates, confidence) into the
// grounded response contract. It is a pure function of its inputs:
// no I/O, no shared mutable state, deterministic for a fixed corpus
// and thresholds.
//
// The policy is a flat, priority-ordered rule list evaluated top to
// bottom; the first matching rule produces the response and no further
// rules are consulted.
type Assembler struct {
	policy  domain.Policy
	catalog domain.Catalog
	cleaner *excerpt.Cleaner
	rules   []rule
}

// assembleInput carries one request through the rule list.
type assembleInput struct {
	query      string
	lower      string
	candidates []domain.ScoredCandidate
	confidence float64
}

// rule is one predicate/handler pair of the policy.
type rule struct {
	name    string
	match   func(in assembleInput) bool
	respond func(in assembleInput) domain.GroundedResponse
}

// NewAssembler creates the policy core for a policy and catalog pair.
func NewAssembler(policy domain.Policy, catalog domain.Catalog) *Assembler {
	a := &Assembler{
		policy:  policy,
		catalog: catalog,
		cleaner: excerpt.New(excerpt.Options{
			Vocabulary:      catalog.Vocabulary,
			BoilerplateName: catalog.ProductName,
		}),
	}

	a.rules = []rule{
		{RuleGreeting, a.matchGreeting, a.respondGreeting},
		{RuleOverview, a.matchOverview, a.respondOverview},
		{RuleTopicBucket, a.matchTopicBucket, a.respondTopicBucket},
		{RuleLowConfidence, a.matchLowConfidence, a.respondLowConfidence},
		{RuleNoCandidates, a.matchNoCandidates, a.respondNoCandidates},
		{RuleLeadCapture, a.matchLeadCapture, a.respondLeadCapture},
		{RuleFullAnswer, a.matchFullAnswer, a.respondFullAnswer},
		{RuleBriefAnswer, matchAlways, a.respondBriefAnswer},
	}

	return a
}

// Assemble produces the grounded response for one query and reports
// which rule decided it.
func (a *Assembler) Assemble(
	query string, candidates []domain.ScoredCandidate, confidence float64,
) (domain.GroundedResponse, string) {
	in := assembleInput{
		query:      query,
		lower:      strings.ToLower(query),
		candidates: candidates,
		confidence: confidence,
	}

	for _, r := range a.rules {
		if r.match(in) {
			return r.respond(in), r.name
		}
	}

	// The brief-answer rule always matches; this is unreachable.
	return a.respondBriefAnswer(in), RuleBriefAnswer
}

// Retrievable reports whether a rule's answer was grounded in retrieved
// candidates, which makes it eligible for generative enrichment. Canned
// rules and clarify gates keep their templated text.
func Retrievable(ruleName string) bool {
	switch ruleName {
	case RuleLeadCapture, RuleFullAnswer, RuleBriefAnswer:
		return true
	default:
		return false
	}
}

func matchAlways(assembleInput) bool { return true }

// ---- greeting / overview bypass ----

func (a *Assembler) matchGreeting(in assembleInput) bool {
	trimmed := strings.TrimSpace(in.lower)
	for _, g := range a.catalog.Greetings {
		if trimmed == g {
			return true
		}
	}
	return false
}

func (a *Assembler) respondGreeting(assembleInput) domain.GroundedResponse {
	return canned(a.catalog.GreetingReply, 1.0, domain.Action{Type: domain.ActionNone})
}

func (a *Assembler) matchOverview(in assembleInput) bool {
	for _, trigger := range a.catalog.OverviewTriggers {
		if strings.Contains(in.lower, trigger) {
			return true
		}
	}
	return false
}

func (a *Assembler) respondOverview(assembleInput) domain.GroundedResponse {
	return canned(a.catalog.OverviewReply, 1.0, domain.Action{Type: domain.ActionNone})
}

// ---- topic buckets ----

// matchTopicBucket fires only when retrieval found no high-quality
// candidate; a strong lexical match should answer from the corpus
// rather than from the canned bucket text.
func (a *Assembler) matchTopicBucket(in assembleInput) bool {
	if len(in.candidates) > 0 && in.candidates[0].Relevance >= a.policy.FullAnswerThreshold {
		return false
	}
	return a.bucketFor(in.lower) != nil
}

func (a *Assembler) respondTopicBucket(in assembleInput) domain.GroundedResponse {
	bucket := a.bucketFor(in.lower)

	action := domain.Action{Type: domain.ActionNone}
	if bucket.CollectLead {
		action = domain.Action{Type: domain.ActionCollectLead, Fields: a.catalog.LeadFields}
	}

	return canned(bucket.Reply, a.policy.BucketConfidence, action)
}

func (a *Assembler) bucketFor(lower string) *domain.TopicBucket {
	for i := range a.catalog.Buckets {
		for _, kw := range a.catalog.Buckets[i].Keywords {
			if strings.Contains(lower, kw) {
				return &a.catalog.Buckets[i]
			}
		}
	}
	return nil
}

// ---- confidence gates ----

// matchLowConfidence is the primary guardrail: below the clarify
// threshold the system must not assert domain facts, with or without
// candidates.
func (a *Assembler) matchLowConfidence(in assembleInput) bool {
	return in.confidence < a.policy.ClarifyThreshold
}

func (a *Assembler) respondLowConfidence(in assembleInput) domain.GroundedResponse {
	return canned(a.catalog.LowConfidenceReply, in.confidence, domain.Action{Type: domain.ActionClarify})
}

func (a *Assembler) matchNoCandidates(in assembleInput) bool {
	return len(in.candidates) == 0
}

func (a *Assembler) respondNoCandidates(in assembleInput) domain.GroundedResponse {
	return canned(a.catalog.NoCandidatesReply, in.confidence, domain.Action{Type: domain.ActionClarify})
}

// ---- lead capture ----

// matchLeadCapture requires both purchase intent and enough evidence
// to answer. Lead intent outranks the full informational answer; the
// conversion goal wins over completeness.
func (a *Assembler) matchLeadCapture(in assembleInput) bool {
	if in.confidence < a.policy.FullAnswerThreshold {
		return false
	}
	for _, trigger := range a.catalog.LeadTriggers {
		if strings.Contains(in.lower, trigger) {
			return true
		}
	}
	return false
}

func (a *Assembler) respondLeadCapture(in assembleInput) domain.GroundedResponse {
	top := in.candidates[0]
	cleaned := a.cleaner.Clean(top.Block.Excerpt)

	text := fmt.Sprintf("Based on our documentation: %s%s",
		excerpt.Truncate(cleaned, a.policy.BriefAnswerLen), a.catalog.LeadCTA)

	return domain.GroundedResponse{
		Text:       text,
		Citations:  a.citations(in.candidates[:1]),
		Confidence: in.confidence,
		Actions: []domain.Action{
			{Type: domain.ActionCollectLead, Fields: a.catalog.LeadFields},
		},
	}
}

// ---- full answer ----

func (a *Assembler) matchFullAnswer(in assembleInput) bool {
	return in.confidence >= a.policy.FullAnswerThreshold
}

func (a *Assembler) respondFullAnswer(in assembleInput) domain.GroundedResponse {
	cleaned := a.cleaner.Clean(in.candidates[0].Block.Excerpt)
	product := a.catalog.ProductName

	var text string
	switch {
	case containsAny(in.lower, definitionalCues):
		text = fmt.Sprintf("Based on %s's documentation: %s", product, cleaned)
		text += a.augment(in.candidates, cleaned, " Additionally, %s")
	case containsAny(in.lower, proceduralCues):
		text = fmt.Sprintf("According to %s's documentation: %s", product, cleaned)
	case containsAny(in.lower, capabilityCues):
		text = fmt.Sprintf("%s provides: %s", product, cleaned)
		text += a.augment(in.candidates, cleaned, " The platform also offers: %s")
	default:
		text = fmt.Sprintf("From %s's documentation: %s", product, cleaned)
	}

	limit := a.policy.MaxCitations
	if limit > len(in.candidates) {
		limit = len(in.candidates)
	}

	return domain.GroundedResponse{
		Text:       text,
		Citations:  a.citations(in.candidates[:limit]),
		Confidence: in.confidence,
		Actions:    []domain.Action{{Type: domain.ActionNone}},
	}
}

// augment draws a sentence from the second candidate when the top
// excerpt alone is too short to stand as a full answer.
func (a *Assembler) augment(candidates []domain.ScoredCandidate, cleaned, format string) string {
	if len(candidates) < 2 || len(cleaned) >= a.policy.ShortAnswerLen {
		return ""
	}
	second := a.cleaner.Clean(candidates[1].Block.Excerpt)
	if second == "" {
		return ""
	}
	return fmt.Sprintf(format, excerpt.Truncate(second, a.policy.AugmentLen))
}

// ---- brief answer ----

func (a *Assembler) respondBriefAnswer(in assembleInput) domain.GroundedResponse {
	cleaned := a.cleaner.Clean(in.candidates[0].Block.Excerpt)
	text := fmt.Sprintf("Based on %s's documentation: %s%s",
		a.catalog.ProductName,
		excerpt.Truncate(cleaned, a.policy.BriefAnswerLen),
		a.catalog.BriefFollowUp)

	return domain.GroundedResponse{
		Text:       text,
		Citations:  a.citations(in.candidates[:1]),
		Confidence: in.confidence,
		Actions:    []domain.Action{{Type: domain.ActionClarify}},
	}
}

// ---- helpers ----

// citations builds cleaned, truncated citations for the given candidates.
func (a *Assembler) citations(candidates []domain.ScoredCandidate) []domain.Citation {
	cites := make([]domain.Citation, 0, len(candidates))
	for _, c := range candidates {
		quote := excerpt.Truncate(a.cleaner.Clean(c.Block.Excerpt), a.policy.QuoteLen)
		cites = append(cites, domain.Citation{
			Title: a.catalog.FixTitle(c.Block.Title),
			URL:   c.Block.URL,
			Quote: quote,
		})
	}
	return cites
}

// canned builds a citation-free response around fixed text.
func canned(text string, confidence float64, action domain.Action) domain.GroundedResponse {
	return domain.GroundedResponse{
		Text:       text,
		Citations:  []domain.Citation{},
		Confidence: confidence,
		Actions:    []domain.Action{action},
	}
}

// containsAny reports whether s contains any of the cue substrings.
func containsAny(s string, cues []string) bool {
	for _, cue := range cues {
		if strings.Contains(s, cue) {
			return true
		}
	}
	return false
}
