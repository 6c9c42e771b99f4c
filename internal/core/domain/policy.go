package domain

// Policy centralizes the answer-assembly thresholds and length caps.
// Tests pin exact boundary behavior, so these are named configuration
// rather than inline literals.
type Policy struct {
	// ClarifyThreshold is the confidence floor below which the system
	// must not assert domain facts and asks a clarifying question instead.
	ClarifyThreshold float64 `toml:"clarify_threshold"`

	// FullAnswerThreshold is the confidence at or above which a full
	// answer with citations is composed. Values between the two
	// thresholds produce a brief answer plus one clarifying question.
	FullAnswerThreshold float64 `toml:"full_answer_threshold"`

	// BucketConfidence is reported for curated topic-bucket answers.
	BucketConfidence float64 `toml:"bucket_confidence"`

	// HandoffConfidence is the floor forced onto responses produced
	// after a generation failure.
	HandoffConfidence float64 `toml:"handoff_confidence"`

	// ExcerptPrefixLen bounds the excerpt stored per index posting.
	ExcerptPrefixLen int `toml:"excerpt_prefix_len"`

	// BriefAnswerLen truncates the cleaned excerpt in brief answers.
	BriefAnswerLen int `toml:"brief_answer_len"`

	// QuoteLen truncates citation quotes.
	QuoteLen int `toml:"quote_len"`

	// ShortAnswerLen is the length under which a full answer is
	// augmented with a sentence from the second candidate.
	ShortAnswerLen int `toml:"short_answer_len"`

	// AugmentLen truncates the second-candidate augmentation.
	AugmentLen int `toml:"augment_len"`

	// MaxCitations caps the citations on a full answer.
	MaxCitations int `toml:"max_citations"`

	// DefaultTopK is the candidate count requested when the caller
	// does not specify one.
	DefaultTopK int `toml:"default_top_k"`
}

// DefaultPolicy returns the standard thresholds.
func DefaultPolicy() Policy {
	return Policy{
		ClarifyThreshold:    0.55,
		FullAnswerThreshold: 0.72,
		BucketConfidence:    0.9,
		HandoffConfidence:   0.1,
		ExcerptPrefixLen:    500,
		BriefAnswerLen:      200,
		QuoteLen:            100,
		ShortAnswerLen:      200,
		AugmentLen:          150,
		MaxCitations:        3,
		DefaultTopK:         5,
	}
}
