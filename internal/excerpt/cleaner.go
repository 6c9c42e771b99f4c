// Package excerpt turns raw scraped excerpts into compact, citation-ready
// strings. Cleaning never fails: when nothing informative survives the
// stripping passes, the cleaner degrades through fixed fallbacks.
package excerpt

import (
	"regexp"
	"strings"
)

// Default length caps. Tests pin boundary behavior, so changes here are
// behavioral changes.
const (
	// DefaultMinSentenceLen is the minimum length for a useful sentence.
	DefaultMinSentenceLen = 30

	// DefaultMaxSentences caps the sentences kept in a cleaned excerpt.
	DefaultMaxSentences = 3

	// DefaultDescriptionLimit truncates the Description-section fallback.
	DefaultDescriptionLimit = 300

	// DefaultMinParagraphLen qualifies a paragraph for the paragraph fallback.
	DefaultMinParagraphLen = 50

	// DefaultRawLimit truncates the final raw-prefix fallback.
	DefaultRawLimit = 200
)

// Options configures a Cleaner. Zero values take the package defaults.
type Options struct {
	// MinSentenceLen is the minimum length for a useful sentence.
	MinSentenceLen int

	// MaxSentences caps the number of useful sentences kept.
	MaxSentences int

	// DescriptionLimit truncates the Description-section fallback.
	DescriptionLimit int

	// MinParagraphLen qualifies a paragraph for the paragraph fallback.
	MinParagraphLen int

	// RawLimit truncates the final raw-prefix fallback.
	RawLimit int

	// Vocabulary is the informative-word set; a sentence must contain one
	// of these to count as useful.
	Vocabulary []string

	// BoilerplateName is a site name whose header lines and trailing
	// mentions are treated as repeated boilerplate (e.g. the product name
	// as it appears in scraped section headers).
	BoilerplateName string
}

// Cleaner normalizes raw document excerpts.
type Cleaner struct {
	opts Options

	// Per-instance patterns that depend on BoilerplateName.
	nameHeaderLine *regexp.Regexp
	nameSuffix     string
}

// Structural patterns shared by all cleaners. Removal order matters:
// metadata blocks first, then list markers, then whitespace collapse,
// so no orphaned punctuation is left behind.
var (
	pageTitleBlock   = regexp.MustCompile(`(?s)Page Title:.*?\n\n`)
	keySectionsBlock = regexp.MustCompile(`(?s)Key Sections:.*?\n\n`)
	contentLabel     = regexp.MustCompile(`(?m)Content:\s*`)
	onThisPageLine   = regexp.MustCompile(`(?m)On this page:.*\n?`)

	bulletPrefix = regexp.MustCompile(`(?m)^\s*[-•*]\s*`)
	numberPrefix = regexp.MustCompile(`(?m)^\s*\d+\.\s*`)

	implementationTail = regexp.MustCompile(`(?s)Implementation Example.*$`)
	useCaseBlock       = regexp.MustCompile(`(?s)Practical Use Case:.*?(\n[A-Z]|\n\n|$)`)

	tripleNewlines = regexp.MustCompile(`\n\s*\n\s*\n+`)
	spaceRuns      = regexp.MustCompile(`[ \t]+`)

	sentenceSplit    = regexp.MustCompile(`[.!?]+`)
	allCapsHeading   = regexp.MustCompile(`^[A-Z\s]+$`)
	descriptionBlock = regexp.MustCompile(`(?is)Description\s+(.*?)(\n[A-Z]|\n\n|$)`)
)

// Boilerplate labels that disqualify a sentence even when long enough.
var boilerplatePrefixes = []string{
	"Page Title", "Key Sections", "On this page",
	"Implementation Example", "No FAQ",
}

// New creates a cleaner with the given options, filling defaults.
func New(opts Options) *Cleaner {
	if opts.MinSentenceLen <= 0 {
		opts.MinSentenceLen = DefaultMinSentenceLen
	}
	if opts.MaxSentences <= 0 {
		opts.MaxSentences = DefaultMaxSentences
	}
	if opts.DescriptionLimit <= 0 {
		opts.DescriptionLimit = DefaultDescriptionLimit
	}
	if opts.MinParagraphLen <= 0 {
		opts.MinParagraphLen = DefaultMinParagraphLen
	}
	if opts.RawLimit <= 0 {
		opts.RawLimit = DefaultRawLimit
	}

	c := &Cleaner{opts: opts}
	if opts.BoilerplateName != "" {
		c.nameHeaderLine = regexp.MustCompile(`(?im)^` + regexp.QuoteMeta(opts.BoilerplateName) + `[^\n]*\n`)
		c.nameSuffix = strings.ToLower(opts.BoilerplateName)
	}
	return c
}

// Clean normalizes a raw excerpt into a short, informative string.
// Non-empty input always yields non-empty output.
func (c *Cleaner) Clean(raw string) string {
	if raw == "" {
		return ""
	}

	content := c.strip(raw)

	if useful := c.usefulSentences(content); len(useful) > 0 {
		result := strings.Join(useful, ". ")
		if !strings.HasSuffix(result, ".") {
			result += "."
		}
		return result
	}

	// Fallback chain: Description section, first substantial paragraph,
	// then the raw prefix.
	if m := descriptionBlock.FindStringSubmatch(content); len(m) > 1 {
		if desc := strings.TrimSpace(m[1]); desc != "" {
			return truncate(desc, c.opts.DescriptionLimit)
		}
	}

	for _, p := range strings.Split(content, "\n\n") {
		p = strings.TrimSpace(p)
		if len(p) > c.opts.MinParagraphLen {
			return truncate(p, c.opts.DescriptionLimit)
		}
	}

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		trimmed = strings.TrimSpace(raw)
	}
	return truncate(trimmed, c.opts.RawLimit)
}

// strip removes metadata blocks, list markers, and known boilerplate,
// then collapses whitespace. Paragraph breaks survive so the paragraph
// fallback still has something to split on.
func (c *Cleaner) strip(content string) string {
	content = pageTitleBlock.ReplaceAllString(content, "")
	content = keySectionsBlock.ReplaceAllString(content, "")
	content = contentLabel.ReplaceAllString(content, "")
	content = onThisPageLine.ReplaceAllString(content, "")

	content = bulletPrefix.ReplaceAllString(content, "")
	content = numberPrefix.ReplaceAllString(content, "")

	if c.nameHeaderLine != nil {
		content = c.nameHeaderLine.ReplaceAllString(content, "")
	}
	content = implementationTail.ReplaceAllString(content, "")
	content = useCaseBlock.ReplaceAllString(content, "$1")

	content = tripleNewlines.ReplaceAllString(content, "\n\n")
	content = spaceRuns.ReplaceAllString(content, " ")

	return content
}

// usefulSentences returns up to MaxSentences informative sentences from
// the stripped content, in document order.
func (c *Cleaner) usefulSentences(content string) []string {
	var useful []string
	for _, s := range sentenceSplit.Split(content, -1) {
		s = strings.TrimSpace(s)
		if !c.isUseful(s) {
			continue
		}
		useful = append(useful, s)
		if len(useful) >= c.opts.MaxSentences {
			break
		}
	}
	return useful
}

// isUseful reports whether a sentence is substantial and informative.
func (c *Cleaner) isUseful(s string) bool {
	if len(s) <= c.opts.MinSentenceLen {
		return false
	}
	if allCapsHeading.MatchString(s) {
		return false
	}
	for _, prefix := range boilerplatePrefixes {
		if strings.HasPrefix(s, prefix) {
			return false
		}
	}
	lower := strings.ToLower(s)
	if c.nameSuffix != "" && strings.HasSuffix(lower, c.nameSuffix) {
		return false
	}
	for _, word := range c.opts.Vocabulary {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// truncate shortens s to at most limit runes, marking the cut with an
// ellipsis. Strings within the limit pass through unchanged.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// Truncate is the exported truncation helper used when composing brief
// answers and citation quotes.
func Truncate(s string, limit int) string {
	return truncate(s, limit)
}
