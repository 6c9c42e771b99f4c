package domain

import (
	"fmt"
	"strings"
)

// TopicBucket is a curated answer for a well-known topic. Bucket answers
// outrank noisy lexical matches because the domain vocabulary is known
// in advance.
type TopicBucket struct {
	// Name identifies the bucket (features, pricing, ecommerce, integrations).
	Name string `toml:"name"`

	// Keywords trigger the bucket when any appears in the query.
	Keywords []string `toml:"keywords"`

	// Reply is the curated answer text.
	Reply string `toml:"reply"`

	// CollectLead marks buckets (pricing) that capture a sales lead.
	CollectLead bool `toml:"collect_lead"`
}

// Catalog holds the product-specific conversational content: canned
// replies, topic buckets, trigger vocabularies, and citation fixups.
// Everything here is data, not behavior, so deployments can override
// it from configuration.
type Catalog struct {
	// ProductName is the product the corpus documents.
	ProductName string `toml:"product_name"`

	// Greetings are exact conversational openers (compared after
	// lowercasing and trimming) that bypass retrieval.
	Greetings []string `toml:"greetings"`

	// GreetingReply answers a greeting.
	GreetingReply string `toml:"greeting_reply"`

	// OverviewTriggers are literal "what is <product>" patterns that
	// bypass retrieval.
	OverviewTriggers []string `toml:"overview_triggers"`

	// OverviewReply answers the product-overview question.
	OverviewReply string `toml:"overview_reply"`

	// Buckets are the topic shortcuts, consulted in order.
	Buckets []TopicBucket `toml:"buckets"`

	// LeadTriggers mark queries with purchase intent.
	LeadTriggers []string `toml:"lead_triggers"`

	// LeadFields are collected by the collect_lead action.
	LeadFields []string `toml:"lead_fields"`

	// LeadCTA is appended to lead-capture answers.
	LeadCTA string `toml:"lead_cta"`

	// LowConfidenceReply is the clarifying question asked below the
	// clarify threshold.
	LowConfidenceReply string `toml:"low_confidence_reply"`

	// NoCandidatesReply is the generic prompt when retrieval found nothing.
	NoCandidatesReply string `toml:"no_candidates_reply"`

	// BriefFollowUp is the single clarifying question appended to
	// mid-confidence brief answers.
	BriefFollowUp string `toml:"brief_follow_up"`

	// ApologyReply is returned with a handoff after a generation failure.
	ApologyReply string `toml:"apology_reply"`

	// Vocabulary is the informative-word set used by the excerpt cleaner
	// to decide whether a sentence carries substance.
	Vocabulary []string `toml:"vocabulary"`

	// TitleFixups rewrites known-bad source casings in citation titles,
	// applied in order.
	TitleFixups []TitleFixup `toml:"title_fixups"`
}

// TitleFixup rewrites one known-bad source casing.
type TitleFixup struct {
	From string `toml:"from"`
	To   string `toml:"to"`
}

// FixTitle applies the catalog's title fixups to a citation title.
func (c *Catalog) FixTitle(title string) string {
	for _, f := range c.TitleFixups {
		title = strings.ReplaceAll(title, f.From, f.To)
	}
	return title
}

// DefaultCatalog builds the standard catalog for a product name.
func DefaultCatalog(product string) Catalog {
	lower := strings.ToLower(product)
	compact := strings.ReplaceAll(lower, " ", "")

	overviewTriggers := []string{"what is " + lower}
	if compact != lower {
		overviewTriggers = append(overviewTriggers, "what is "+compact)
	}

	// Scraped page titles often carry the product name with only the
	// first letter capitalized; rewrite it back to the proper casing.
	var fixups []TitleFixup
	if sentence := sentenceCase(product); sentence != product {
		fixups = append(fixups, TitleFixup{From: sentence, To: product})
	}

	return Catalog{
		ProductName: product,
		Greetings: []string{
			"hello", "hi", "hey",
			"how are you", "how are you?",
			"good morning", "good afternoon",
		},
		GreetingReply: fmt.Sprintf(
			"Hello! I'm the %[1]s assistant. I can help you learn about %[1]s's digital commerce platform, including e-commerce features, content management, integrations, pricing, and more. What would you like to know about %[1]s?",
			product),
		OverviewTriggers: overviewTriggers,
		OverviewReply: fmt.Sprintf(
			"%[1]s is a comprehensive digital commerce platform that enables businesses to create exceptional customer experiences. The platform combines e-commerce capabilities, content management, customer engagement tools, and seamless integrations to help businesses grow their online presence and sales. %[1]s serves businesses of all sizes with flexible, scalable solutions for modern digital commerce.",
			product),
		Buckets: []TopicBucket{
			{
				Name:     "features",
				Keywords: []string{"feature", "capability", "function", "what does", "what can"},
				Reply: fmt.Sprintf(
					"%s offers a comprehensive suite of digital commerce features including: an e-commerce platform with advanced shopping cart functionality, a content management system, customer engagement tools, payment gateway integrations, inventory management, order processing, analytics and reporting, multi-channel selling capabilities, and seamless third-party integrations. The platform is designed to help businesses of all sizes create exceptional online customer experiences.",
					product),
			},
			{
				Name:        "pricing",
				Keywords:    []string{"price", "cost", "pricing", "plan", "subscription"},
				CollectLead: true,
				Reply: fmt.Sprintf(
					"%[1]s offers flexible pricing plans designed to accommodate businesses of all sizes. The platform provides scalable solutions with various pricing tiers based on your specific needs, transaction volume, and required features. For detailed pricing information and a custom quote tailored to your business requirements, I recommend contacting %[1]s's sales team directly.",
					product),
			},
			{
				Name:     "ecommerce",
				Keywords: []string{"ecommerce", "e-commerce", "online store", "shop", "selling"},
				Reply: fmt.Sprintf(
					"%s provides a powerful e-commerce platform that includes advanced shopping cart functionality, secure payment processing, inventory management, order tracking, customer account management, and multi-channel selling capabilities. The platform supports various payment gateways, offers flexible product catalog management, and provides comprehensive analytics to help businesses optimize their online sales performance.",
					product),
			},
			{
				Name:     "integrations",
				Keywords: []string{"integration", "connect", "api", "third party"},
				Reply: fmt.Sprintf(
					"%s offers extensive integration capabilities with over 100 third-party applications and services. The platform provides APIs for custom integrations and supports connections with popular CRM systems, marketing tools, payment gateways, shipping providers, analytics platforms, and accounting software. This allows businesses to create a seamless ecosystem that connects all their essential business tools.",
					product),
			},
		},
		LeadTriggers: []string{
			"demo", "quote", "pricing", "contact",
			"sales", "budget", "timeline", "implementation",
		},
		LeadFields: []string{"name", "email", "company", "use_case"},
		LeadCTA: fmt.Sprintf(
			" To discuss your specific needs and arrange a demo, I'd like to connect you with the %s team.",
			product),
		LowConfidenceReply: fmt.Sprintf(
			"I don't have sufficient information about that topic in my %s knowledge base. Could you be more specific about what aspect of the platform you're interested in?",
			product),
		NoCandidatesReply: fmt.Sprintf(
			"Let me help you learn about %s. You can ask me about e-commerce features, content management, pricing plans, integrations, or specific platform capabilities. What interests you most?",
			product),
		BriefFollowUp: " Would you like more specific information about any particular aspect?",
		ApologyReply: fmt.Sprintf(
			"I'm sorry, I ran into a problem while composing that answer. Let me connect you with a member of the %s team who can help.",
			product),
		Vocabulary: []string{
			"provides", "offers", "enables", "helps", "allows", "supports",
			"platform", "solution", "business", "customer", "ecommerce",
			"commerce", "management", "integration", "feature",
		},
		TitleFixups: fixups,
	}
}

// sentenceCase lowercases s except for its first letter.
func sentenceCase(s string) string {
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
