// Package content synthesizes AI-facing title, description and combined
// searchable text from a normalized, tagged product.
package content

import (
	"strings"

	"github.com/shopstream/catalogpipe/internal/normalizer"
	"github.com/shopstream/catalogpipe/pkg/types"
)

// Caps applied after assembly. Assembly can push a short source title past
// the limit, so truncation happens last.
const (
	MaxTitleLength       = 150
	MaxDescriptionLength = 500
)

// Description assembly limits.
const (
	maxIntentsInDescription  = 2
	maxFeaturesInDescription = 3
)

// audienceRule pairs a category keyword with the audience it implies.
// Rules are evaluated in order and the first match wins, which makes the
// result deterministic even for a category matching several keywords.
type audienceRule struct {
	keyword  string
	audience string
}

var audienceRules = []audienceRule{
	{keyword: "women", audience: "Women"},
	{keyword: "men", audience: "Men"},
	{keyword: "kids", audience: "Kids"},
}

// Optimizer populates the AI content fields of an enriched product.
type Optimizer struct{}

// New creates an Optimizer.
func New() *Optimizer {
	return &Optimizer{}
}

// Optimize fills AIOptimizedTitle, AIOptimizedDescription and
// AIOptimizedContent. Features and intents must already be present; the
// function is pure given its inputs.
func (o *Optimizer) Optimize(p types.Product) types.Product {
	p.AIOptimizedTitle = o.buildTitle(p)
	p.AIOptimizedDescription = o.buildDescription(p)
	p.AIOptimizedContent = strings.TrimSpace(p.AIOptimizedTitle + ". " + p.AIOptimizedDescription)
	return p
}

func (o *Optimizer) buildTitle(p types.Product) string {
	var parts []string

	if containsTag(p.Features, "organic") {
		parts = append(parts, "Eco-Friendly")
	}
	if p.Brand != "" {
		parts = append(parts, p.Brand)
	}
	if audience := audienceFor(p.Category); audience != "" {
		parts = append(parts, audience)
	}
	if p.Title != "" {
		parts = append(parts, p.Title)
	}

	title := strings.TrimSpace(strings.Join(parts, " "))
	return normalizer.Truncate(title, MaxTitleLength)
}

func (o *Optimizer) buildDescription(p types.Product) string {
	var parts []string

	if p.Description != "" {
		parts = append(parts, p.Description)
	}
	if len(p.Intents) > 0 {
		parts = append(parts, "Perfect for "+readable(p.Intents, maxIntentsInDescription))
	}
	if len(p.Features) > 0 {
		parts = append(parts, "Features: "+readable(p.Features, maxFeaturesInDescription))
	}

	desc := strings.TrimSpace(strings.Join(parts, ". "))
	return normalizer.Truncate(desc, MaxDescriptionLength)
}

// audienceFor resolves the target audience from a category path.
func audienceFor(category string) string {
	lower := strings.ToLower(category)
	for _, rule := range audienceRules {
		if strings.Contains(lower, rule.keyword) {
			return rule.audience
		}
	}
	return ""
}

// readable renders up to limit tags with underscores replaced by spaces,
// comma-joined.
func readable(tags []string, limit int) string {
	if len(tags) > limit {
		tags = tags[:limit]
	}
	out := make([]string, len(tags))
	for i, tag := range tags {
		out[i] = strings.ReplaceAll(tag, "_", " ")
	}
	return strings.Join(out, ", ")
}

func containsTag(tags []string, want string) bool {
	for _, tag := range tags {
		if tag == want {
			return true
		}
	}
	return false
}
