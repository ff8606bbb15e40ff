// Package intents maps product attributes to inferred shopper intent tags.
//
// Three independent sources contribute tags: free text keywords, price
// thresholds, and category keywords. The union is sorted lexicographically
// so extraction is deterministic and order-independent.
package intents

import (
	"sort"
	"strings"

	"github.com/shopstream/catalogpipe/pkg/types"
)

// DefaultBudgetThreshold is the exclusive upper bound for the
// budget_friendly price intent.
const DefaultBudgetThreshold = 30.0

// textRule maps an intent tag to trigger keywords. The intent fires when
// any keyword appears as a substring of the combined title+description.
type textRule struct {
	intent   string
	keywords []string
}

var textRules = []textRule{
	{intent: "affordable", keywords: []string{"cheap", "budget", "value", "affordable", "under"}},
	{intent: "summer", keywords: []string{"summer", "light", "breathable", "cotton", "warm weather"}},
	{intent: "eco_friendly", keywords: []string{"organic", "eco", "sustainable", "green"}},
	{intent: "casual", keywords: []string{"casual", "everyday", "basic", "comfortable", "daily"}},
	{intent: "comfort", keywords: []string{"comfortable", "soft", "cozy", "warm", "stretch"}},
}

// categoryRule maps a category keyword to an intent tag. First match wins;
// in the base rule set the keywords are disjoint strings so at most one
// can fire.
type categoryRule struct {
	keyword string
	intent  string
}

var categoryRules = []categoryRule{
	{keyword: "dress", intent: "dress_shopping"},
	{keyword: "hoodie", intent: "cozy_wear"},
}

// Mapper derives intent tags from a normalized product.
type Mapper struct {
	budgetThreshold float64
}

// New creates a Mapper with the default budget threshold.
func New() *Mapper {
	return &Mapper{budgetThreshold: DefaultBudgetThreshold}
}

// NewWithThreshold creates a Mapper with a custom budget threshold.
func NewWithThreshold(budgetThreshold float64) *Mapper {
	if budgetThreshold <= 0 {
		budgetThreshold = DefaultBudgetThreshold
	}
	return &Mapper{budgetThreshold: budgetThreshold}
}

// Extract returns the sorted, deduplicated union of text, price and
// category intents. Pure and total.
func (m *Mapper) Extract(p types.Product) []string {
	seen := make(map[string]struct{})

	text := strings.ToLower(p.Title + " " + p.Description)
	for _, rule := range textRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				seen[rule.intent] = struct{}{}
				break
			}
		}
	}

	// Price exactly 0 means "unknown/default", not "free", so the strict
	// lower bound keeps it from firing.
	if p.Price > 0 && p.Price < m.budgetThreshold {
		seen["budget_friendly"] = struct{}{}
	}

	category := strings.ToLower(p.Category)
	for _, rule := range categoryRules {
		if strings.Contains(category, rule.keyword) {
			seen[rule.intent] = struct{}{}
			break
		}
	}

	out := make([]string, 0, len(seen))
	for intent := range seen {
		out = append(out, intent)
	}
	sort.Strings(out)
	return out
}
