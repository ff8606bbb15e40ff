// Package features derives discrete product attribute tags from
// normalized text.
package features

import (
	"strings"

	"github.com/shopstream/catalogpipe/pkg/types"
)

// Vocabulary tables. Matching is substring-based, not tokenized: a color
// name embedded in an unrelated word still matches. That is a documented
// quirk of the rule set, kept as observable behavior.
var (
	materials = []string{"cotton", "organic", "denim", "wool"}

	styleMarkers = []struct {
		keyword string
		tag     string
	}{
		{keyword: "slim", tag: "slim_fit"},
		{keyword: "stretch", tag: "stretchy"},
	}

	colors = []string{"white", "blue", "black"}
)

// Extractor derives feature tags from a normalized product.
type Extractor struct{}

// New creates an Extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract returns the feature tags found in the product's title and
// description. Pure and deterministic: same record, same tags in the
// same order (materials, style markers, colors).
func (e *Extractor) Extract(p types.Product) []string {
	text := strings.ToLower(p.Title + " " + p.Description)

	var tags []string
	for _, m := range materials {
		if strings.Contains(text, m) {
			tags = append(tags, m)
		}
	}
	for _, s := range styleMarkers {
		if strings.Contains(text, s.keyword) {
			tags = append(tags, s.tag)
		}
	}
	for _, c := range colors {
		if strings.Contains(text, c) {
			tags = append(tags, c+"_color")
		}
	}

	return tags
}
