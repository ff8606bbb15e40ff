package types

import (
	"errors"
	"strings"
)

// Availability values. Normalization maps every input onto exactly one of
// these; ambiguous or missing stock state degrades to AvailabilityOutOfStock.
const (
	AvailabilityInStock    = "in_stock"
	AvailabilityOutOfStock = "out_of_stock"
)

// RawProduct is a product record exactly as read from the source file.
// No field presence is guaranteed: the id may live under "product_id" or
// "id", the image list under "image_urls" (possibly pipe-delimited), and
// brand/category/availability are free-form strings.
type RawProduct map[string]string

// Get returns the value for key, or empty string when absent.
func (r RawProduct) Get(key string) string {
	if r == nil {
		return ""
	}
	return r[key]
}

// Product is a canonical, enriched product record. The normalized fields
// are guaranteed present and well-formed; the AI fields are populated by
// the enrichment stages.
type Product struct {
	ID           string  `json:"id"`
	Brand        string  `json:"brand"`
	Category     string  `json:"category"`
	Price        float64 `json:"price"`
	Availability string  `json:"availability"`
	ImageLink    string  `json:"image_link"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`

	Features []string `json:"features"`
	Intents  []string `json:"intents"`

	AIOptimizedTitle       string `json:"ai_optimized_title"`
	AIOptimizedDescription string `json:"ai_optimized_description"`
	AIOptimizedContent     string `json:"ai_optimized_content"`
}

// Validate checks the normalization invariants. Enrichment never produces
// an invalid Product; this exists for tests and defensive callers.
func (p *Product) Validate() error {
	if p.Price < 0 {
		return ErrNegativePrice
	}
	if p.Availability != AvailabilityInStock && p.Availability != AvailabilityOutOfStock {
		return errors.New("availability must be in_stock or out_of_stock")
	}
	return nil
}

// SearchText returns the text used for embedding and similarity scoring:
// the combined AI content (or the plain title when content is absent)
// followed by the intent and feature tags.
func (p *Product) SearchText() string {
	base := p.AIOptimizedContent
	if base == "" {
		base = p.Title
	}
	parts := make([]string, 0, 3)
	if base != "" {
		parts = append(parts, base)
	}
	if len(p.Intents) > 0 {
		parts = append(parts, strings.Join(p.Intents, " "))
	}
	if len(p.Features) > 0 {
		parts = append(parts, strings.Join(p.Features, " "))
	}
	return strings.Join(parts, " ")
}
