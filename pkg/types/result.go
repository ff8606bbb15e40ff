package types

// MatchResult is a single ranked answer to a discovery query.
type MatchResult struct {
	ProductID string `json:"product_id"`

	// Description carries the product's combined AI content, or its plain
	// title when no content was generated.
	Description string `json:"description"`

	// Score is unit-less and additive: cosine similarity plus rule-based
	// boosts. Unbounded above roughly 1.2 in practice.
	Score float64 `json:"score"`

	// Reason is a non-empty human-readable explanation. It is generated
	// independently of the boost arithmetic and may disagree with it.
	Reason string `json:"reason"`
}

// Validate checks structural invariants of a match result.
func (m *MatchResult) Validate() error {
	if m.Reason == "" {
		return ErrEmptyReason
	}
	return nil
}
