// Package matcher ranks enriched products against free-text shopper
// queries. Ranking blends cosine similarity over text embeddings with
// additive rule-based boosts, and every result carries a human-readable
// reason generated from its own rule set.
package matcher

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/shopstream/catalogpipe/internal/embedder"
	"github.com/shopstream/catalogpipe/pkg/types"
)

// Scoring parameters.
const (
	// TopK is the fixed number of results returned per query.
	TopK = 3

	// PriceBoost is added when the query names a price ceiling the
	// product satisfies.
	PriceBoost = 0.2

	// IntentBoost is added once per intent appearing in the query.
	IntentBoost = 0.1

	// FeatureBoost is added once per feature appearing in the query.
	FeatureBoost = 0.05

	// strongMatchThreshold is the similarity above which the reason
	// calls the match strong.
	strongMatchThreshold = 0.5

	// priceReasonThreshold is the fixed price bound used by the reason
	// generator. It is intentionally independent of the parsed ceiling
	// used for the numeric boost, so boost and reason can disagree.
	priceReasonThreshold = 50.0

	// DefaultProductCacheSize bounds the per-product embedding cache.
	DefaultProductCacheSize = 1024
)

var digitRunRe = regexp.MustCompile(`\d+`)

// cachedEmbedding pairs a product-text vector with the content hash it
// was computed from, so stale entries are detected after re-enrichment.
type cachedEmbedding struct {
	hash string
	vec  []float32
}

// Matcher scores and ranks products for discovery queries.
type Matcher struct {
	emb embedder.Embedder
	log *zap.Logger

	// products caches search-text embeddings keyed by product id, so a
	// product encoded for one query is not re-encoded for the next.
	products *lru.Cache[string, cachedEmbedding]
}

// New creates a Matcher on top of the given embedding capability.
// A nil logger disables logging.
func New(emb embedder.Embedder, log *zap.Logger) *Matcher {
	if log == nil {
		log = zap.NewNop()
	}
	cache, _ := lru.New[string, cachedEmbedding](DefaultProductCacheSize)
	return &Matcher{emb: emb, log: log, products: cache}
}

// Match returns the top-ranked products for query, at most TopK, sorted
// by descending score with ties keeping input order. An empty product
// list yields an empty result without error; an empty query is an error.
func (m *Matcher) Match(ctx context.Context, query string, products []types.Product) ([]types.MatchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, types.ErrEmptyQuery
	}
	if len(products) == 0 {
		return []types.MatchResult{}, nil
	}

	queryVec, prodVecs, err := m.embedAll(ctx, query, products)
	if err != nil {
		return nil, err
	}

	lowerQuery := strings.ToLower(query)
	results := make([]types.MatchResult, 0, len(products))
	for i := range products {
		p := &products[i]

		// Products with no searchable text degrade to zero similarity
		// instead of failing the whole query.
		similarity := 0.0
		if prodVecs[i] != nil {
			similarity = cosine(queryVec, prodVecs[i])
		}

		results = append(results, types.MatchResult{
			ProductID:   p.ID,
			Description: description(p),
			Score:       similarity + boost(lowerQuery, p),
			Reason:      reason(lowerQuery, p, similarity),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > TopK {
		results = results[:TopK]
	}

	m.log.Debug("query matched",
		zap.String("query", query),
		zap.Int("candidates", len(products)),
		zap.Int("results", len(results)))

	return results, nil
}

// embedAll returns the query vector and one vector per product, nil for
// products with empty search text. Each distinct uncached text is sent
// to the provider exactly once.
func (m *Matcher) embedAll(ctx context.Context, query string, products []types.Product) ([]float32, [][]float32, error) {
	texts := []string{query}
	batchIdx := make(map[string]int, len(products))

	vecs := make([][]float32, len(products))
	hashes := make([]string, len(products))
	want := make([]int, len(products))

	for i := range products {
		want[i] = -1
		text := strings.TrimSpace(products[i].SearchText())
		if text == "" {
			continue
		}
		hashes[i] = embedder.HashText(text)

		if entry, ok := m.products.Get(products[i].ID); ok && entry.hash == hashes[i] {
			vecs[i] = entry.vec
			continue
		}

		idx, ok := batchIdx[text]
		if !ok {
			idx = len(texts)
			texts = append(texts, text)
			batchIdx[text] = idx
		}
		want[i] = idx
	}

	encoded, err := m.encodeChunked(ctx, texts)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding query batch: %w", err)
	}

	for i := range products {
		if want[i] < 0 {
			continue
		}
		vecs[i] = encoded[want[i]]
		if products[i].ID != "" {
			m.products.Add(products[i].ID, cachedEmbedding{hash: hashes[i], vec: vecs[i]})
		}
	}

	return encoded[0], vecs, nil
}

// encodeChunked splits texts into provider-sized batches.
func (m *Matcher) encodeChunked(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += embedder.MaxBatchSize {
		end := start + embedder.MaxBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		vecs, err := m.emb.EncodeBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	return out, nil
}

// description picks the text shown alongside a result.
func description(p *types.Product) string {
	if p.AIOptimizedContent != "" {
		return p.AIOptimizedContent
	}
	return p.Title
}

// boost computes the additive rule-based score adjustment.
func boost(lowerQuery string, p *types.Product) float64 {
	b := priceBoost(lowerQuery, p.Price)
	for _, intent := range p.Intents {
		if strings.Contains(lowerQuery, tagText(intent)) {
			b += IntentBoost
		}
	}
	for _, feature := range p.Features {
		if strings.Contains(lowerQuery, tagText(feature)) {
			b += FeatureBoost
		}
	}
	return b
}

// priceBoost fires when the query asks for a ceiling ("under ..." or
// "below ...") whose first digit run the product's price satisfies.
// Absent or unparseable digits contribute nothing.
func priceBoost(lowerQuery string, price float64) float64 {
	if !strings.Contains(lowerQuery, "under") && !strings.Contains(lowerQuery, "below") {
		return 0
	}
	digits := digitRunRe.FindString(lowerQuery)
	if digits == "" {
		return 0
	}
	ceiling, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	if price <= float64(ceiling) {
		return PriceBoost
	}
	return 0
}

// reason builds the match explanation. Its rules run independently of
// the boost arithmetic: the price note keys on the literal "under" and a
// fixed $50 bound, not on the parsed ceiling, so the two can disagree.
func reason(lowerQuery string, p *types.Product, similarity float64) string {
	var parts []string
	if similarity > strongMatchThreshold {
		parts = append(parts, "Strong semantic match")
	}
	if strings.Contains(lowerQuery, "under") && p.Price < priceReasonThreshold {
		parts = append(parts, fmt.Sprintf("Price in range ($%s)", formatPrice(p.Price)))
	}
	for _, feature := range p.Features {
		if readable := tagText(feature); strings.Contains(lowerQuery, readable) {
			parts = append(parts, "Has "+readable)
		}
	}
	if len(parts) == 0 {
		return "Partial match"
	}
	return strings.Join(parts, ". ")
}

// tagText renders an intent or feature tag the way it would appear in a
// query: underscores become spaces.
func tagText(tag string) string {
	return strings.ReplaceAll(tag, "_", " ")
}

// formatPrice renders a price with a trailing .0 on integral values, so
// 35 reads as "35.0" and 35.5 as "35.5".
func formatPrice(price float64) string {
	s := strconv.FormatFloat(price, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// cosine computes cosine similarity with float64 accumulation. Zero-norm
// or mismatched vectors score zero.
func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		av, bv := float64(a[i]), float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
