// Package graph builds a minimal knowledge graph over enriched products.
package graph

import (
	"go.uber.org/zap"

	"github.com/shopstream/catalogpipe/pkg/types"
)

// Builder constructs the node/edge view of an enriched product set.
type Builder struct {
	log *zap.Logger
}

// New creates a Builder. A nil logger disables logging.
func New(log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{log: log}
}

// Build creates a KnowledgeGraph from enriched products. Records with an
// empty id are skipped silently and never produce nodes or edges. Edges
// are appended in insertion order: per product, one serves_intent edge per
// intent, then at most one belongs_to edge for a non-empty category.
func (b *Builder) Build(products []types.Product) types.KnowledgeGraph {
	g := types.KnowledgeGraph{
		Products:      make(map[string]types.ProductNode),
		Relationships: make([]types.Relationship, 0),
	}

	for _, p := range products {
		if p.ID == "" {
			continue
		}

		g.Products[p.ID] = nodeFor(p)
		g.Relationships = append(g.Relationships, edgesFor(p)...)
	}

	b.log.Info("built knowledge graph",
		zap.Int("products", len(g.Products)),
		zap.Int("relationships", len(g.Relationships)))

	return g
}

// nodeFor summarizes a product. The AI title is preferred; the plain
// title is the fallback for records enriched without content optimization.
func nodeFor(p types.Product) types.ProductNode {
	title := p.AIOptimizedTitle
	if title == "" {
		title = p.Title
	}
	return types.ProductNode{
		Title:    title,
		Category: p.Category,
		Intents:  p.Intents,
		Features: p.Features,
		Price:    p.Price,
	}
}

func edgesFor(p types.Product) []types.Relationship {
	edges := make([]types.Relationship, 0, len(p.Intents)+1)

	for _, intent := range p.Intents {
		edges = append(edges, types.Relationship{
			Type:   types.RelationServesIntent,
			Source: p.ID,
			Target: intent,
		})
	}

	if p.Category != "" {
		edges = append(edges, types.Relationship{
			Type:   types.RelationBelongsTo,
			Source: p.ID,
			Target: p.Category,
		})
	}

	return edges
}
