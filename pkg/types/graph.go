package types

// Relationship edge types.
const (
	RelationServesIntent = "serves_intent"
	RelationBelongsTo    = "belongs_to"
)

// ProductNode is the summary of a product stored in the knowledge graph.
type ProductNode struct {
	Title    string   `json:"title"`
	Category string   `json:"category"`
	Intents  []string `json:"intents"`
	Features []string `json:"features"`
	Price    float64  `json:"price"`
}

// Relationship is a directed edge from a product to an intent tag or a
// category. Source always references a key of KnowledgeGraph.Products.
type Relationship struct {
	Type   string `json:"type"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// KnowledgeGraph is the node/edge view over a set of enriched products.
// Immutable once built; products with empty ids never appear.
type KnowledgeGraph struct {
	Products      map[string]ProductNode `json:"products"`
	Relationships []Relationship         `json:"relationships"`
}

// Validate verifies the edge invariant: every relationship source must be
// a known product node.
func (g *KnowledgeGraph) Validate() error {
	for _, rel := range g.Relationships {
		if _, ok := g.Products[rel.Source]; !ok {
			return ErrDanglingEdge
		}
	}
	return nil
}
