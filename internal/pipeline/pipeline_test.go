package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopstream/catalogpipe/internal/config"
	"github.com/shopstream/catalogpipe/internal/embedder"
	"github.com/shopstream/catalogpipe/pkg/types"
)

func testConfig() *config.Config {
	return &config.Config{
		Pipeline: config.PipelineConfig{
			Workers:              4,
			MaxTitleLength:       150,
			MaxDescriptionLength: 500,
			CategorySeparator:    "/",
			BudgetThreshold:      30.0,
			GraphProducts:        3,
		},
		Embedding: config.EmbeddingConfig{Provider: "local"},
		Output:    config.OutputConfig{Dir: "data/output"},
	}
}

func testPipeline() *Pipeline {
	return New(testConfig(), embedder.NewLocalProvider(nil), nil)
}

func TestEnrichKeepsInputOrder(t *testing.T) {
	p := testPipeline()

	raw := make([]types.RawProduct, 50)
	for i := range raw {
		raw[i] = types.RawProduct{
			"product_id": fmt.Sprintf("p%03d", i),
			"title":      fmt.Sprintf("Product %d", i),
		}
	}

	enriched, err := p.Enrich(context.Background(), raw)
	require.NoError(t, err)
	require.Len(t, enriched, 50)
	for i, product := range enriched {
		assert.Equal(t, fmt.Sprintf("p%03d", i), product.ID)
	}
}

func TestEnrichScenario(t *testing.T) {
	p := testPipeline()

	enriched, err := p.Enrich(context.Background(), []types.RawProduct{{
		"product_id":   "p1",
		"title":        "Organic Cotton Slim Jeans",
		"description":  "Comfortable everyday wear",
		"price":        "25.00",
		"category":     "Men > Jeans",
		"availability": "In Stock",
	}})
	require.NoError(t, err)
	require.Len(t, enriched, 1)

	product := enriched[0]
	assert.Equal(t, "men/jeans", product.Category)
	assert.Equal(t, 25.0, product.Price)
	assert.Equal(t, types.AvailabilityInStock, product.Availability)
	assert.Subset(t, product.Features, []string{"organic", "cotton", "slim_fit"})
	assert.Subset(t, product.Intents, []string{"budget_friendly", "eco_friendly", "casual", "comfort"})
	assert.True(t, len(product.AIOptimizedTitle) > 0)
	assert.Contains(t, product.AIOptimizedTitle, "Eco-Friendly")
}

func TestEnrichCancelled(t *testing.T) {
	p := testPipeline()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	raw := make([]types.RawProduct, 10)
	for i := range raw {
		raw[i] = types.RawProduct{"product_id": fmt.Sprintf("p%d", i)}
	}

	_, err := p.Enrich(ctx, raw)
	assert.ErrorIs(t, err, context.Canceled)
}

func writeInputs(t *testing.T, dir string) Inputs {
	t.Helper()

	csvData := "product_id,title,description,price,category,availability,brand\n" +
		"p1,Organic Cotton Slim Jeans,Comfortable everyday wear,25.00,Men > Jeans,In Stock,H&M\n" +
		"p2,Summer Dress,Light and airy,35.00,Women > Dresses,In Stock,\n" +
		"p3,Cozy Hoodie,Warm fleece,45.00,Men > Hoodies,Out of Stock,\n" +
		"p4,Wool Socks,,8.50,Accessories,In Stock,\n"
	schemaData := `{
		"required_fields": {
			"id": "string",
			"title": "string, max 150 chars",
			"price": "float, >0",
			"availability": "enum[in_stock, out_of_stock]"
		},
		"optional_fields": {"image_link": "url"}
	}`
	queriesData := `{"queries": ["affordable dresses under 40", "cozy hoodie"]}`

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	return Inputs{
		ProductsCSV: write("raw_products.csv", csvData),
		SchemaJSON:  write("ai_schema.json", schemaData),
		QueriesJSON: write("ai_queries.json", queriesData),
	}
}

func TestRunEndToEnd(t *testing.T) {
	p := testPipeline()
	in := writeInputs(t, t.TempDir())

	results, err := p.Run(context.Background(), in)
	require.NoError(t, err)

	assert.Len(t, results.EnrichedProducts, 4)
	// Graph covers only the first three products.
	assert.Len(t, results.KnowledgeGraph.Products, 3)
	require.Contains(t, results.QueryResults, "affordable dresses under 40")
	assert.NotEmpty(t, results.QueryResults["affordable dresses under 40"])
	assert.LessOrEqual(t, len(results.QueryResults["cozy hoodie"]), 3)

	assert.NotEmpty(t, results.Stats.RunID)
	assert.Equal(t, 4, results.Stats.Products)
	assert.Equal(t, 2, results.Stats.Queries)
}

func TestRunMissingInput(t *testing.T) {
	p := testPipeline()
	in := writeInputs(t, t.TempDir())
	in.ProductsCSV = filepath.Join(t.TempDir(), "missing.csv")

	_, err := p.Run(context.Background(), in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading products")
}

func TestSaveResults(t *testing.T) {
	p := testPipeline()
	in := writeInputs(t, t.TempDir())

	results, err := p.Run(context.Background(), in)
	require.NoError(t, err)

	outDir := filepath.Join(t.TempDir(), "output")
	require.NoError(t, p.SaveResults(results, outDir))

	for _, name := range []string{EnrichedProductsFile, KnowledgeGraphFile, QueryResultsFile} {
		info, err := os.Stat(filepath.Join(outDir, name))
		require.NoError(t, err, name)
		assert.Positive(t, info.Size(), name)
	}
}
