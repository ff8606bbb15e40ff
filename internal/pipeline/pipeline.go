// Package pipeline orchestrates the catalog run: load raw products,
// enrich them concurrently, validate against the schema, build the
// knowledge graph, evaluate the query set and persist all outputs.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shopstream/catalogpipe/internal/config"
	"github.com/shopstream/catalogpipe/internal/content"
	"github.com/shopstream/catalogpipe/internal/embedder"
	"github.com/shopstream/catalogpipe/internal/features"
	"github.com/shopstream/catalogpipe/internal/graph"
	"github.com/shopstream/catalogpipe/internal/intents"
	"github.com/shopstream/catalogpipe/internal/loader"
	"github.com/shopstream/catalogpipe/internal/matcher"
	"github.com/shopstream/catalogpipe/internal/normalizer"
	"github.com/shopstream/catalogpipe/internal/schema"
	"github.com/shopstream/catalogpipe/pkg/types"
)

// Output file names written by SaveResults.
const (
	EnrichedProductsFile = "enriched_products.json"
	KnowledgeGraphFile   = "knowledge_graph.json"
	QueryResultsFile     = "query_results.json"
)

// Inputs names the three input files of a pipeline run.
type Inputs struct {
	ProductsCSV string
	SchemaJSON  string
	QueriesJSON string
}

// Stats summarizes a completed run.
type Stats struct {
	RunID            string `json:"run_id"`
	Products         int    `json:"products"`
	GraphNodes       int    `json:"graph_nodes"`
	Queries          int    `json:"queries"`
	ValidationIssues int    `json:"validation_issues"`
	Elapsed          string `json:"elapsed"`
}

// Results holds every output of a pipeline run.
type Results struct {
	EnrichedProducts []types.Product
	KnowledgeGraph   types.KnowledgeGraph
	QueryResults     map[string][]types.MatchResult
	Stats            Stats
}

// Pipeline wires the enrichment stages together.
type Pipeline struct {
	cfg *config.Config
	log *zap.Logger

	loader     *loader.Loader
	normalizer *normalizer.Normalizer
	features   *features.Extractor
	intents    *intents.Mapper
	optimizer  *content.Optimizer
	graph      *graph.Builder
	matcher    *matcher.Matcher
	validator  *schema.Validator
}

// New creates a Pipeline from configuration and an embedding capability.
// A nil logger disables logging.
func New(cfg *config.Config, emb embedder.Embedder, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		cfg: cfg,
		log: log,

		loader: loader.New(log),
		normalizer: normalizer.New(normalizer.Config{
			MaxTitleLength:       cfg.Pipeline.MaxTitleLength,
			MaxDescriptionLength: cfg.Pipeline.MaxDescriptionLength,
			DefaultPrice:         cfg.Pipeline.DefaultPrice,
			CategorySeparator:    cfg.Pipeline.CategorySeparator,
		}, log),
		features:  features.New(),
		intents:   intents.NewWithThreshold(cfg.Pipeline.BudgetThreshold),
		optimizer: content.New(),
		graph:     graph.New(log),
		matcher:   matcher.New(emb, log),
		validator: schema.NewValidator(log),
	}
}

// Run executes the whole pipeline. Enrichment never fails a run; only
// I/O and embedding failures abort, with no partial results persisted.
func (p *Pipeline) Run(ctx context.Context, in Inputs) (*Results, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := p.log.With(zap.String("run_id", runID))
	log.Info("starting catalog pipeline")

	rawProducts, err := p.loader.LoadProducts(in.ProductsCSV, loader.FormatCSV)
	if err != nil {
		return nil, fmt.Errorf("loading products: %w", err)
	}
	productSchema, err := p.loader.LoadSchema(in.SchemaJSON)
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}
	queries, err := p.loader.LoadQueries(in.QueriesJSON)
	if err != nil {
		return nil, fmt.Errorf("loading queries: %w", err)
	}

	enriched, err := p.Enrich(ctx, rawProducts)
	if err != nil {
		return nil, err
	}
	log.Info("enriched products", zap.Int("count", len(enriched)))

	// Validation issues are reported, never fatal.
	violations := p.validator.ValidateBatch(enriched, productSchema)
	if len(violations) > 0 {
		log.Warn("schema validation issues found",
			zap.Int("products", len(violations)),
			zap.String("summary", schema.Summary(violations)))
	} else {
		log.Info("all products passed schema validation")
	}

	graphInput := enriched
	if len(graphInput) > p.cfg.Pipeline.GraphProducts {
		graphInput = graphInput[:p.cfg.Pipeline.GraphProducts]
	}
	knowledgeGraph := p.graph.Build(graphInput)
	log.Info("built knowledge graph",
		zap.Int("nodes", len(knowledgeGraph.Products)),
		zap.Int("edges", len(knowledgeGraph.Relationships)))

	queryResults := make(map[string][]types.MatchResult, len(queries))
	for _, query := range queries {
		matches, err := p.matcher.Match(ctx, query, enriched)
		if err != nil {
			return nil, fmt.Errorf("matching query %q: %w", query, err)
		}
		queryResults[query] = matches
	}
	log.Info("evaluated queries", zap.Int("count", len(queries)))

	results := &Results{
		EnrichedProducts: enriched,
		KnowledgeGraph:   knowledgeGraph,
		QueryResults:     queryResults,
		Stats: Stats{
			RunID:            runID,
			Products:         len(enriched),
			GraphNodes:       len(knowledgeGraph.Products),
			Queries:          len(queries),
			ValidationIssues: len(violations),
			Elapsed:          time.Since(start).String(),
		},
	}

	log.Info("pipeline completed",
		zap.Int("products", results.Stats.Products),
		zap.String("elapsed", results.Stats.Elapsed))
	return results, nil
}

// Enrich runs every raw record through normalize, feature extraction,
// intent mapping and content optimization. Records are independent, so
// the work fans out across a bounded worker group; output order matches
// input order.
func (p *Pipeline) Enrich(ctx context.Context, raw []types.RawProduct) ([]types.Product, error) {
	enriched := make([]types.Product, len(raw))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Pipeline.Workers)

	for i := range raw {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			enriched[i] = p.enrichOne(raw[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("enriching products: %w", err)
	}

	return enriched, nil
}

// enrichOne is the per-record enrichment chain. Every stage is total:
// malformed fields degrade to defaults instead of failing the batch.
func (p *Pipeline) enrichOne(raw types.RawProduct) types.Product {
	product := p.normalizer.Normalize(raw)
	product.Features = p.features.Extract(product)
	product.Intents = p.intents.Extract(product)
	return p.optimizer.Optimize(product)
}

// SaveResults writes the run outputs as pretty-printed JSON under dir.
func (p *Pipeline) SaveResults(results *Results, dir string) error {
	if err := p.loader.SaveJSON(results.EnrichedProducts, filepath.Join(dir, EnrichedProductsFile)); err != nil {
		return err
	}
	if err := p.loader.SaveJSON(results.KnowledgeGraph, filepath.Join(dir, KnowledgeGraphFile)); err != nil {
		return err
	}
	if err := p.loader.SaveJSON(results.QueryResults, filepath.Join(dir, QueryResultsFile)); err != nil {
		return err
	}
	p.log.Info("results saved", zap.String("dir", dir))
	return nil
}
