package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/shopstream/catalogpipe/internal/config"
	"github.com/shopstream/catalogpipe/internal/embedder"
	"github.com/shopstream/catalogpipe/internal/logging"
	"github.com/shopstream/catalogpipe/internal/matcher"
	"github.com/shopstream/catalogpipe/internal/mcpserver"
	"github.com/shopstream/catalogpipe/internal/pipeline"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var (
		inputCSV    = flag.String("input", "data/input/raw_products.csv", "path to raw product CSV")
		schemaJSON  = flag.String("schema", "data/input/ai_schema.json", "path to schema JSON")
		queriesJSON = flag.String("queries", "data/input/ai_queries.json", "path to queries JSON")
		outDir      = flag.String("out", "", "output directory (overrides config)")
		serve       = flag.Bool("serve", false, "serve the enriched catalog over MCP stdio after the run")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("catalogpipe\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		os.Exit(0)
	}

	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}

	log := logging.New(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()

	emb, err := embedder.New(embedder.Config{
		Provider:  cfg.Embedding.Provider,
		Model:     cfg.Embedding.Model,
		APIKey:    apiKey(cfg),
		CacheSize: cfg.Embedding.CacheSize,
	})
	if err != nil {
		log.Fatal("failed to create embedder", zap.Error(err))
	}
	defer func() { _ = emb.Close() }()
	log.Info("embedder ready",
		zap.String("provider", emb.Provider()),
		zap.String("model", emb.Model()),
		zap.Int("dimension", emb.Dimension()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := pipeline.New(cfg, emb, log)
	results, err := p.Run(ctx, pipeline.Inputs{
		ProductsCSV: *inputCSV,
		SchemaJSON:  *schemaJSON,
		QueriesJSON: *queriesJSON,
	})
	if err != nil {
		log.Fatal("pipeline failed", zap.Error(err))
	}

	if err := p.SaveResults(results, cfg.Output.Dir); err != nil {
		log.Fatal("failed to save results", zap.Error(err))
	}

	printSummary(log, results, cfg.Output.Dir)

	if *serve {
		srv := mcpserver.NewServer(results.EnrichedProducts, results.KnowledgeGraph,
			matcher.New(emb, log), log)
		log.Info("MCP server ready, listening on stdio")
		if err := srv.Serve(ctx); err != nil {
			log.Fatal("MCP server error", zap.Error(err))
		}
	}
}

// apiKey resolves the provider key from config, falling back to the
// provider's conventional environment variable.
func apiKey(cfg *config.Config) string {
	if cfg.Embedding.APIKey != "" {
		return cfg.Embedding.APIKey
	}
	switch cfg.Embedding.Provider {
	case embedder.ProviderOpenAI:
		return os.Getenv(embedder.EnvOpenAIAPIKey)
	case embedder.ProviderJina:
		return os.Getenv(embedder.EnvJinaAPIKey)
	}
	return ""
}

func printSummary(log *zap.Logger, results *pipeline.Results, outDir string) {
	log.Info("pipeline summary",
		zap.String("run_id", results.Stats.RunID),
		zap.Int("products", results.Stats.Products),
		zap.Int("graph_nodes", results.Stats.GraphNodes),
		zap.Int("queries", results.Stats.Queries),
		zap.Int("validation_issues", results.Stats.ValidationIssues),
		zap.String("elapsed", results.Stats.Elapsed),
		zap.String("output_dir", outDir))

	// Show one sample query result, picked deterministically.
	queries := make([]string, 0, len(results.QueryResults))
	for q := range results.QueryResults {
		queries = append(queries, q)
	}
	sort.Strings(queries)

	for _, q := range queries {
		matches := results.QueryResults[q]
		if len(matches) == 0 {
			continue
		}
		log.Info("sample query result",
			zap.String("query", q),
			zap.String("product_id", matches[0].ProductID),
			zap.Float64("score", matches[0].Score),
			zap.String("reason", matches[0].Reason))
		break
	}
}
