// Package mcpserver exposes an enriched catalog to LLM tools over the
// Model Context Protocol. Tools cover query matching, product lookup,
// listing and the knowledge graph.
package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/shopstream/catalogpipe/internal/matcher"
	"github.com/shopstream/catalogpipe/pkg/types"
)

const (
	// ServerName is the MCP server name
	ServerName = "catalogpipe"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with the catalog it serves.
type Server struct {
	mcp     *server.MCPServer
	log     *zap.Logger
	matcher *matcher.Matcher

	products []types.Product
	byID     map[string]int
	graph    types.KnowledgeGraph
}

// NewServer creates an MCP server over an already-enriched catalog.
// A nil logger disables logging.
func NewServer(products []types.Product, graph types.KnowledgeGraph, m *matcher.Matcher, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	byID := make(map[string]int, len(products))
	for i := range products {
		if products[i].ID != "" {
			byID[products[i].ID] = i
		}
	}

	s := &Server{
		mcp:      server.NewMCPServer(ServerName, ServerVersion),
		log:      log,
		matcher:  m,
		products: products,
		byID:     byID,
		graph:    graph,
	}
	s.registerTools()
	return s
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	s.log.Info("serving catalog over MCP",
		zap.Int("products", len(s.products)),
		zap.Int("graph_nodes", len(s.graph.Products)))
	return server.ServeStdio(s.mcp)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(matchProductsTool(), s.handleMatchProducts)
	s.mcp.AddTool(getProductTool(), s.handleGetProduct)
	s.mcp.AddTool(listProductsTool(), s.handleListProducts)
	s.mcp.AddTool(getKnowledgeGraphTool(), s.handleGetKnowledgeGraph)
}
