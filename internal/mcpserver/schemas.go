package mcpserver

import "github.com/mark3labs/mcp-go/mcp"

// matchProductsTool defines the match_products tool schema
func matchProductsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "match_products",
		Description: "Rank catalog products against a free-text shopping query",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Free-text shopping query, e.g. 'affordable dresses under 40'",
				},
			},
			Required: []string{"query"},
		},
	}
}

// getProductTool defines the get_product tool schema
func getProductTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_product",
		Description: "Fetch one enriched product by id",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "string",
					"description": "Product id",
				},
			},
			Required: []string{"id"},
		},
	}
}

// listProductsTool defines the list_products tool schema
func listProductsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_products",
		Description: "List enriched products with id, title, price and availability",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of products to return (1-100)",
					"default":     20,
					"minimum":     1,
					"maximum":     100,
				},
				"offset": map[string]interface{}{
					"type":        "integer",
					"description": "Number of products to skip",
					"default":     0,
					"minimum":     0,
				},
			},
		},
	}
}

// getKnowledgeGraphTool defines the get_knowledge_graph tool schema
func getKnowledgeGraphTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_knowledge_graph",
		Description: "Return the product knowledge graph (nodes and relationships)",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
