package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// MCP error codes
const (
	ErrorCodeInvalidParams   = -32602 // Invalid method parameters
	ErrorCodeInternalError   = -32603 // Internal JSON-RPC error
	ErrorCodeProductNotFound = -32001 // No product with the given id
	ErrorCodeEmptyQuery      = -32004 // Query parameter is empty
)

// handleMatchProducts handles the match_products tool invocation
func (s *Server) handleMatchProducts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	matches, err := s.matcher.Match(ctx, query, s.products)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "matching failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"query":   query,
		"results": matches,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetProduct handles the get_product tool invocation
func (s *Server) handleGetProduct(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	id, ok := args["id"].(string)
	if !ok || id == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "id parameter is required", map[string]interface{}{
			"param":  "id",
			"reason": "missing or empty",
		})
	}

	idx, ok := s.byID[id]
	if !ok {
		return nil, newMCPError(ErrorCodeProductNotFound, "product not found", map[string]interface{}{
			"id": id,
		})
	}

	return mcp.NewToolResultText(formatJSON(s.products[idx])), nil
}

// handleListProducts handles the list_products tool invocation
func (s *Server) handleListProducts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})

	limit := getIntDefault(args, "limit", 20)
	if limit < 1 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}
	offset := getIntDefault(args, "offset", 0)
	if offset < 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "offset must not be negative", map[string]interface{}{
			"param": "offset",
			"value": offset,
		})
	}

	type summary struct {
		ID           string  `json:"id"`
		Title        string  `json:"title"`
		Price        float64 `json:"price"`
		Availability string  `json:"availability"`
	}

	page := make([]summary, 0, limit)
	for i := offset; i < len(s.products) && len(page) < limit; i++ {
		p := &s.products[i]
		page = append(page, summary{
			ID:           p.ID,
			Title:        p.Title,
			Price:        p.Price,
			Availability: p.Availability,
		})
	}

	response := map[string]interface{}{
		"total":    len(s.products),
		"offset":   offset,
		"products": page,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetKnowledgeGraph handles the get_knowledge_graph tool invocation
func (s *Server) handleGetKnowledgeGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(formatJSON(s.graph)), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a value as indented JSON
func formatJSON(data interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}
