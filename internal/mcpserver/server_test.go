package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopstream/catalogpipe/internal/embedder"
	"github.com/shopstream/catalogpipe/internal/graph"
	"github.com/shopstream/catalogpipe/internal/matcher"
	"github.com/shopstream/catalogpipe/pkg/types"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	products := []types.Product{
		{
			ID:                 "p1",
			Title:              "Summer Dress",
			Category:           "women/dresses",
			Price:              35.0,
			Availability:       types.AvailabilityInStock,
			Intents:            []string{"budget_friendly", "dress_shopping", "summer"},
			Features:           []string{"cotton"},
			AIOptimizedContent: "Women Summer Dress. Perfect for budget friendly, dress shopping",
		},
		{
			ID:           "p2",
			Title:        "Cozy Hoodie",
			Category:     "men/hoodies",
			Price:        45.0,
			Availability: types.AvailabilityOutOfStock,
			Intents:      []string{"cozy_wear"},
		},
	}

	m := matcher.New(embedder.NewLocalProvider(nil), nil)
	kg := graph.New(nil).Build(products)
	return NewServer(products, kg, m, nil)
}

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "content should be text")
	return text.Text
}

func TestHandleMatchProducts(t *testing.T) {
	s := testServer(t)

	result, err := s.handleMatchProducts(context.Background(),
		callRequest("match_products", map[string]interface{}{"query": "summer dress under 40"}))
	require.NoError(t, err)

	var response struct {
		Query   string              `json:"query"`
		Results []types.MatchResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))

	assert.Equal(t, "summer dress under 40", response.Query)
	require.NotEmpty(t, response.Results)
	assert.Equal(t, "p1", response.Results[0].ProductID)
}

func TestHandleMatchProductsEmptyQuery(t *testing.T) {
	s := testServer(t)

	_, err := s.handleMatchProducts(context.Background(),
		callRequest("match_products", map[string]interface{}{}))
	require.Error(t, err)

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeEmptyQuery, mcpErr.Code)
}

func TestHandleGetProduct(t *testing.T) {
	s := testServer(t)

	result, err := s.handleGetProduct(context.Background(),
		callRequest("get_product", map[string]interface{}{"id": "p2"}))
	require.NoError(t, err)

	var product types.Product
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &product))
	assert.Equal(t, "Cozy Hoodie", product.Title)
}

func TestHandleGetProductNotFound(t *testing.T) {
	s := testServer(t)

	_, err := s.handleGetProduct(context.Background(),
		callRequest("get_product", map[string]interface{}{"id": "nope"}))
	require.Error(t, err)

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeProductNotFound, mcpErr.Code)
}

func TestHandleListProducts(t *testing.T) {
	s := testServer(t)

	result, err := s.handleListProducts(context.Background(),
		callRequest("list_products", map[string]interface{}{"limit": float64(1), "offset": float64(1)}))
	require.NoError(t, err)

	var response struct {
		Total    int `json:"total"`
		Offset   int `json:"offset"`
		Products []struct {
			ID string `json:"id"`
		} `json:"products"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))

	assert.Equal(t, 2, response.Total)
	require.Len(t, response.Products, 1)
	assert.Equal(t, "p2", response.Products[0].ID)
}

func TestHandleListProductsBadLimit(t *testing.T) {
	s := testServer(t)

	_, err := s.handleListProducts(context.Background(),
		callRequest("list_products", map[string]interface{}{"limit": float64(500)}))
	require.Error(t, err)

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
}

func TestHandleGetKnowledgeGraph(t *testing.T) {
	s := testServer(t)

	result, err := s.handleGetKnowledgeGraph(context.Background(),
		callRequest("get_knowledge_graph", nil))
	require.NoError(t, err)

	var kg types.KnowledgeGraph
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &kg))
	assert.Len(t, kg.Products, 2)
	assert.NotEmpty(t, kg.Relationships)
}
