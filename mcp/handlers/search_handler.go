package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/inayet/zep-go/zep"
)

// SearchHandler exposes the search_memory tool.
type SearchHandler struct {
	client *zep.Client
}

func NewSearchHandler(c *zep.Client) *SearchHandler {
	return &SearchHandler{client: c}
}

// RegisterTools registers the search_memory tool.
func (sh *SearchHandler) RegisterTools(s *server.MCPServer) error {
	searchTool := mcp.NewTool("search_memory",
		mcp.WithDescription("Search a session's memory. Scope 'messages' searches individual turns; 'summary' searches conversation summaries. Type 'similarity' ranks by closeness, 'mmr' re-ranks for diversity (tune with mmr_lambda)."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query text")),
		mcp.WithString("search_scope", mcp.Description("messages (default) or summary")),
		mcp.WithString("search_type", mcp.Description("similarity (default) or mmr")),
		mcp.WithNumber("mmr_lambda", mcp.Description("MMR diversity weight in [0,1]; only used with search_type=mmr")),
		mcp.WithNumber("limit", mcp.Description("Number of results to return (1-100, default 10)")),
	)
	s.AddTool(searchTool, sh.handleSearch)
	return nil
}

func (sh *SearchHandler) handleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := req.RequireString("session_id")
	query, _ := req.RequireString("query")

	payload := zep.NewMemorySearchPayload(query)
	args := req.GetArguments()
	if v, ok := args["search_scope"].(string); ok && v != "" {
		payload.SearchScope = zep.SearchScope(v)
	}
	if v, ok := args["search_type"].(string); ok && v != "" {
		payload.SearchType = zep.SearchType(v)
	}
	if v, ok := args["mmr_lambda"].(float64); ok {
		payload.MMRLambda = &v
	}

	limit := 10
	if v, ok := args["limit"].(float64); ok {
		if v >= 1 && v <= 100 {
			limit = int(v)
		}
	}

	results, err := sh.client.SearchMemory(ctx, sessionID, payload, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	out := map[string]interface{}{
		"results": results,
		"count":   len(results),
	}
	b, _ := json.MarshalIndent(out, "", "  ")
	return mcp.NewToolResultText(string(b)), nil
}
