package handlers

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/inayet/zep-go/zep"
)

// ConsistencyHandler exposes the await_consistency tool.
type ConsistencyHandler struct {
	client *zep.Client
}

func NewConsistencyHandler(c *zep.Client) *ConsistencyHandler {
	return &ConsistencyHandler{client: c}
}

func (h *ConsistencyHandler) RegisterTools(s *server.MCPServer) error {
	awaitTool := mcp.NewTool("await_consistency",
		mcp.WithDescription(`Block until all queued writes for the given session have finished executing on the client's shard queue.

Typical use-cases:
• After a sequence of add_memory calls when the agent needs a strong read-after-write guarantee.
• Before issuing get_memory or search_memory that must reflect the very latest messages.

Example:
  1. call add_memory(session_id="s", messages=[...])
  2. call await_consistency(session_id="s")   # returns "consistent"
  3. call get_memory(session_id="s") – guaranteed to see the new messages`),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
	)
	s.AddTool(awaitTool, h.handleAwait)
	return nil
}

func (h *ConsistencyHandler) handleAwait(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := h.client.AwaitConsistency(ctx, sessionID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("await consistency failed: %v", err)), nil
	}
	return mcp.NewToolResultText("consistent"), nil
}
