package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/inayet/zep-go/zep"
)

// MemoryHandler provides memory read/write tools.
type MemoryHandler struct {
	client *zep.Client
}

// NewMemoryHandler creates a new memory handler instance.
func NewMemoryHandler(client *zep.Client) *MemoryHandler {
	return &MemoryHandler{client: client}
}

// RegisterTools registers all memory tools with the MCP server.
func (mh *MemoryHandler) RegisterTools(s *server.MCPServer) error {
	// get_memory – read-only
	getMem := mcp.NewTool("get_memory",
		mcp.WithDescription("Get a session's memory: messages in conversation order plus the current summary, if any."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithNumber("last_n", mcp.Description("Only return the most recent N messages")),
	)
	s.AddTool(getMem, mh.handleGetMemory)

	addMem := mcp.NewTool("add_memory",
		mcp.WithDescription("Append conversation turns to a session's memory. Messages are a JSON array of {role, content} objects; writes are ordered per session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithString("messages", mcp.Required(), mcp.Description("JSON array of messages, each with role and content")),
	)
	s.AddTool(addMem, mh.handleAddMemory)

	deleteMem := mcp.NewTool("delete_memory",
		mcp.WithDescription("CAUTION: Use ONLY after the human has explicitly confirmed they want the session's messages and summary deleted. First ask for permission, then call this tool."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
	)
	s.AddTool(deleteMem, mh.handleDeleteMemory)

	return nil
}

func (mh *MemoryHandler) handleGetMemory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := req.RequireString("session_id")

	lastN := 0
	if v, ok := req.GetArguments()["last_n"].(float64); ok && v > 0 {
		lastN = int(v)
	}

	log.Debug().
		Str("session_id", sessionID).
		Int("last_n", lastN).
		Msg("handling get_memory request")

	start := time.Now()
	mem, err := mh.client.GetMemory(ctx, sessionID, lastN)
	elapsed := time.Since(start)

	if err != nil {
		log.Error().
			Err(err).
			Str("session_id", sessionID).
			Dur("elapsed", elapsed).
			Msg("get_memory failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to get memory: %v", err)), nil
	}

	b, _ := json.MarshalIndent(mem.ToDict(), "", "  ")
	return mcp.NewToolResultText(string(b)), nil
}

func (mh *MemoryHandler) handleAddMemory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := req.RequireString("session_id")
	rawMessages, _ := req.RequireString("messages")

	var messages []zep.Message
	if err := json.Unmarshal([]byte(rawMessages), &messages); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("messages is not a JSON array of messages: %v", err)), nil
	}

	ack, err := mh.client.AddMemory(ctx, sessionID, zep.Memory{Messages: messages})
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("add_memory failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to add memory: %v", err)), nil
	}

	b, _ := json.MarshalIndent(ack, "", "  ")
	return mcp.NewToolResultText(string(b)), nil
}

func (mh *MemoryHandler) handleDeleteMemory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := req.RequireString("session_id")

	if err := mh.client.DeleteMemory(ctx, sessionID); err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("delete_memory failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete memory: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("memory deleted for session %s", sessionID)), nil
}
