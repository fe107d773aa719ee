package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/inayet/zep-go/zep"
)

// SessionHandler exposes session lifecycle tools.
type SessionHandler struct {
	client *zep.Client
}

func NewSessionHandler(c *zep.Client) *SessionHandler {
	return &SessionHandler{client: c}
}

// RegisterTools registers the create_session and get_session tools.
func (sh *SessionHandler) RegisterTools(s *server.MCPServer) error {
	createSession := mcp.NewTool("create_session",
		mcp.WithDescription("Create a new conversation session. Choose a stable session_id before the first message is stored."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Caller-chosen session identifier")),
		mcp.WithString("user_id", mcp.Description("Optional user the session belongs to")),
		mcp.WithString("metadata", mcp.Description("Optional metadata as a JSON object string")),
	)
	s.AddTool(createSession, sh.handleCreateSession)

	getSession := mcp.NewTool("get_session",
		mcp.WithDescription("Get a session's server-assigned fields (uuid, timestamps, metadata) by session_id."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
	)
	s.AddTool(getSession, sh.handleGetSession)

	return nil
}

func (sh *SessionHandler) handleCreateSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := req.RequireString("session_id")
	userID := ""
	if v, ok := req.GetArguments()["user_id"].(string); ok {
		userID = v
	}

	session := &zep.Session{SessionID: sessionID, UserID: userID}
	if raw, ok := req.GetArguments()["metadata"].(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &session.Metadata); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("metadata is not a JSON object: %v", err)), nil
		}
	}

	created, err := sh.client.AddSession(ctx, session)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("create_session failed")
		return mcp.NewToolResultError(fmt.Sprintf("create session failed: %v", err)), nil
	}

	b, _ := json.MarshalIndent(created.ToDict(), "", "  ")
	return mcp.NewToolResultText(string(b)), nil
}

func (sh *SessionHandler) handleGetSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := req.RequireString("session_id")

	session, err := sh.client.GetSession(ctx, sessionID)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("get_session failed")
		return mcp.NewToolResultError(fmt.Sprintf("get session failed: %v", err)), nil
	}

	b, _ := json.MarshalIndent(session.ToDict(), "", "  ")
	return mcp.NewToolResultText(string(b)), nil
}
