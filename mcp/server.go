// Package mcp wires the zep client into an MCP stdio server so agents can
// read and write conversational memory as tools.
package mcp

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/inayet/zep-go/internal/config"
	"github.com/inayet/zep-go/mcp/handlers"
	"github.com/inayet/zep-go/zep"
)

const serverVersion = "0.1.0"

// RunMCPServer builds the client from env config, registers every tool
// handler, and serves MCP over stdio until the peer disconnects.
func RunMCPServer() error {
	cfg := config.Load()
	cfg.Init()

	opts := []zep.Option{}
	if cfg.APIKey != "" {
		opts = append(opts, zep.WithAPIKey(cfg.APIKey))
	}
	cli := zep.New(cfg.APIURL, opts...)
	defer func() { _ = cli.Close() }()

	s := server.NewMCPServer("zep-go", serverVersion)

	registrars := []interface {
		RegisterTools(*server.MCPServer) error
	}{
		handlers.NewSessionHandler(cli),
		handlers.NewMemoryHandler(cli),
		handlers.NewSearchHandler(cli),
		handlers.NewConsistencyHandler(cli),
	}
	for _, r := range registrars {
		if err := r.RegisterTools(s); err != nil {
			return fmt.Errorf("register tools: %w", err)
		}
	}

	log.Info().Str("api_url", cfg.APIURL).Msg("starting MCP server on stdio")
	return server.ServeStdio(s)
}
