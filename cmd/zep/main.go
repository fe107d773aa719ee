package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/inayet/zep-go/internal/config"
	"github.com/inayet/zep-go/zep"
)

var serverURL string
var apiKey string
var debug bool

const defaultLimit = 10

func dbg(v interface{}) {
	if !debug {
		return
	}
	log.Debug().Interface("data", v).Msg("debug output")
}

func main() {
	// A missing .env is fine; explicit env vars win either way.
	_ = godotenv.Load()

	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "zep",
		Short: "Zep CLI for managing sessions and conversational memory",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.InitLogger()

			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
				os.Setenv("ZEP_DEBUG", "true")
				log.Debug().Msg("debug logging enabled")
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}

	defaultURL := getEnv("ZEP_API_URL", "http://localhost:8000")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server-url", defaultURL, "Base URL of the Zep memory service")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", os.Getenv("ZEP_API_KEY"), "Bearer token for the memory service")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable verbose debug output")

	// Sub-commands
	rootCmd.AddCommand(newCreateSessionCmd())
	rootCmd.AddCommand(newGetSessionCmd())
	rootCmd.AddCommand(newUpdateSessionCmd())
	rootCmd.AddCommand(newGetMemoryCmd())
	rootCmd.AddCommand(newAddMemoryCmd())
	rootCmd.AddCommand(newAwaitConsistencyCmd())
	rootCmd.AddCommand(newDeleteMemoryCmd())
	rootCmd.AddCommand(newSearchCmd())

	return rootCmd
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// newClient builds a client for one command invocation. Sync-only commands
// skip the executor; add-memory needs it.
func newClient(withExecutor bool) *zep.Client {
	opts := []zep.Option{}
	if !withExecutor {
		opts = append(opts, zep.WithoutExecutor())
	}
	if apiKey != "" {
		opts = append(opts, zep.WithAPIKey(apiKey))
	}
	return zep.New(serverURL, opts...)
}

func parseMetadata(raw string) (map[string]interface{}, error) {
	if raw == "" {
		return nil, nil
	}
	var meta map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return nil, fmt.Errorf("--metadata is not a JSON object: %w", err)
	}
	return meta, nil
}

func printDict(d map[string]interface{}) {
	b, _ := json.MarshalIndent(d, "", "  ")
	fmt.Println(string(b))
}

func newCreateSessionCmd() *cobra.Command {
	var sessionID, userID, metadata string

	cmd := &cobra.Command{
		Use:   "create-session",
		Short: "Create a new session",
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := parseMetadata(metadata)
			if err != nil {
				return err
			}

			log.Debug().
				Str("session_id", sessionID).
				Str("user_id", userID).
				Str("server_url", serverURL).
				Msg("creating session")

			c := newClient(false)
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			start := time.Now()
			session, err := c.AddSession(ctx, &zep.Session{
				SessionID: sessionID,
				UserID:    userID,
				Metadata:  meta,
			})
			elapsed := time.Since(start)

			if err != nil {
				log.Error().
					Err(err).
					Str("session_id", sessionID).
					Dur("elapsed", elapsed).
					Msg("create session failed")
				return err
			}

			dbg(session)
			fmt.Printf("Session created: %s\n", session.SessionID)
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session-id", "", "Session ID (required)")
	cmd.Flags().StringVar(&userID, "user-id", "", "User ID (optional)")
	cmd.Flags().StringVar(&metadata, "metadata", "", "Session metadata as a JSON object (optional)")
	_ = cmd.MarkFlagRequired("session-id")

	return cmd
}

func newGetSessionCmd() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "get-session",
		Short: "Get a session by ID",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient(false)
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			session, err := c.GetSession(ctx, sessionID)
			if err != nil {
				log.Error().Err(err).Str("session_id", sessionID).Msg("get session failed")
				return err
			}

			printDict(session.ToDict())
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session-id", "", "Session ID (required)")
	_ = cmd.MarkFlagRequired("session-id")

	return cmd
}

func newUpdateSessionCmd() *cobra.Command {
	var sessionID, metadata string

	cmd := &cobra.Command{
		Use:   "update-session",
		Short: "Update a session's metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := parseMetadata(metadata)
			if err != nil {
				return err
			}

			c := newClient(false)
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			session, err := c.UpdateSession(ctx, &zep.Session{
				SessionID: sessionID,
				Metadata:  meta,
			})
			if err != nil {
				log.Error().Err(err).Str("session_id", sessionID).Msg("update session failed")
				return err
			}

			printDict(session.ToDict())
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session-id", "", "Session ID (required)")
	cmd.Flags().StringVar(&metadata, "metadata", "", "Replacement metadata as a JSON object (required)")
	_ = cmd.MarkFlagRequired("session-id")
	_ = cmd.MarkFlagRequired("metadata")

	return cmd
}

func newGetMemoryCmd() *cobra.Command {
	var sessionID string
	var lastN int

	cmd := &cobra.Command{
		Use:   "get-memory",
		Short: "Get a session's messages and summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient(false)
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			start := time.Now()
			mem, err := c.GetMemory(ctx, sessionID, lastN)
			elapsed := time.Since(start)

			if err != nil {
				log.Error().
					Err(err).
					Str("session_id", sessionID).
					Dur("elapsed", elapsed).
					Msg("get memory failed")
				return err
			}

			printDict(mem.ToDict())
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session-id", "", "Session ID (required)")
	cmd.Flags().IntVar(&lastN, "last-n", 0, "Only return the most recent N messages")
	_ = cmd.MarkFlagRequired("session-id")

	return cmd
}

func newAddMemoryCmd() *cobra.Command {
	var sessionID, role, content, messagesJSON string

	cmd := &cobra.Command{
		Use:   "add-memory",
		Short: "Append messages to a session's memory",
		RunE: func(cmd *cobra.Command, args []string) error {
			var messages []zep.Message
			switch {
			case messagesJSON != "":
				if err := json.Unmarshal([]byte(messagesJSON), &messages); err != nil {
					return fmt.Errorf("--messages is not a JSON array of messages: %w", err)
				}
			case role != "" || content != "":
				messages = []zep.Message{{Role: role, Content: content}}
			default:
				return fmt.Errorf("either --messages or --role/--content is required")
			}

			c := newClient(true)
			defer func() { _ = c.Close() }()
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			ack, err := c.AddMemory(ctx, sessionID, zep.Memory{Messages: messages})
			if err != nil {
				log.Error().Err(err).Str("session_id", sessionID).Msg("add memory failed")
				return err
			}
			dbg(ack)

			// Flush the per-session queue so the CLI exits only after the
			// write has actually landed.
			if err := c.AwaitConsistency(ctx, sessionID); err != nil {
				return err
			}

			fmt.Printf("Memory added to session %s (%d message(s))\n", sessionID, len(messages))
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session-id", "", "Session ID (required)")
	cmd.Flags().StringVar(&role, "role", "", "Role of a single message (e.g. user, assistant)")
	cmd.Flags().StringVar(&content, "content", "", "Content of a single message")
	cmd.Flags().StringVar(&messagesJSON, "messages", "", "JSON array of messages, each with role and content")
	_ = cmd.MarkFlagRequired("session-id")

	return cmd
}

func newAwaitConsistencyCmd() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "await-consistency",
		Short: "Block until queued writes for the session are durably visible",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Debug().
				Str("session_id", sessionID).
				Str("server_url", serverURL).
				Msg("awaiting consistency")

			c := newClient(true)
			defer func() { _ = c.Close() }()
			ctx, cancel := context.WithTimeout(cmd.Context(), 20*time.Second)
			defer cancel()

			start := time.Now()
			if err := c.AwaitConsistency(ctx, sessionID); err != nil {
				log.Error().Err(err).
					Str("session_id", sessionID).
					Msg("await-consistency failed")
				return err
			}

			log.Debug().
				Str("session_id", sessionID).
				Dur("elapsed", time.Since(start)).
				Msg("await-consistency completed")
			fmt.Println("OK")
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session-id", "", "Session ID (required)")
	_ = cmd.MarkFlagRequired("session-id")

	return cmd
}

func newDeleteMemoryCmd() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "delete-memory",
		Short: "Delete a session's messages and summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient(false)
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			if err := c.DeleteMemory(ctx, sessionID); err != nil {
				log.Error().Err(err).Str("session_id", sessionID).Msg("delete memory failed")
				return err
			}

			fmt.Printf("Memory deleted for session %s\n", sessionID)
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session-id", "", "Session ID (required)")
	_ = cmd.MarkFlagRequired("session-id")

	return cmd
}

func newSearchCmd() *cobra.Command {
	var sessionID, query, scope, searchType, metadata string
	var limit int
	var mmrLambda float64

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search a session's messages or summaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := parseMetadata(metadata)
			if err != nil {
				return err
			}

			payload := zep.NewMemorySearchPayload(query)
			payload.Metadata = meta
			if scope != "" {
				payload.SearchScope = zep.SearchScope(scope)
			}
			if searchType != "" {
				payload.SearchType = zep.SearchType(searchType)
			}
			if cmd.Flags().Changed("mmr-lambda") {
				payload.MMRLambda = &mmrLambda
			}

			c := newClient(false)
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			start := time.Now()
			results, err := c.SearchMemory(ctx, sessionID, payload, limit)
			elapsed := time.Since(start)

			if err != nil {
				log.Error().
					Err(err).
					Str("session_id", sessionID).
					Str("query", query).
					Dur("elapsed", elapsed).
					Msg("search failed")
				return err
			}

			log.Debug().
				Int("count", len(results)).
				Dur("elapsed", elapsed).
				Msg("search completed")

			for _, r := range results {
				printDict(r.ToDict())
			}
			fmt.Printf("%d result(s)\n", len(results))
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session-id", "", "Session ID (required)")
	cmd.Flags().StringVar(&query, "query", "", "Search query text (required)")
	cmd.Flags().StringVar(&scope, "scope", "", "Search scope: messages or summary")
	cmd.Flags().StringVar(&searchType, "type", "", "Search type: similarity or mmr")
	cmd.Flags().Float64Var(&mmrLambda, "mmr-lambda", 0.5, "MMR diversity weight in [0,1]")
	cmd.Flags().StringVar(&metadata, "metadata", "", "Metadata filter as a JSON object")
	cmd.Flags().IntVar(&limit, "limit", defaultLimit, "Maximum number of results")
	_ = cmd.MarkFlagRequired("session-id")
	_ = cmd.MarkFlagRequired("query")

	return cmd
}
