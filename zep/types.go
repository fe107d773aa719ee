package zep

import (
	"encoding/json"
	"time"
)

// ------------------------------
// Core domain types and payloads
// ------------------------------

// SearchScope selects the substrate a search query is evaluated against.
type SearchScope string

const (
	// SearchScopeMessages searches over individual messages.
	SearchScopeMessages SearchScope = "messages"
	// SearchScopeSummary searches over conversation summaries.
	SearchScopeSummary SearchScope = "summary"
)

// SearchType selects the ranking strategy applied by the server.
type SearchType string

const (
	// SearchTypeSimilarity ranks purely by vector similarity.
	SearchTypeSimilarity SearchType = "similarity"
	// SearchTypeMMR applies Maximal Marginal Relevance re-ranking,
	// parameterized by MemorySearchPayload.MMRLambda.
	SearchTypeMMR SearchType = "mmr"
)

// Session identifies a persistent conversation context.
//
// SessionID is chosen by the caller before creation; the server assigns
// UUID, ID, and the timestamps on response. All timestamps are RFC-3339
// and parsed into time.Time.
type Session struct {
	UUID      string                 `json:"uuid,omitempty"`
	ID        *int64                 `json:"id,omitempty"`
	CreatedAt *time.Time             `json:"created_at,omitempty"`
	UpdatedAt *time.Time             `json:"updated_at,omitempty"`
	DeletedAt *time.Time             `json:"deleted_at,omitempty"`
	SessionID string                 `json:"session_id"`
	UserID    string                 `json:"user_id,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Message is one conversational turn. Role and Content are set by the
// caller; UUID, CreatedAt, and TokenCount are assigned by the server and
// must be left unset on submission. A message returned from the server is
// never mutated.
type Message struct {
	UUID       string                 `json:"uuid,omitempty"`
	CreatedAt  *time.Time             `json:"created_at,omitempty"`
	Role       string                 `json:"role"`
	Content    string                 `json:"content"`
	TokenCount *int                   `json:"token_count,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// Summary is a server-generated condensation of earlier conversation turns.
// Every field is populated by the server; clients never construct one from
// scratch. RecentMessageUUID points at the last message covered by the
// summary (a lookup reference, not ownership).
type Summary struct {
	UUID              string     `json:"uuid"`
	CreatedAt         *time.Time `json:"created_at"`
	Content           string     `json:"content"`
	RecentMessageUUID string     `json:"recent_message_uuid"`
	TokenCount        int        `json:"token_count"`
}

// Memory aggregates the messages (plus optional summary) associated with a
// session at a point in time. Messages are conversation-chronological as
// returned by the server; the client never reorders them.
type Memory struct {
	Messages   []Message              `json:"messages"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Summary    *Summary               `json:"summary,omitempty"`
	UUID       string                 `json:"uuid,omitempty"`
	CreatedAt  *time.Time             `json:"created_at,omitempty"`
	TokenCount *int                   `json:"token_count,omitempty"`
}

// MarshalJSON normalizes a nil Messages slice to [] so the wire shape
// always carries a messages array, never null.
func (m Memory) MarshalJSON() ([]byte, error) {
	type alias Memory
	a := alias(m)
	if a.Messages == nil {
		a.Messages = []Message{}
	}
	return json.Marshal(a)
}

// ------------------------------
// Search types
// ------------------------------

// MemorySearchPayload is the request body for POST /api/v1/sessions/{id}/search.
// The JSON field names follow the backend spec exactly.
//
// SearchScope and SearchType document the legal values; the client sends
// whatever it is given and leaves enforcement to the server (out-of-set
// values surface as server-reported errors, not local ones).
type MemorySearchPayload struct {
	Text        string                 `json:"text,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	SearchScope SearchScope            `json:"search_scope,omitempty"`
	SearchType  SearchType             `json:"search_type,omitempty"`
	MMRLambda   *float64               `json:"mmr_lambda,omitempty"`
}

// NewMemorySearchPayload returns a payload for the given query text with
// the server defaults filled in: scope "messages", type "similarity".
func NewMemorySearchPayload(text string) MemorySearchPayload {
	return MemorySearchPayload{
		Text:        text,
		SearchScope: SearchScopeMessages,
		SearchType:  SearchTypeSimilarity,
	}
}

// MemorySearchResult is one ranked hit. Whether Dist is lower-is-closer or
// higher-is-closer depends on the engine's distance function; the client
// passes it through untouched.
//
// Message is a raw field map rather than a typed Message: the service's
// legacy wire shape, preserved for compatibility.
type MemorySearchResult struct {
	Message  map[string]interface{} `json:"message,omitempty"`
	Summary  *Summary               `json:"summary,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	Dist     *float64               `json:"dist,omitempty"`
}

// ------------------------------
// Write-path acknowledgement
// ------------------------------

// EnqueueAck is returned by AddMemory to confirm the write was accepted
// into the shard executor.
type EnqueueAck struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"` // always "enqueued"
}
