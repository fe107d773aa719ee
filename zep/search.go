package zep

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// SearchMemory executes a search over a session's messages or summaries.
// It performs a blocking HTTP call and returns the ranked hits.
//
// Empty SearchScope/SearchType fall back to the server defaults
// ("messages"/"similarity"); out-of-set values are sent as-is and rejected
// by the server, never locally.
//
// Example:
//
//	payload := zep.NewMemorySearchPayload("kubernetes")
//	results, err := cli.SearchMemory(ctx, sessionID, payload, 5)
func (c *Client) SearchMemory(ctx context.Context, sessionID string, payload MemorySearchPayload, limit int) ([]MemorySearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateSessionID(sessionID); err != nil {
		return nil, err
	}
	if payload.SearchScope == "" {
		payload.SearchScope = SearchScopeMessages
	}
	if payload.SearchType == "" {
		payload.SearchType = SearchTypeSimilarity
	}

	url := fmt.Sprintf("%s/api/v1/sessions/%s/search", c.baseURL, sessionID)
	if limit > 0 {
		url += "?limit=" + strconv.Itoa(limit)
	}
	httpReq, err := c.newRequest(ctx, http.MethodPost, url, payload)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Op: "search memory", StatusCode: resp.StatusCode}
	}

	var results []MemorySearchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, err
	}
	return results, nil
}
