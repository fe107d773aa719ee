package zep

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Session operations - all methods are synchronous

// AddSession registers a new session. Only SessionID (plus optional UserID
// and Metadata) is honored; server-assigned fields in the argument are
// ignored. Returns the session as stored, with uuid and timestamps filled in.
func (c *Client) AddSession(ctx context.Context, session *Session) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if session == nil {
		return nil, &ValidationError{Field: "session", Reason: "is required"}
	}
	if err := session.Validate(); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/api/v1/sessions", c.baseURL)
	httpReq, err := c.newRequest(ctx, http.MethodPost, url, session)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, &APIError{Op: "add session", StatusCode: resp.StatusCode}
	}

	var created Session
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetSession retrieves a session by its caller-chosen ID.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateSessionID(sessionID); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/api/v1/sessions/%s", c.baseURL, sessionID)
	httpReq, err := c.newRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Op: "get session", StatusCode: resp.StatusCode}
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, err
	}
	return &session, nil
}

// UpdateSession patches a session's metadata. SessionID selects the target;
// Metadata is the only writable field.
func (c *Client) UpdateSession(ctx context.Context, session *Session) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if session == nil {
		return nil, &ValidationError{Field: "session", Reason: "is required"}
	}
	if err := session.Validate(); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/api/v1/sessions/%s", c.baseURL, session.SessionID)
	httpReq, err := c.newRequest(ctx, http.MethodPatch, url, session)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Op: "update session", StatusCode: resp.StatusCode}
	}

	var updated Session
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
