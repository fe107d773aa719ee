package zep

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/inayet/zep-go/zep/internal/shardqueue"
)

// Memory operations - AddMemory is ASYNC (uses executor), others are sync

// GetMemory retrieves the memory for a session: its messages in
// conversation order plus the current summary, when one exists. lastN > 0
// limits the result to the most recent N messages.
func (c *Client) GetMemory(ctx context.Context, sessionID string, lastN int) (*Memory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateSessionID(sessionID); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/api/v1/sessions/%s/memory", c.baseURL, sessionID)
	if lastN > 0 {
		url += "?lastn=" + strconv.Itoa(lastN)
	}
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
		return nil, &APIError{Op: "get memory", StatusCode: resp.StatusCode}
	}

	var mem Memory
	if err := json.NewDecoder(resp.Body).Decode(&mem); err != nil {
		return nil, err
	}
	if mem.Messages == nil {
		mem.Messages = []Message{}
	}
	return &mem, nil
}

// AddMemory submits new messages for a session via the sharded executor.
// This ensures FIFO ordering per session and provides offline resilience:
// the HTTP write retries with backoff on the worker goroutine while the
// caller gets an immediate enqueue acknowledgement.
func (c *Client) AddMemory(ctx context.Context, sessionID string, memory Memory) (*EnqueueAck, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateSessionID(sessionID); err != nil {
		return nil, err
	}
	if err := memory.Validate(); err != nil {
		return nil, err
	}

	// Create job that makes the actual HTTP request
	addJob := jobFunc(func(jobCtx context.Context) error {
		url := fmt.Sprintf("%s/api/v1/sessions/%s/memory", c.baseURL, sessionID)
		httpReq, err := c.newRequest(jobCtx, http.MethodPost, url, memory)
		if err != nil {
			return err
		}
		resp, err := c.http.Do(httpReq)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
			return &APIError{Op: "add memory", StatusCode: resp.StatusCode}
		}
		return nil
	})

	// Submit job to executor for FIFO ordering per session
	if err := c.exec.Submit(ctx, sessionID, addJob); err != nil {
		if errors.Is(err, shardqueue.ErrQueueFull) {
			return nil, ErrBackPressure
		}
		return nil, err
	}
	messagesEnqueuedTotal.WithLabelValues(shardLabel(sessionID)).Inc()

	return &EnqueueAck{SessionID: sessionID, Status: "enqueued"}, nil
}

// DeleteMemory removes all messages and the summary for a session
// (synchronous).
func (c *Client) DeleteMemory(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateSessionID(sessionID); err != nil {
		return err
	}
	url := fmt.Sprintf("%s/api/v1/sessions/%s/memory", c.baseURL, sessionID)
	httpReq, err := c.newRequest(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return &APIError{Op: "delete memory", StatusCode: resp.StatusCode}
	}
	return nil
}
