// Package api is the HTTP client for the Prodex sync endpoints.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/TanuSree02/prodex/internal/model"
)

// StatusError reports a non-2xx response. The task push path falls back
// to the full sync endpoint on this error but not on transport errors.
type StatusError struct {
	StatusCode int
	Details    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Details)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// FetchData pulls the full snapshot.
func (c *Client) FetchData(ctx context.Context) (*model.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/data", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Details: extractErrorDetails(resp.Body)}
	}

	var body struct {
		Data model.Snapshot `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &body.Data, nil
}

// SyncTasks pushes the full task collection to the task-only endpoint.
// The response body is not applied back; local state stays authoritative.
func (c *Client) SyncTasks(ctx context.Context, tasks []model.TaskPayload) error {
	payload := model.TasksSyncRequest{Tasks: tasks}
	if payload.Tasks == nil {
		payload.Tasks = []model.TaskPayload{}
	}
	return c.post(ctx, "/api/v1/tasks/sync", payload, nil)
}

// FullSync pushes a multi-group payload and returns the server's
// authoritative post-write snapshot plus group warnings.
func (c *Client) FullSync(ctx context.Context, payload model.SyncRequest) (*model.SyncResponse, error) {
	var out model.SyncResponse
	if err := c.post(ctx, "/api/v1/sync", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sync request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Details: extractErrorDetails(resp.Body)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode sync response: %w", err)
	}
	return nil
}

// extractErrorDetails digs the details or error field out of an error
// body, falling back to the raw text.
func extractErrorDetails(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var parsed struct {
		Details string `json:"details"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil {
		if parsed.Details != "" {
			return parsed.Details
		}
		if parsed.Error != "" {
			return parsed.Error
		}
	}
	return string(raw)
}
