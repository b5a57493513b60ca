// Package api is the HTTP transport client for the draft server: the one-shot
// snapshot fetch and the per-selection player history fetch. Each call is a
// single attempt; retry policy, if any, lives with the caller.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Incarcer/FFA/internal/draft"
)

const defaultTimeout = 10 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// FetchSnapshot pulls the full draft state. The payload is decoded but not
// validated here; structural validation happens at the state boundary.
func (c *Client) FetchSnapshot(ctx context.Context) (draft.Snapshot, error) {
	var snap draft.Snapshot
	if err := c.getJSON(ctx, "/api/v1/draft/state", &snap); err != nil {
		return draft.Snapshot{}, fmt.Errorf("fetch snapshot: %w", err)
	}
	return snap, nil
}

// FetchHistory pulls a player's extended history. The payload stays opaque.
func (c *Client) FetchHistory(ctx context.Context, playerID string) (draft.History, error) {
	var history json.RawMessage
	path := "/api/v1/players/" + url.PathEscape(playerID) + "/stats"
	if err := c.getJSON(ctx, path, &history); err != nil {
		return nil, fmt.Errorf("fetch history for %s: %w", playerID, err)
	}
	return draft.History(history), nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s: status %d: %s", path, resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode: %w", path, err)
	}
	return nil
}
