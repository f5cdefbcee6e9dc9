// Package hyperliquid talks to the venue: a read-only info client for
// point-in-time snapshots and a streaming connection for live events.
package hyperliquid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/superx-labs/hypertrack/pkg/core"
	"github.com/superx-labs/hypertrack/pkg/logger"
)

// Client queries the venue's info endpoint. Every request is bounded by the
// configured timeout; a slow venue degrades the requesting command, never the
// process.
type Client struct {
	baseURL string
	http    *http.Client
	log     logger.Logger
}

func NewClient(settings core.HyperliquidSettings, log logger.Logger) *Client {
	return &Client{
		baseURL: settings.APIURL,
		http:    &http.Client{Timeout: settings.RequestTimeout},
		log:     log,
	}
}

// SpotMetaAndAssetCtxs fetches the spot market metadata snapshot. The
// response is a two-element array; only the metadata half is of interest.
func (c *Client) SpotMetaAndAssetCtxs(ctx context.Context) (*SpotMeta, error) {
	var parts []json.RawMessage
	if err := c.post(ctx, map[string]string{"type": "spotMetaAndAssetCtxs"}, &parts); err != nil {
		return nil, err
	}

	if len(parts) == 0 {
		return nil, fmt.Errorf("spot metadata response is empty")
	}

	var meta SpotMeta
	if err := json.Unmarshal(parts[0], &meta); err != nil {
		return nil, fmt.Errorf("failed to decode spot metadata: %w", err)
	}

	return &meta, nil
}

// UserState fetches the perpetual clearinghouse snapshot for a wallet.
func (c *Client) UserState(ctx context.Context, address string) (*UserState, error) {
	var state UserState
	err := c.post(ctx, map[string]string{"type": "clearinghouseState", "user": address}, &state)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user state for %s: %w", address, err)
	}
	return &state, nil
}

// SpotUserState fetches the spot balance snapshot for a wallet.
func (c *Client) SpotUserState(ctx context.Context, address string) (*SpotState, error) {
	var state SpotState
	err := c.post(ctx, map[string]string{"type": "spotClearinghouseState", "user": address}, &state)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch spot balances for %s: %w", address, err)
	}
	return &state, nil
}

func (c *Client) post(ctx context.Context, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal info request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/info", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build info request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("info request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("info request returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode info response: %w", err)
	}

	return nil
}
