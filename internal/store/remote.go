package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hilite-dev/hilite/internal/anchor"
)

// Client talks to a remote key-value HTTP API: PUT/GET/DELETE on
// {base}/kv/{key} with bearer auth. A GET 404 means the slot was never
// written.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) Save(ctx context.Context, key string, pair anchor.Pair) error {
	body, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("marshal selection: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/kv/"+key, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("put slot: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("put slot %s: status %d: %s", key, resp.StatusCode, readErrorBody(resp.Body))
	}
	return nil
}

func (c *Client) Load(ctx context.Context, key string) (anchor.Pair, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/kv/"+key, nil)
	if err != nil {
		return anchor.Pair{}, false, fmt.Errorf("create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return anchor.Pair{}, false, fmt.Errorf("get slot: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return anchor.Pair{}, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return anchor.Pair{}, false, fmt.Errorf("get slot %s: status %d: %s", key, resp.StatusCode, readErrorBody(resp.Body))
	}

	var pair anchor.Pair
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		return anchor.Pair{}, false, fmt.Errorf("decode slot: %w", err)
	}
	return pair, true, nil
}

func (c *Client) Delete(ctx context.Context, key string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/kv/"+key, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return nil
	default:
		return fmt.Errorf("delete slot %s: status %d: %s", key, resp.StatusCode, readErrorBody(resp.Body))
	}
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func readErrorBody(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 1024))
	return string(b)
}
