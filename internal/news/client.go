// Package news proxies the upstream article provider and caches its
// responses. Article objects are treated as an opaque external contract and
// pass through undecoded.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"newsportal/api/internal/config"
)

// Response mirrors the provider's envelope. Articles stay raw so snapshots
// survive byte-for-byte.
type Response struct {
	Status       string            `json:"status"`
	TotalResults int               `json:"totalResults"`
	Articles     []json.RawMessage `json:"articles"`
	Code         string            `json:"code,omitempty"`
	Message      string            `json:"message,omitempty"`
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewClient(cfg config.NewsConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
	}
}

// TopHeadlines queries /top-headlines with the given parameters.
func (c *Client) TopHeadlines(ctx context.Context, params url.Values) (*Response, error) {
	return c.get(ctx, "/top-headlines", params)
}

// Everything runs a full-text search ordered by publication time.
func (c *Client) Everything(ctx context.Context, query string, page int, pageSize int) (*Response, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("sortBy", "publishedAt")
	params.Set("page", strconv.Itoa(page))
	params.Set("pageSize", strconv.Itoa(pageSize))
	return c.get(ctx, "/everything", params)
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (*Response, error) {
	params = cloneValues(params)
	params.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	var decoded Response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", path, err)
	}
	return &decoded, nil
}

func cloneValues(params url.Values) url.Values {
	cloned := make(url.Values, len(params)+1)
	for key, values := range params {
		cloned[key] = append([]string(nil), values...)
	}
	return cloned
}
