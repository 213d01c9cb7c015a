// Package here is a minimal client for the HERE discover API.
package here

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Options configures the client.
type Options struct {
	Key     string
	BaseURL string // default https://discover.search.hereapi.com/v1
	Timeout time.Duration
}

// Client calls the HERE discover endpoint.
type Client struct {
	httpClient *http.Client
	opts       Options
}

// NewClient creates a HERE client.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://discover.search.hereapi.com/v1"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 20 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		opts:       opts,
	}
}

// Discover searches for a place near the anchor point and returns the
// first item, or nil when nothing matched.
func (c *Client) Discover(ctx context.Context, query string, lat, lon float64) (map[string]any, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("at", fmt.Sprintf("%f,%f", lat, lon))
	params.Set("limit", "1")
	params.Set("apiKey", c.opts.Key)

	endpoint := c.opts.BaseURL + "/discover?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, eris.Wrap(err, "here: create request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "here: discover %q", query)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.New(fmt.Sprintf("here: status %d from discover", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "here: read response")
	}

	var payload struct {
		Items []map[string]any `json:"items"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, eris.Wrap(err, "here: decode response")
	}
	if len(payload.Items) == 0 {
		zap.L().Debug("here: no items", zap.String("query", query))
		return nil, nil
	}
	return payload.Items[0], nil
}
