// Package foursquare is a minimal client for the Foursquare venues API.
package foursquare

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
	ClientID     string
	ClientSecret string
	BaseURL      string // default https://api.foursquare.com/v2
	Version      string // API version date, e.g. 20200819
	Timeout      time.Duration
}

// Client calls the Foursquare venues API. The basic tier searches; the
// premium detail tier fetches one full venue per call.
type Client struct {
	httpClient *http.Client
	opts       Options
}

// NewClient creates a Foursquare client.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.foursquare.com/v2"
	}
	if opts.Version == "" {
		opts.Version = "20200819"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 20 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		opts:       opts,
	}
}

// Search runs a venue search and returns the first venue, or nil when
// the query matched nothing.
func (c *Client) Search(ctx context.Context, query, near string) (map[string]any, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("near", near)
	params.Set("limit", "1")

	body, err := c.get(ctx, "/venues/search", params)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Response struct {
			Venues []map[string]any `json:"venues"`
		} `json:"response"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, eris.Wrap(err, "foursquare: decode search response")
	}
	if len(payload.Response.Venues) == 0 {
		zap.L().Debug("foursquare: no venues", zap.String("query", query))
		return nil, nil
	}
	return payload.Response.Venues[0], nil
}

// Details fetches the full venue record for an id. The raw envelope is
// returned so callers can read response.venue.* paths.
func (c *Client) Details(ctx context.Context, venueID string) (map[string]any, error) {
	body, err := c.get(ctx, "/venues/"+url.PathEscape(venueID), url.Values{})
	if err != nil {
		return nil, err
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, eris.Wrap(err, "foursquare: decode venue details")
	}
	return payload, nil
}

// VenueID extracts the id from a search result.
func VenueID(venue map[string]any) string {
	id, _ := venue["id"].(string)
	return id
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	params.Set("client_id", c.opts.ClientID)
	params.Set("client_secret", c.opts.ClientSecret)
	params.Set("v", c.opts.Version)

	endpoint := c.opts.BaseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, eris.Wrap(err, "foursquare: create request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "foursquare: get %s", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.New(fmt.Sprintf("foursquare: status %d from %s", resp.StatusCode, path))
	}
	return io.ReadAll(resp.Body)
}
