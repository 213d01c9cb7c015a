// Package tripadvisor scrapes review pages from the review site. The
// site has no public API, so this client fetches the public search and
// attraction pages and reads the structured-data blocks embedded in them.
package tripadvisor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Options configures the client.
type Options struct {
	BaseURL        string // default https://www.tripadvisor.com
	UserAgent      string
	Timeout        time.Duration
	RequestsPerSec float64
}

// Review is one scraped review.
type Review struct {
	Text   string
	Rating string
	Date   string
}

// Place is the scraped payload for one attraction.
type Place struct {
	Name           string
	URL            string
	Address        string
	SuggestedHours string // as published, "N/A" when absent
	Reviews        []Review
}

// Client fetches attraction pages politely: one shared rate limiter
// covers every request.
type Client struct {
	httpClient *http.Client
	opts       Options
	limiter    *rate.Limiter
}

// NewClient creates a review-site client.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://www.tripadvisor.com"
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RequestsPerSec == 0 {
		opts.RequestsPerSec = 1
	}
	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		opts:       opts,
		limiter:    rate.NewLimiter(rate.Limit(opts.RequestsPerSec), 1),
	}
}

var (
	// First attraction link on a search result page.
	attractionLink = regexp.MustCompile(`/Attraction_Review-[^"' ]+\.html`)
	// JSON-LD block with schema.org data.
	jsonLD = regexp.MustCompile(`(?s)<script type="application/ld\+json">(.*?)</script>`)
	// Published visit-duration hint.
	suggestedHours = regexp.MustCompile(`(?i)(?:suggested duration|duration):?\s*(?:</[^>]+>\s*<[^>]+>)?\s*([^<]{1,40}?)\s*<`)
	// Review body spans.
	reviewBody = regexp.MustCompile(`(?s)<q class="[^"]*"><span>(.*?)</span>`)
	tagStrip   = regexp.MustCompile(`<[^>]+>`)
)

// FetchReviews locates the attraction page for a place name and scrapes
// its reviews and published metadata. Returns nil when no attraction
// page could be found.
func (c *Client) FetchReviews(ctx context.Context, name, country string, limit int) (*Place, error) {
	searchURL := c.opts.BaseURL + "/Search?q=" + url.QueryEscape(name+" "+country)
	searchPage, err := c.get(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	link := attractionLink.FindString(searchPage)
	if link == "" {
		zap.L().Debug("tripadvisor: no attraction page", zap.String("name", name))
		return nil, nil
	}

	pageURL := c.opts.BaseURL + link
	page, err := c.get(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	place := &Place{URL: pageURL, SuggestedHours: "N/A"}
	c.fillStructuredData(place, page)
	if m := suggestedHours.FindStringSubmatch(page); m != nil {
		place.SuggestedHours = strings.TrimSpace(m[1])
	}
	place.Reviews = extractReviews(page, limit)
	return place, nil
}

// fillStructuredData reads name and address from the page's JSON-LD.
func (c *Client) fillStructuredData(place *Place, page string) {
	for _, m := range jsonLD.FindAllStringSubmatch(page, -1) {
		var data struct {
			Name    string `json:"name"`
			Address struct {
				StreetAddress   string `json:"streetAddress"`
				AddressLocality string `json:"addressLocality"`
			} `json:"address"`
		}
		if err := json.Unmarshal([]byte(m[1]), &data); err != nil {
			continue
		}
		if data.Name != "" && place.Name == "" {
			place.Name = data.Name
		}
		if data.Address.StreetAddress != "" && place.Address == "" {
			place.Address = strings.TrimSpace(strings.Join(
				[]string{data.Address.StreetAddress, data.Address.AddressLocality}, ", "))
		}
	}
}

func extractReviews(page string, limit int) []Review {
	var reviews []Review
	for _, m := range reviewBody.FindAllStringSubmatch(page, -1) {
		text := strings.TrimSpace(tagStrip.ReplaceAllString(m[1], " "))
		if text == "" {
			continue
		}
		reviews = append(reviews, Review{Text: text})
		if limit > 0 && len(reviews) >= limit {
			break
		}
	}
	return reviews
}

func (c *Client) get(ctx context.Context, rawURL string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", eris.Wrap(err, "tripadvisor: rate limiter wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", eris.Wrap(err, "tripadvisor: create request")
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", eris.Wrapf(err, "tripadvisor: get %s", rawURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", eris.New(fmt.Sprintf("tripadvisor: status %d from %s", resp.StatusCode, rawURL))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", eris.Wrap(err, "tripadvisor: read page")
	}
	return string(body), nil
}
