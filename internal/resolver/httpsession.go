package resolver

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/atlas-travel/places-cli/internal/model"
)

// HTTPSession implements MapSession over plain HTTP. An unambiguous
// search redirects straight to a place page, so the final URL after
// redirects is the locator. One session holds one current page.
type HTTPSession struct {
	client    *http.Client
	baseURL   string
	userAgent string
	limiter   *rate.Limiter

	current string
	page    string
}

// HTTPSessionOptions configures an HTTPSession.
type HTTPSessionOptions struct {
	BaseURL        string // default https://www.google.com/maps
	UserAgent      string
	Timeout        time.Duration
	RequestsPerSec float64
}

// NewHTTPSession creates a session.
func NewHTTPSession(opts HTTPSessionOptions) *HTTPSession {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://www.google.com/maps"
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
	return &HTTPSession{
		client:    &http.Client{Timeout: opts.Timeout},
		baseURL:   opts.BaseURL,
		userAgent: opts.UserAgent,
		limiter:   rate.NewLimiter(rate.Limit(opts.RequestsPerSec), 1),
	}
}

var (
	ariaLabel  = regexp.MustCompile(`aria-label="([^"]+)"`)
	fieldValue = regexp.MustCompile(`aria-label="([^":]+):\s*([^"]+)"`)
	reviewSpan = regexp.MustCompile(`(?s)<span class="review-full-text"[^>]*>(.*?)</span>`)
	htmlTag    = regexp.MustCompile(`<[^>]+>`)
)

func (s *HTTPSession) Navigate(ctx context.Context, query string) error {
	return s.load(ctx, s.baseURL+"/search/"+url.PathEscape(query))
}

func (s *HTTPSession) CurrentLocator() string { return s.current }

func (s *HTTPSession) PageContains(text string) bool {
	return strings.Contains(s.page, text)
}

func (s *HTTPSession) ResultLabels() []string {
	var labels []string
	for _, m := range ariaLabel.FindAllStringSubmatch(s.page, -1) {
		labels = append(labels, m[1])
	}
	return labels
}

// ClickResult follows a result entry by navigating to its place page.
func (s *HTTPSession) ClickResult(ctx context.Context, label string) error {
	return s.load(ctx, s.baseURL+"/place/"+url.PathEscape(label))
}

// Field reads a labelled value off the current page. Labels arrive as
// "Address: 1 Some Road" aria attributes.
func (s *HTTPSession) Field(label string) (string, bool) {
	for _, m := range fieldValue.FindAllStringSubmatch(s.page, -1) {
		if strings.EqualFold(strings.TrimSpace(m[1]), label) {
			return strings.TrimSpace(m[2]), true
		}
	}
	return "", false
}

func (s *HTTPSession) Reviews(limit int) []model.Review {
	var reviews []model.Review
	for _, m := range reviewSpan.FindAllStringSubmatch(s.page, -1) {
		text := strings.TrimSpace(htmlTag.ReplaceAllString(m[1], " "))
		if text == "" {
			continue
		}
		reviews = append(reviews, model.Review{Text: text})
		if limit > 0 && len(reviews) >= limit {
			break
		}
	}
	return reviews
}

func (s *HTTPSession) load(ctx context.Context, rawURL string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "map session: rate limiter wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return eris.Wrap(err, "map session: create request")
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return eris.Wrapf(err, "map session: get %s", rawURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("map session: status %d from %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "map session: read page")
	}

	// The URL after redirects is the canonical locator.
	s.current = resp.Request.URL.String()
	s.page = string(body)
	return nil
}
