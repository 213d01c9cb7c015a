// Package resolver canonicalizes free-text location mentions against an
// interactive map surface.
package resolver

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/atlas-travel/places-cli/internal/faults"
	"github.com/atlas-travel/places-cli/internal/model"
)

// MapSession is one attached browsing session against the map surface.
// Implementations own navigation, waiting, and DOM access; the resolver
// only issues queries and reads what came back.
type MapSession interface {
	Navigate(ctx context.Context, query string) error
	CurrentLocator() string
	PageContains(text string) bool
	ResultLabels() []string
	ClickResult(ctx context.Context, label string) error
	Field(label string) (string, bool)
	Reviews(limit int) []model.Review
}

// negativePhrases on the result page mean the query matched nothing
// usable. Checked before any locator parsing.
var negativePhrases = []string{
	"Partial match",
	"No results found for",
	"Google Maps can't find",
}

// resultsForMarker flags the disambiguation list page.
const resultsForMarker = "Results for"

// boilerplateLabels are chrome elements that show up in the result list
// and must never be clicked. Compared lowercased.
var boilerplateLabels = map[string]struct{}{
	"none":                              {},
	"google maps":                       {},
	"map":                               {},
	"clear search":                      {},
	"available filters for this search": {},
	"see more":                          {},
	"i agree":                           {},
}

// fieldLabels maps record keys to the aria labels the map surface uses
// for them. Every detail the record carries goes through this table.
var fieldLabels = map[string]string{
	"address":      "Address",
	"phone_number": "Phone",
	"website":      "Website",
	"price":        "Price",
	"plus_code":    "Plus code",
	"hours":        "Hours",
	"ratings":      "Rating",
	"category":     "Category",
}

// Resolver turns a raw keyword into a canonical place identity by
// querying the map surface scoped to a place and country.
type Resolver struct {
	session MapSession
	place   string
	country string
}

// New creates a Resolver over an attached map session.
func New(session MapSession, place, country string) *Resolver {
	return &Resolver{session: session, place: place, country: country}
}

// Query builds the scoped search query for a keyword.
func (r *Resolver) Query(keyword string) string {
	parts := []string{keyword, r.place, r.country}
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// Resolve looks up a keyword and returns its canonical identity.
// Returns faults.ErrNotFound when the surface has no usable match.
func (r *Resolver) Resolve(ctx context.Context, keyword string) (*model.PlaceIdentity, error) {
	query := r.Query(keyword)
	if err := r.session.Navigate(ctx, query); err != nil {
		return nil, eris.Wrapf(err, "resolver: navigate %q", query)
	}

	for _, phrase := range negativePhrases {
		if r.session.PageContains(phrase) {
			zap.L().Debug("resolver: negative result",
				zap.String("keyword", keyword), zap.String("phrase", phrase))
			return nil, faults.ErrNotFound
		}
	}

	// Ambiguous query: the surface shows a result list instead of a
	// place page. Take the first real entry.
	if r.session.PageContains(resultsForMarker) {
		label := r.firstSelectable(query)
		if label == "" {
			return nil, faults.ErrNotFound
		}
		if err := r.session.ClickResult(ctx, label); err != nil {
			return nil, eris.Wrapf(err, "resolver: click result %q", label)
		}
	}

	locator := r.session.CurrentLocator()
	parsed := ParseLocator(locator)
	if parsed.Name == "" {
		zap.L().Warn("resolver: locator has no name segment",
			zap.String("keyword", keyword), zap.String("locator", locator))
		return nil, faults.ErrNotFound
	}

	return &model.PlaceIdentity{
		CanonicalName: parsed.Name,
		Coords:        parsed.Coords,
		CanonicalURL:  locator,
	}, nil
}

// firstSelectable returns the first result label that is not boilerplate
// chrome or the echoed query header.
func (r *Resolver) firstSelectable(query string) string {
	echoed := strings.ToLower(resultsForMarker + " " + query)
	for _, label := range r.session.ResultLabels() {
		lowered := strings.ToLower(strings.TrimSpace(label))
		if lowered == "" || lowered == echoed {
			continue
		}
		if _, skip := boilerplateLabels[lowered]; skip {
			continue
		}
		return label
	}
	return ""
}

// FieldValue reads one record field off the current place page. An
// unknown key means the mapping table is out of date, which is fatal.
func (r *Resolver) FieldValue(key string) (string, error) {
	label, ok := fieldLabels[key]
	if !ok {
		return "", faults.Configf("no field label mapped for key %q", key)
	}
	value, _ := r.session.Field(label)
	return value, nil
}

// BuildRecord reads every mapped field off the current place page into a
// source record. Absent fields are simply omitted.
func (r *Resolver) BuildRecord() model.SourceRecord {
	record := model.SourceRecord{}
	for key, label := range fieldLabels {
		if value, ok := r.session.Field(label); ok && value != "" {
			record[key] = value
		}
	}
	return record
}

// BuildReviewData collects the review payload for the current place page.
func (r *Resolver) BuildReviewData(identity *model.PlaceIdentity, limit int) model.ReviewData {
	address, _ := r.session.Field(fieldLabels["address"])
	hours, _ := r.session.Field(fieldLabels["hours"])
	return model.ReviewData{
		Name:    identity.CanonicalName,
		URL:     identity.CanonicalURL,
		Address: address,
		Hours:   hours,
		Reviews: r.session.Reviews(limit),
	}
}
