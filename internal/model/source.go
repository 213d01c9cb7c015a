package model

import "github.com/atlas-travel/places-cli/internal/faults"

// SourceKind identifies a third-party place-data source.
type SourceKind string

const (
	KindFoursquare       SourceKind = "foursquare"
	KindFoursquareDetail SourceKind = "foursquare_detail"
	KindHere             SourceKind = "here"

	// KindReviews is the review-site scraper. Not selectable as the data
	// source; named here so the validator mapping table can cover it.
	KindReviews SourceKind = "reviews"
)

// ParseSourceKind validates a configured source kind. Unknown kinds are a
// configuration defect, not a runtime condition.
func ParseSourceKind(s string) (SourceKind, error) {
	switch SourceKind(s) {
	case KindFoursquare, KindFoursquareDetail, KindHere:
		return SourceKind(s), nil
	default:
		return "", faults.Configf("unrecognized source kind %q", s)
	}
}

// QuotaSources returns every quota pool the kind draws from. The detail
// tier shares the base Foursquare pool, so it must clear both.
func (k SourceKind) QuotaSources() []string {
	if k == KindFoursquareDetail {
		return []string{string(KindFoursquareDetail), string(KindFoursquare)}
	}
	return []string{string(k)}
}
