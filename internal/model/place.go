// Package model defines the domain types shared across the reconciliation engine.
package model

import "strings"

// Keyword is a candidate location mention harvested from a web page. The
// header and paragraph it was mined from travel with it for provenance.
// A keyword is consumed exactly once per run and never mutated.
type Keyword struct {
	Text      string `json:"text"`
	Header    string `json:"header,omitempty"`
	Paragraph string `json:"paragraph,omitempty"`
	Website   string `json:"website,omitempty"`
}

// Coordinates is a lon/lat pair extracted from a map locator.
type Coordinates struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// PlaceIdentity is the canonical identity of a resolved place. Identity
// equality is exact, case-sensitive CanonicalName — that name is the sole
// dedup key across runs and checkpoint blobs.
type PlaceIdentity struct {
	CanonicalName string       `json:"canonical_name"`
	Coords        *Coordinates `json:"coords,omitempty"`
	CanonicalURL  string       `json:"canonical_url"`
}

// SourceRecord is the loosely-typed payload returned by a third-party
// source. Validity is provisional until it passes the validator.
type SourceRecord map[string]any

// Empty reports whether the record carries no data.
func (r SourceRecord) Empty() bool { return len(r) == 0 }

// StringAt walks nested maps along path and returns the string value at
// the leaf. A []any leaf is joined with ", " (address lists arrive that
// way). Returns "" when any path segment is missing or mistyped.
func (r SourceRecord) StringAt(path ...string) string {
	var cur any = map[string]any(r)
	for _, seg := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			if sr, isRecord := cur.(SourceRecord); isRecord {
				m = sr
			} else {
				return ""
			}
		}
		cur, ok = m[seg]
		if !ok {
			return ""
		}
	}
	switch v := cur.(type) {
	case string:
		return v
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(v, ", ")
	default:
		return ""
	}
}

// Review is a single scraped review.
type Review struct {
	Text   string `json:"text"`
	Rating string `json:"rating,omitempty"`
	Date   string `json:"date,omitempty"`
}

// ReviewData is the review-site fetch result for a place.
type ReviewData struct {
	Name    string   `json:"name,omitempty"`
	URL     string   `json:"url,omitempty"`
	Address string   `json:"address,omitempty"`
	Hours   string   `json:"hours,omitempty"` // suggested visit duration as published, "N/A" when absent
	Reviews []Review `json:"reviews,omitempty"`
}

// Empty reports whether the fetch produced nothing usable.
func (d ReviewData) Empty() bool {
	return len(d.Reviews) == 0 && d.Name == "" && d.Address == ""
}

// ReconciliationResult is the merged record for one resolved place. It is
// written once, keyed by Name, and never mutated after write.
type ReconciliationResult struct {
	Name          string        `json:"name"`
	Identity      PlaceIdentity `json:"identity"`
	Keyword       Keyword       `json:"keyword"`
	SourceKind    string        `json:"source_kind"`
	Primary       SourceRecord  `json:"primary,omitempty"`
	Secondary     SourceRecord  `json:"secondary,omitempty"`
	ReviewData    ReviewData    `json:"review_data,omitempty"`
	DurationHours *float64      `json:"duration_hours,omitempty"`
	Tags          []string      `json:"tags,omitempty"`
}
