// Package validate decides whether a fetched source record describes the
// same place that was resolved on the map surface.
package validate

import (
	"strings"
	"unicode"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/atlas-travel/places-cli/internal/faults"
	"github.com/atlas-travel/places-cli/internal/model"
)

// DefaultThreshold is the minimum fuzzy score for a sub-check to pass.
const DefaultThreshold = 50

// fieldPaths locates the name and address inside a source record. Each
// kind returns a differently shaped payload, so the paths are per-kind.
type fieldPaths struct {
	name    []string
	address []string
}

var kindPaths = map[model.SourceKind]fieldPaths{
	model.KindFoursquare: {
		name:    []string{"name"},
		address: []string{"location", "formattedAddress"},
	},
	model.KindFoursquareDetail: {
		name:    []string{"response", "venue", "name"},
		address: []string{"response", "venue", "location", "formattedAddress"},
	},
	model.KindHere: {
		name:    []string{"title"},
		address: []string{"address", "label"},
	},
	model.KindReviews: {
		name:    []string{"name"},
		address: []string{"address"},
	},
}

// Validator scores source records against a resolved identity.
type Validator struct {
	threshold int
}

// New creates a Validator with the default score threshold.
func New() *Validator {
	return &Validator{threshold: DefaultThreshold}
}

// stripMarks removes diacritic marks after canonical decomposition.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalize lowercases and strips diacritics so "Café" and "cafe" score
// as equals.
func normalize(s string) string {
	if out, _, err := transform.String(stripMarks, s); err == nil {
		s = out
	}
	return strings.ToLower(strings.TrimSpace(s))
}

// streetOnly trims an address to its first comma-separated segment.
func streetOnly(address string) string {
	return strings.TrimSpace(strings.SplitN(address, ",", 2)[0])
}

// usable reports whether a field value can participate in a check.
func usable(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && !strings.EqualFold(s, "N/A")
}

// Validate scores the record's name and address against the expected
// identity. The checks are OR-ed: either one passing accepts the record.
// A rejected record comes back empty so it can never be merged. Unknown
// kinds are a configuration defect.
func (v *Validator) Validate(kind model.SourceKind, expectedName, expectedAddress string, record model.SourceRecord) (model.SourceRecord, error) {
	paths, ok := kindPaths[kind]
	if !ok {
		return nil, faults.Configf("no validation paths for source kind %q", kind)
	}
	if record.Empty() {
		return model.SourceRecord{}, nil
	}

	matched := false

	candidateName := record.StringAt(paths.name...)
	if usable(candidateName) && usable(expectedName) {
		score := fuzzy.TokenSetRatio(normalize(expectedName), normalize(candidateName))
		if score >= v.threshold {
			matched = true
		}
	}

	candidateAddress := record.StringAt(paths.address...)
	if !matched && usable(candidateAddress) && usable(expectedAddress) {
		// Only the street portions are compared; city, postal code, and
		// country are noise that drags the score down.
		score := fuzzy.TokenSortRatio(normalize(streetOnly(expectedAddress)), normalize(streetOnly(candidateAddress)))
		if score >= v.threshold {
			matched = true
		}
	}

	if !matched {
		zap.L().Debug("validate: record rejected",
			zap.String("kind", string(kind)),
			zap.String("expected", expectedName),
			zap.String("candidate", candidateName))
		return model.SourceRecord{}, nil
	}
	return record, nil
}
