// Package duration infers a visit duration in hours from free-text
// mentions and reconciles it with a category-derived prior.
package duration

import (
	"context"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/atlas-travel/places-cli/internal/nlp"
)

// snapOptions is the fixed set every estimate lands on. Order matters:
// ties snap to the earlier option.
var snapOptions = []float64{0.5, 1, 2, 3, 4, 5, 8}

// durationKeywords gate which sentences are worth tagging; filterKeywords
// veto sentences about queueing rather than visiting.
var (
	durationKeywords = []string{"spend", "spent", "took"}
	filterKeywords   = []string{"queue", "wait"}
)

// tokenDelimiters split entity phrases into tokens. Range markers like
// "2-3 hours" or "~2 hours" break into clean numeric tokens.
const tokenDelimiters = "+- ~></"

var wordNumbers = map[string]float64{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// Snap returns the nearest member of the fixed option set.
func Snap(v float64) float64 {
	best := snapOptions[0]
	bestDiff := math.Abs(v - best)
	for _, opt := range snapOptions[1:] {
		if diff := math.Abs(v - opt); diff < bestDiff {
			best, bestDiff = opt, diff
		}
	}
	return best
}

// Estimator turns duration mentions into a canonical hour value.
type Estimator struct {
	extractor nlp.Extractor
}

// New creates an Estimator over an entity extractor.
func New(extractor nlp.Extractor) *Estimator {
	return &Estimator{extractor: extractor}
}

// Estimate scans the source texts for duration mentions and returns the
// reconciled estimate in hours. With no usable mentions the prior is
// returned as-is, which may be nil.
func (e *Estimator) Estimate(ctx context.Context, sourceTexts []string, prior *float64, highPriority bool) *float64 {
	var values []float64
	for _, text := range sourceTexts {
		for _, sentence := range e.extractor.Sentences(text) {
			if !durationSentence(sentence) {
				continue
			}
			entities, err := e.extractor.Entities(ctx, sentence)
			if err != nil {
				zap.L().Debug("duration: entity extraction failed",
					zap.String("sentence", sentence), zap.Error(err))
				continue
			}
			for _, ent := range entities {
				if ent.Label != nlp.LabelTime && ent.Label != nlp.LabelDate {
					continue
				}
				if hours, ok := PhraseHours(ent.Text); ok {
					values = append(values, hours)
				}
			}
		}
	}

	if len(values) == 0 {
		return prior
	}

	computed := Snap(mean(rejectOutliers(values)))
	return reconcile(computed, prior, highPriority)
}

// durationSentence reports whether a sentence mentions spending time and
// is not about queueing.
func durationSentence(sentence string) bool {
	lowered := strings.ToLower(sentence)
	for _, filter := range filterKeywords {
		if strings.Contains(lowered, filter) {
			return false
		}
	}
	for _, keyword := range durationKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

// PhraseHours converts one entity phrase to an hour value. The rules are
// ordered most-specific first; an unmatched phrase is discarded, never an
// error.
func PhraseHours(phrase string) (float64, bool) {
	tokens := tokenize(phrase)
	if len(tokens) == 0 {
		return 0, false
	}
	has := func(words ...string) bool {
		for _, t := range tokens {
			for _, w := range words {
				if t == w {
					return true
				}
			}
		}
		return false
	}

	hourUnit := has("hour", "hours", "hr", "hrs")
	minuteUnit := has("minute", "minutes", "min", "mins")
	dayUnit := has("day", "days")

	switch {
	case has("day") && !has("half") && has("one", "a", "all", "whole", "entire", "the", "full"):
		return 8, true
	case len(tokens) == 1 && tokens[0] == "hours":
		return 4, true
	case has("several", "few", "many") && hourUnit:
		return 4, true
	case has("a", "an", "the") && has("afternoon", "morning", "night", "evening"):
		return 2, true
	case has("a", "an", "the") && has("hour", "hr"):
		return 1, true
	case has("half") && dayUnit:
		return 5, true
	case has("couple") && hourUnit:
		return 2, true
	case minuteUnit:
		if n, ok := maxNumber(tokens); ok {
			return Snap(n / 60), true
		}
		return 0, false
	case hourUnit:
		if n, ok := maxNumber(tokens); ok {
			return Snap(n), true
		}
		return 0, false
	case dayUnit:
		// Multi-day mentions are unreliable; only a single day converts.
		if n, ok := maxNumber(tokens); ok && n*8 <= 8 {
			return n * 8, true
		}
		return 0, false
	default:
		return 0, false
	}
}

func tokenize(phrase string) []string {
	return strings.FieldsFunc(strings.ToLower(phrase), func(r rune) bool {
		return strings.ContainsRune(tokenDelimiters, r)
	})
}

// maxNumber returns the largest numeric token, converting number words.
// Ranges like "2-3 hours" resolve to the upper end.
func maxNumber(tokens []string) (float64, bool) {
	var best float64
	found := false
	for _, t := range tokens {
		n, ok := wordNumbers[t]
		if !ok {
			var err error
			n, err = strconv.ParseFloat(t, 64)
			if err != nil {
				continue
			}
		}
		if !found || n > best {
			best = n
		}
		found = true
	}
	return best, found
}

// rejectOutliers drops values more than one standard deviation from the
// mean, keeping the original set if the rule would empty it.
func rejectOutliers(values []float64) []float64 {
	if len(values) < 2 {
		return values
	}
	m := mean(values)
	var variance float64
	for _, v := range values {
		variance += (v - m) * (v - m)
	}
	sigma := math.Sqrt(variance / float64(len(values)))

	var kept []float64
	for _, v := range values {
		if math.Abs(v-m) <= sigma {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		return values
	}
	return kept
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// reconcile applies the prior. High-priority categories trust the prior
// unless the computed value sits strictly inside the ±20% window; low
// priority only caps from above.
func reconcile(computed float64, prior *float64, highPriority bool) *float64 {
	if prior == nil {
		return &computed
	}
	if highPriority {
		lower, upper := *prior*0.8, *prior*1.2
		if computed > lower && computed < upper {
			return &computed
		}
		return prior
	}
	if computed > *prior {
		return prior
	}
	return &computed
}
