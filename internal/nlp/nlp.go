// Package nlp provides sentence segmentation and named-entity tagging
// for free text. Duration inference treats it as a black box.
package nlp

import "context"

// EntityLabel classifies a tagged span.
type EntityLabel string

const (
	LabelTime EntityLabel = "TIME"
	LabelDate EntityLabel = "DATE"
	LabelLoc  EntityLabel = "LOC"
)

// Entity is one tagged span of text.
type Entity struct {
	Text  string
	Label EntityLabel
}

// Extractor segments text and tags entities.
type Extractor interface {
	Sentences(text string) []string
	Entities(ctx context.Context, sentence string) ([]Entity, error)
}
