package nlp

import (
	"regexp"
	"strings"
)

// sentenceEnd matches a terminator followed by whitespace. Abbreviations
// will over-split occasionally; duration inference tolerates that.
var sentenceEnd = regexp.MustCompile(`[.!?]+[\s\n]+`)

// SplitSentences segments text on sentence terminators.
func SplitSentences(text string) []string {
	var sentences []string
	for _, s := range sentenceEnd.Split(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}
