// Package tags derives descriptive labels for a place from its review
// and mention text using fixed per-label vocabularies.
package tags

import (
	"sort"
	"strings"
)

// vocabularies maps each tag label to the words that evidence it. Matches
// are whole-word against lowercased text; multi-word entries match as
// substrings.
var vocabularies = map[string][]string{
	"romantic": {"romantic", "love", "amorous", "intimate", "passionate", "lovey-dovey",
		"fairy-tale", "anniversary", "monthsary", "date", "loved one",
		"significant other", "couples", "couple"},
	"nature": {"nature", "animal", "plant", "garden", "flora", "tree", "flower",
		"lake", "river", "mountain", "hike", "trail", "aquatic", "aquarium",
		"zoo", "creature", "marine", "sea", "beach", "ocean", "fauna", "botanical",
		"tropical", "forest"},
	"relax": {"relax", "idyllic", "peaceful", "tranquil", "zen", "peace", "calm",
		"soothing", "chill", "slow pace", "quiet", "oasis"},
	"family": {"family", "child", "children", "kid", "family-friendly"},
	"adventure": {"adventure", "adventurous", "adrenaline", "thrill", "thrill-seekers",
		"roller coaster", "exciting", "fun filled", "heart pumping",
		"thrilling", "adrenaline junkie", "bungee jump"},
	"shopping": {"shopping", "shop", "mall", "deal", "buy", "retail", "retailer",
		"boutique", "brand", "sale", "outlet", "purchase", "clothing",
		"clothes", "souvenirs", "trinkets", "item", "fashion"},
	"nightlife": {"nightlife", "bar", "bars", "drink", "drinks", "sip", "club",
		"music", "dj", "techno", "rnb", "party", "late night", "clubbing", "dance",
		"dancing", "night out", "cocktail", "cocktails", "gin", "whiskey", "tequila"},
	"foodie": {"foodie", "food", "cafe", "eat", "delicious", "lunch", "dinner", "restaurant",
		"restaurants", "tasty", "taste", "meal"},
	"cultural": {"cultural", "culture", "heritage", "art", "antique", "unesco",
		"architecture", "medieval", "museum", "gallery", "exhibit", "sculpture", "painting"},
}

// Derive returns the sorted set of tag labels evidenced by any of the
// source texts.
func Derive(texts []string) []string {
	var matched []string
	for label, words := range vocabularies {
		if anyTextMatches(texts, words) {
			matched = append(matched, label)
		}
	}
	sort.Strings(matched)
	return matched
}

func anyTextMatches(texts, words []string) bool {
	for _, text := range texts {
		lowered := strings.ToLower(text)
		tokens := tokenSet(lowered)
		for _, word := range words {
			if strings.Contains(word, " ") || strings.Contains(word, "-") {
				if strings.Contains(lowered, word) {
					return true
				}
				continue
			}
			if _, ok := tokens[word]; ok {
				return true
			}
		}
	}
	return false
}

func tokenSet(lowered string) map[string]struct{} {
	fields := strings.FieldsFunc(lowered, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '\'')
	})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
