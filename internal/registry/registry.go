// Package registry holds category-derived visit-duration priors.
package registry

import (
	"sort"
	"strings"
)

// Prior is the expected visit duration for a place category.
// HighPriority categories hold the estimate to a ±20% window; the rest
// only cap it.
type Prior struct {
	Category     string  `yaml:"category" json:"category"`
	Hours        float64 `yaml:"hours" json:"hours"`
	HighPriority bool    `yaml:"high_priority" json:"high_priority"`
}

// Registry answers prior lookups by category or derived tag.
type Registry struct {
	priors []Prior
}

// New builds a Registry. Priors are ordered longest-category-first so the
// most specific match wins.
func New(priors []Prior) *Registry {
	sorted := make([]Prior, len(priors))
	copy(sorted, priors)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Category) > len(sorted[j].Category)
	})
	return &Registry{priors: sorted}
}

// Lookup finds the prior for a place. The category string is checked
// first, then the derived tags; matching is case-insensitive containment.
func (r *Registry) Lookup(category string, tags []string) (Prior, bool) {
	if r == nil {
		return Prior{}, false
	}
	category = strings.ToLower(category)
	for _, p := range r.priors {
		if category != "" && strings.Contains(category, strings.ToLower(p.Category)) {
			return p, true
		}
	}
	for _, p := range r.priors {
		for _, tag := range tags {
			if strings.EqualFold(tag, p.Category) {
				return p, true
			}
		}
	}
	return Prior{}, false
}
