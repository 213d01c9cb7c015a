package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPriors = []Prior{
	{Category: "park", Hours: 2},
	{Category: "theme park", Hours: 8, HighPriority: true},
	{Category: "museum", Hours: 3, HighPriority: true},
	{Category: "nature", Hours: 2},
}

func TestLookupLongestCategoryWins(t *testing.T) {
	r := New(testPriors)

	p, ok := r.Lookup("Theme Park", nil)
	require.True(t, ok)
	assert.Equal(t, 8.0, p.Hours)
	assert.True(t, p.HighPriority)

	p, ok = r.Lookup("National Park", nil)
	require.True(t, ok)
	assert.Equal(t, 2.0, p.Hours)
}

func TestLookupCategoryBeforeTags(t *testing.T) {
	r := New(testPriors)

	p, ok := r.Lookup("history museum", []string{"nature"})
	require.True(t, ok)
	assert.Equal(t, "museum", p.Category)
}

func TestLookupFallsBackToTags(t *testing.T) {
	r := New(testPriors)

	p, ok := r.Lookup("observation deck", []string{"relax", "nature"})
	require.True(t, ok)
	assert.Equal(t, "nature", p.Category)

	_, ok = r.Lookup("observation deck", []string{"relax"})
	assert.False(t, ok)
}

func TestLookupEmptyCategory(t *testing.T) {
	r := New(testPriors)

	_, ok := r.Lookup("", nil)
	assert.False(t, ok)

	p, ok := r.Lookup("", []string{"nature"})
	require.True(t, ok)
	assert.Equal(t, "nature", p.Category)
}

func TestLookupNilRegistry(t *testing.T) {
	var r *Registry
	_, ok := r.Lookup("park", []string{"nature"})
	assert.False(t, ok)
}

func TestLoadPriorsFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "priors.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
- category: park
  hours: 2
- category: theme park
  hours: 8
  high_priority: true
`), 0o644))

	r, err := LoadPriorsFromYAML(path)
	require.NoError(t, err)

	p, ok := r.Lookup("theme park", nil)
	require.True(t, ok)
	assert.Equal(t, 8.0, p.Hours)
	assert.True(t, p.HighPriority)
}

func TestLoadPriorsFromYAMLMissingFile(t *testing.T) {
	_, err := LoadPriorsFromYAML(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
