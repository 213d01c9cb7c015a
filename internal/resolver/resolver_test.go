package resolver

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlas-travel/places-cli/internal/faults"
	"github.com/atlas-travel/places-cli/internal/model"
)

// fakeSession scripts one map page.
type fakeSession struct {
	locator     string
	pageText    string
	labels      []string
	fields      map[string]string
	reviews     []model.Review
	navigated   []string
	clicked     []string
	afterClick  string // locator after a click
	navigateErr error
}

func (f *fakeSession) Navigate(_ context.Context, query string) error {
	f.navigated = append(f.navigated, query)
	return f.navigateErr
}

func (f *fakeSession) CurrentLocator() string { return f.locator }

func (f *fakeSession) PageContains(text string) bool {
	return strings.Contains(f.pageText, text)
}

func (f *fakeSession) ResultLabels() []string { return f.labels }

func (f *fakeSession) ClickResult(_ context.Context, label string) error {
	f.clicked = append(f.clicked, label)
	if f.afterClick != "" {
		f.locator = f.afterClick
	}
	return nil
}

func (f *fakeSession) Field(label string) (string, bool) {
	v, ok := f.fields[label]
	return v, ok
}

func (f *fakeSession) Reviews(limit int) []model.Review {
	if limit > 0 && limit < len(f.reviews) {
		return f.reviews[:limit]
	}
	return f.reviews
}

func TestResolveDirectHit(t *testing.T) {
	session := &fakeSession{
		locator: "https://www.google.com/maps/place/Merlion+Park/@1.2868,103.8545,17z",
	}
	r := New(session, "singapore", "singapore")

	identity, err := r.Resolve(context.Background(), "merlion")
	require.NoError(t, err)
	assert.Equal(t, "Merlion Park", identity.CanonicalName)
	require.NotNil(t, identity.Coords)
	assert.Equal(t, []string{"merlion singapore singapore"}, session.navigated)
}

func TestResolveNegativePhrase(t *testing.T) {
	for _, phrase := range []string{
		"Partial match",
		"No results found for merlion",
		"Google Maps can't find merlion",
	} {
		session := &fakeSession{pageText: phrase}
		r := New(session, "singapore", "singapore")

		_, err := r.Resolve(context.Background(), "merlion")
		assert.ErrorIs(t, err, faults.ErrNotFound, phrase)
	}
}

func TestResolveDisambiguationList(t *testing.T) {
	session := &fakeSession{
		pageText: "Results for merlion singapore singapore",
		labels: []string{
			"Results for merlion singapore singapore",
			"Google Maps",
			"Clear search",
			"Merlion Park",
			"Merlion Statue Sentosa",
		},
		locator:    "https://www.google.com/maps/search/merlion",
		afterClick: "https://www.google.com/maps/place/Merlion+Park/@1.2868,103.8545,17z",
	}
	r := New(session, "singapore", "singapore")

	identity, err := r.Resolve(context.Background(), "merlion")
	require.NoError(t, err)
	assert.Equal(t, []string{"Merlion Park"}, session.clicked)
	assert.Equal(t, "Merlion Park", identity.CanonicalName)
}

func TestResolveMalformedLocatorIsNotFound(t *testing.T) {
	session := &fakeSession{locator: "https://www.google.com/maps"}
	r := New(session, "singapore", "singapore")

	_, err := r.Resolve(context.Background(), "merlion")
	assert.ErrorIs(t, err, faults.ErrNotFound)
}

func TestBuildRecord(t *testing.T) {
	session := &fakeSession{
		fields: map[string]string{
			"Address":  "1 Fullerton Road",
			"Phone":    "+65 1234 5678",
			"Category": "Park",
		},
	}
	r := New(session, "singapore", "singapore")

	record := r.BuildRecord()
	assert.Equal(t, "1 Fullerton Road", record.StringAt("address"))
	assert.Equal(t, "+65 1234 5678", record.StringAt("phone_number"))
	assert.Equal(t, "Park", record.StringAt("category"))
	assert.Empty(t, record.StringAt("website"))
}

func TestFieldValueUnknownKeyIsFatal(t *testing.T) {
	r := New(&fakeSession{}, "singapore", "singapore")

	_, err := r.FieldValue("no_such_key")
	require.Error(t, err)
	assert.True(t, faults.IsFatal(err))
}
