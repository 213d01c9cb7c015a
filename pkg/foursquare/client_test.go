package foursquare

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/venues/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "merlion park", q.Get("query"))
		assert.Equal(t, "singapore", q.Get("near"))
		assert.Equal(t, "id", q.Get("client_id"))
		assert.Equal(t, "secret", q.Get("client_secret"))
		assert.Equal(t, "20200819", q.Get("v"))
		_, _ = w.Write([]byte(`{"response":{"venues":[{"id":"v1","name":"Merlion Park"}]}}`))
	}))
	defer srv.Close()

	c := NewClient(Options{ClientID: "id", ClientSecret: "secret", BaseURL: srv.URL})
	venue, err := c.Search(context.Background(), "merlion park", "singapore")
	require.NoError(t, err)
	require.NotNil(t, venue)
	assert.Equal(t, "Merlion Park", venue["name"])
	assert.Equal(t, "v1", VenueID(venue))
}

func TestSearchNoVenues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"response":{"venues":[]}}`))
	}))
	defer srv.Close()

	venue, err := NewClient(Options{BaseURL: srv.URL}).Search(context.Background(), "nothing", "nowhere")
	require.NoError(t, err)
	assert.Nil(t, venue)
}

func TestDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/venues/v1", r.URL.Path)
		_, _ = w.Write([]byte(`{"response":{"venue":{"name":"Merlion Park","location":{"formattedAddress":["1 Fullerton Road"]}}}}`))
	}))
	defer srv.Close()

	envelope, err := NewClient(Options{BaseURL: srv.URL}).Details(context.Background(), "v1")
	require.NoError(t, err)
	response, ok := envelope["response"].(map[string]any)
	require.True(t, ok)
	venue, ok := response["venue"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Merlion Park", venue["name"])
}

func TestSearchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewClient(Options{BaseURL: srv.URL}).Search(context.Background(), "x", "y")
	assert.Error(t, err)
}
