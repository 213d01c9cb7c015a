package here

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscover(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/discover", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "merlion park", q.Get("q"))
		assert.Equal(t, "1.280000,103.850000", q.Get("at"))
		assert.Equal(t, "key", q.Get("apiKey"))
		_, _ = w.Write([]byte(`{"items":[{"title":"Merlion Park","address":{"label":"1 Fullerton Road, Singapore"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(Options{Key: "key", BaseURL: srv.URL})
	item, err := c.Discover(context.Background(), "merlion park", 1.28, 103.85)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "Merlion Park", item["title"])
}

func TestDiscoverNoItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	item, err := NewClient(Options{BaseURL: srv.URL}).Discover(context.Background(), "nothing", 0, 0)
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestDiscoverErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewClient(Options{BaseURL: srv.URL}).Discover(context.Background(), "x", 0, 0)
	assert.Error(t, err)
}
