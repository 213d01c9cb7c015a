package tripadvisor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const attractionPage = `<html>
<script type="application/ld+json">
{"@type":"Attraction","name":"Merlion Park","address":{"streetAddress":"1 Fullerton Road","addressLocality":"Singapore"}}
</script>
<div>Suggested duration: 1-2 hours</div>
<q class="review"><span>We spent a couple of hours here.</span>
<q class="review"><span>Great <b>view</b> of the bay!</span>
<q class="review"><span></span>
</html>`

func newTestServer(t *testing.T, searchBody string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/Search") {
			_, _ = w.Write([]byte(searchBody))
			return
		}
		if strings.HasPrefix(r.URL.Path, "/Attraction_Review-") {
			_, _ = w.Write([]byte(attractionPage))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
}

func TestFetchReviews(t *testing.T) {
	srv := newTestServer(t, `<a href="/Attraction_Review-g294265-d1234-Reviews-Merlion_Park.html">Merlion Park</a>`)
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, RequestsPerSec: 100})
	place, err := c.FetchReviews(context.Background(), "Merlion Park", "Singapore", 10)
	require.NoError(t, err)
	require.NotNil(t, place)

	assert.Equal(t, "Merlion Park", place.Name)
	assert.Equal(t, "1 Fullerton Road, Singapore", place.Address)
	assert.Equal(t, "1-2 hours", place.SuggestedHours)
	assert.Equal(t, srv.URL+"/Attraction_Review-g294265-d1234-Reviews-Merlion_Park.html", place.URL)

	require.Len(t, place.Reviews, 2, "empty review bodies drop out")
	assert.Equal(t, "We spent a couple of hours here.", place.Reviews[0].Text)
	assert.Contains(t, place.Reviews[1].Text, "view")
}

func TestFetchReviewsLimit(t *testing.T) {
	srv := newTestServer(t, `<a href="/Attraction_Review-g1-d1-Reviews-X.html">X</a>`)
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, RequestsPerSec: 100})
	place, err := c.FetchReviews(context.Background(), "X", "Singapore", 1)
	require.NoError(t, err)
	require.NotNil(t, place)
	assert.Len(t, place.Reviews, 1)
}

func TestFetchReviewsNoAttractionPage(t *testing.T) {
	srv := newTestServer(t, `<html>no results</html>`)
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, RequestsPerSec: 100})
	place, err := c.FetchReviews(context.Background(), "Nothing", "Nowhere", 10)
	require.NoError(t, err)
	assert.Nil(t, place)
}

func TestFetchReviewsSearchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, RequestsPerSec: 100})
	_, err := c.FetchReviews(context.Background(), "X", "Y", 10)
	assert.Error(t, err)
}
