package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlas-travel/places-cli/internal/model"
	"github.com/atlas-travel/places-cli/internal/store"
)

func newServeTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "serve.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func serveGet(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestServeHealth(t *testing.T) {
	handler := newRouter(newServeTestStore(t), nil)

	rec := serveGet(t, handler, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServeResults(t *testing.T) {
	st := newServeTestStore(t)
	require.NoError(t, st.SaveResult(context.Background(), &model.ReconciliationResult{
		Name:       "Merlion Park",
		Identity:   model.PlaceIdentity{CanonicalName: "Merlion Park"},
		SourceKind: "foursquare",
	}))
	handler := newRouter(st, nil)

	rec := serveGet(t, handler, "/results?limit=10")
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Total   int                          `json:"total"`
		Results []model.ReconciliationResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, 1, payload.Total)
	require.Len(t, payload.Results, 1)
	assert.Equal(t, "Merlion Park", payload.Results[0].Name)
}

func TestServeResultByName(t *testing.T) {
	st := newServeTestStore(t)
	require.NoError(t, st.SaveResult(context.Background(), &model.ReconciliationResult{
		Name:     "Merlion Park",
		Identity: model.PlaceIdentity{CanonicalName: "Merlion Park"},
	}))
	handler := newRouter(st, nil)

	rec := serveGet(t, handler, "/results/Merlion%20Park")
	require.Equal(t, http.StatusOK, rec.Code)

	var result model.ReconciliationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "Merlion Park", result.Name)
}

func TestServeResultMissing(t *testing.T) {
	handler := newRouter(newServeTestStore(t), nil)

	rec := serveGet(t, handler, "/results/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServeQuota(t *testing.T) {
	st := newServeTestStore(t)
	require.NoError(t, st.SaveQuotaState(context.Background(), &model.QuotaState{
		Source:     "foursquare",
		LastReset:  time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC),
		UsageCount: 7,
	}))
	handler := newRouter(st, map[string]model.QuotaLimit{
		"foursquare": {DailyLimit: 99000, RefreshDays: 1},
		"here":       {DailyLimit: 245000, RefreshDays: 30},
	})

	rec := serveGet(t, handler, "/quota")
	require.Equal(t, http.StatusOK, rec.Code)

	var payload map[string]map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Contains(t, payload, "foursquare")
	assert.Equal(t, float64(99000), payload["foursquare"]["daily_limit"])
	assert.Equal(t, float64(7), payload["foursquare"]["usage_count"])
	assert.NotContains(t, payload["here"], "usage_count", "never-seen source has no state")
}
