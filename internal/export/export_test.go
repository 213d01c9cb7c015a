package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlas-travel/places-cli/internal/model"
	"github.com/atlas-travel/places-cli/internal/store"
)

func seededStore(t *testing.T, n int) store.Store {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "export.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	hours := 2.0
	for i := 0; i < n; i++ {
		require.NoError(t, st.SaveResult(context.Background(), &model.ReconciliationResult{
			Name: fmt.Sprintf("Place %02d", i),
			Identity: model.PlaceIdentity{
				CanonicalName: fmt.Sprintf("Place %02d", i),
				Coords:        &model.Coordinates{Lon: 103.85, Lat: 1.28},
				CanonicalURL:  "https://maps.example.com/place/x",
			},
			Keyword:       model.Keyword{Text: "mention"},
			SourceKind:    "foursquare",
			Primary:       model.SourceRecord{"address": "1 Test Road", "category": "Park"},
			DurationHours: &hours,
			Tags:          []string{"nature", "relax"},
			ReviewData:    model.ReviewData{Reviews: []model.Review{{Text: "nice"}}},
		}))
	}
	return st
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestRunBatches(t *testing.T) {
	st := seededStore(t, 25)
	dir := t.TempDir()

	files, err := New(st, dir, 10).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, files)

	first := readCSV(t, filepath.Join(dir, "results_001.csv"))
	assert.Len(t, first, 11, "header plus a full batch")
	assert.Equal(t, header, first[0])

	last := readCSV(t, filepath.Join(dir, "results_003.csv"))
	assert.Len(t, last, 6, "header plus the 5-row remainder")
}

func TestRunRowShape(t *testing.T) {
	st := seededStore(t, 1)
	dir := t.TempDir()

	_, err := New(st, dir, 10).Run(context.Background())
	require.NoError(t, err)

	rows := readCSV(t, filepath.Join(dir, "results_001.csv"))
	require.Len(t, rows, 2)
	row := rows[1]
	assert.Equal(t, "Place 00", row[0])
	assert.Equal(t, "mention", row[1])
	assert.Equal(t, "foursquare", row[2])
	assert.Equal(t, "103.85", row[3])
	assert.Equal(t, "1.28", row[4])
	assert.Equal(t, "1 Test Road", row[6])
	assert.Equal(t, "Park", row[7])
	assert.Equal(t, "2", row[8])
	assert.Equal(t, "nature|relax", row[9])
	assert.Equal(t, "1", row[10])
}

func TestRunEmptyStore(t *testing.T) {
	st := seededStore(t, 0)
	dir := filepath.Join(t.TempDir(), "out")

	files, err := New(st, dir, 10).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, files)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
