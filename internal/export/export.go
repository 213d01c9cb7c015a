// Package export writes stored reconciliation results to batched CSV
// files for downstream wrangling.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/atlas-travel/places-cli/internal/model"
	"github.com/atlas-travel/places-cli/internal/store"
)

var header = []string{
	"name", "keyword", "source_kind", "lon", "lat", "url",
	"address", "category", "duration_hours", "tags", "review_count",
}

// Exporter writes results in fixed-size batches, one CSV file per batch.
type Exporter struct {
	store     store.Store
	dir       string
	batchSize int
}

// New creates an Exporter writing batches of batchSize rows into dir.
func New(st store.Store, dir string, batchSize int) *Exporter {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &Exporter{store: st, dir: dir, batchSize: batchSize}
}

// Run exports every stored result. Returns the number of files written.
func (e *Exporter) Run(ctx context.Context) (int, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return 0, eris.Wrapf(err, "export: create dir %s", e.dir)
	}

	files := 0
	for offset := 0; ; offset += e.batchSize {
		results, err := e.store.ListResults(ctx, store.ResultFilter{Limit: e.batchSize, Offset: offset})
		if err != nil {
			return files, err
		}
		if len(results) == 0 {
			break
		}

		path := filepath.Join(e.dir, fmt.Sprintf("results_%03d.csv", files+1))
		if err := writeBatch(path, results); err != nil {
			return files, err
		}
		files++
		zap.L().Info("export: batch written",
			zap.String("path", path), zap.Int("rows", len(results)))

		if len(results) < e.batchSize {
			break
		}
	}
	return files, nil
}

func writeBatch(path string, results []model.ReconciliationResult) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return eris.Wrap(err, "export: write header")
	}
	for _, r := range results {
		if err := w.Write(row(r)); err != nil {
			return eris.Wrapf(err, "export: write row %s", r.Name)
		}
	}
	w.Flush()
	return eris.Wrap(w.Error(), "export: flush")
}

func row(r model.ReconciliationResult) []string {
	var lon, lat string
	if c := r.Identity.Coords; c != nil {
		lon = strconv.FormatFloat(c.Lon, 'f', -1, 64)
		lat = strconv.FormatFloat(c.Lat, 'f', -1, 64)
	}
	var hours string
	if r.DurationHours != nil {
		hours = strconv.FormatFloat(*r.DurationHours, 'f', -1, 64)
	}
	return []string{
		r.Name,
		r.Keyword.Text,
		r.SourceKind,
		lon,
		lat,
		r.Identity.CanonicalURL,
		r.Primary.StringAt("address"),
		r.Primary.StringAt("category"),
		hours,
		strings.Join(r.Tags, "|"),
		strconv.Itoa(len(r.ReviewData.Reviews)),
	}
}
