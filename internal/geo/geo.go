// Package geo answers whether resolved coordinates fall inside the run's
// target country.
package geo

import (
	shp "github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/atlas-travel/places-cli/internal/model"
)

// Box is a lon/lat bounding box.
type Box struct {
	MinLon, MinLat, MaxLon, MaxLat float64
}

// Checker holds per-country bounds.
type Checker struct {
	bounds map[string]*geom.Bounds
}

// NewChecker builds a Checker from per-country boxes. Country keys are
// matched as given; callers lowercase them.
func NewChecker(boxes map[string]Box) *Checker {
	bounds := make(map[string]*geom.Bounds, len(boxes))
	for country, box := range boxes {
		bounds[country] = geom.NewBounds(geom.XY).Set(box.MinLon, box.MinLat, box.MaxLon, box.MaxLat)
	}
	return &Checker{bounds: bounds}
}

// Contains reports whether coords fall inside the country's box. With no
// coordinates or no box on file there is nothing to veto on, so it
// answers true.
func (c *Checker) Contains(country string, coords *model.Coordinates) bool {
	if c == nil || coords == nil {
		return true
	}
	b, ok := c.bounds[country]
	if !ok {
		zap.L().Debug("geo: no bounds on file", zap.String("country", country))
		return true
	}
	return b.OverlapsPoint(geom.XY, geom.Coord{coords.Lon, coords.Lat})
}

// LoadShapefileBounds reads the overall bounding box from a shapefile,
// for countries without hand-configured bounds.
func LoadShapefileBounds(path string) (Box, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return Box{}, eris.Wrapf(err, "geo: open shapefile %s", path)
	}
	defer reader.Close()

	bbox := reader.BBox()
	return Box{MinLon: bbox.MinX, MinLat: bbox.MinY, MaxLon: bbox.MaxX, MaxLat: bbox.MaxY}, nil
}
