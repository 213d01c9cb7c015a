package main

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/atlas-travel/places-cli/internal/duration"
	"github.com/atlas-travel/places-cli/internal/engine"
	"github.com/atlas-travel/places-cli/internal/geo"
	"github.com/atlas-travel/places-cli/internal/model"
	"github.com/atlas-travel/places-cli/internal/nlp"
	"github.com/atlas-travel/places-cli/internal/quota"
	"github.com/atlas-travel/places-cli/internal/registry"
	"github.com/atlas-travel/places-cli/internal/resolver"
	"github.com/atlas-travel/places-cli/internal/store"
	"github.com/atlas-travel/places-cli/internal/validate"
	"github.com/atlas-travel/places-cli/pkg/anthropic"
	"github.com/atlas-travel/places-cli/pkg/foursquare"
	"github.com/atlas-travel/places-cli/pkg/here"
	"github.com/atlas-travel/places-cli/pkg/tripadvisor"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "places.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func initResolver() *resolver.Resolver {
	session := resolver.NewHTTPSession(resolver.HTTPSessionOptions{
		RequestsPerSec: cfg.Reviews.RequestsPerSec,
	})
	return resolver.New(session, cfg.Run.Place, cfg.Run.Country)
}

func initGeoChecker() (*geo.Checker, error) {
	boxes := make(map[string]geo.Box, len(cfg.Geo.Bounds))
	for country, b := range cfg.Geo.Bounds {
		boxes[strings.ToLower(country)] = geo.Box{
			MinLon: b.MinLon, MinLat: b.MinLat, MaxLon: b.MaxLon, MaxLat: b.MaxLat,
		}
	}
	if cfg.Geo.Shapefile != "" {
		box, err := geo.LoadShapefileBounds(cfg.Geo.Shapefile)
		if err != nil {
			return nil, err
		}
		boxes[strings.ToLower(cfg.Run.Country)] = box
	}
	return geo.NewChecker(boxes), nil
}

func initPriors(ctx context.Context) (*registry.Registry, error) {
	switch cfg.Priors.Format {
	case "yaml":
		if cfg.Priors.Path == "" {
			return nil, nil
		}
		return registry.LoadPriorsFromYAML(cfg.Priors.Path)
	case "xlsx":
		return registry.LoadPriorsFromXLSX(cfg.Priors.Path, cfg.Priors.Sheet)
	case "notion":
		return registry.LoadPriorsFromNotion(ctx, cfg.Priors.NotionKey, cfg.Priors.NotionDB)
	default:
		return nil, eris.Errorf("unsupported priors format: %s", cfg.Priors.Format)
	}
}

func initEngine(ctx context.Context, st store.Store) (*engine.Engine, error) {
	kind, err := model.ParseSourceKind(cfg.Source.Kind)
	if err != nil {
		return nil, err
	}

	fsq := foursquare.NewClient(foursquare.Options{
		ClientID:     cfg.Foursquare.ClientID,
		ClientSecret: cfg.Foursquare.ClientSecret,
		BaseURL:      cfg.Foursquare.BaseURL,
		Version:      cfg.Foursquare.Version,
	})
	her := here.NewClient(here.Options{
		Key:     cfg.Here.Key,
		BaseURL: cfg.Here.BaseURL,
	})

	near := strings.TrimSpace(cfg.Run.Place + " " + cfg.Run.Country)
	var fallbackLat, fallbackLon float64
	if b, ok := cfg.Geo.Bounds[strings.ToLower(cfg.Run.Country)]; ok {
		fallbackLat = (b.MinLat + b.MaxLat) / 2
		fallbackLon = (b.MinLon + b.MaxLon) / 2
	}
	source, err := engine.NewSourceFetcher(kind, fsq, her, near, fallbackLat, fallbackLon)
	if err != nil {
		return nil, err
	}

	reviews := &engine.TripAdvisorReviews{
		Client: tripadvisor.NewClient(tripadvisor.Options{
			BaseURL:        cfg.Reviews.BaseURL,
			RequestsPerSec: cfg.Reviews.RequestsPerSec,
		}),
	}

	priors, err := initPriors(ctx)
	if err != nil {
		return nil, err
	}
	checker, err := initGeoChecker()
	if err != nil {
		return nil, err
	}

	tagger := nlp.NewClaudeTagger(anthropic.NewClient(cfg.Anthropic.Key), cfg.Anthropic.Model)

	return engine.New(engine.Options{
		Resolver:       initResolver(),
		Ledger:         quota.NewLedger(st, cfg.Quota),
		Source:         source,
		Reviews:        reviews,
		Validator:      validate.New(),
		Estimator:      duration.New(tagger),
		Priors:         priors,
		Geo:            checker,
		Store:          st,
		Country:        strings.ToLower(cfg.Run.Country),
		ReviewLimit:    cfg.Reviews.Limit,
		MapReviewLimit: cfg.Reviews.MapLimit,
	}), nil
}
