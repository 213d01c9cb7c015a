// Package engine drives the keyword reconciliation loop: resolve,
// quota-check, fetch, validate, merge, and checkpoint on exhaustion.
package engine

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/atlas-travel/places-cli/internal/duration"
	"github.com/atlas-travel/places-cli/internal/faults"
	"github.com/atlas-travel/places-cli/internal/geo"
	"github.com/atlas-travel/places-cli/internal/model"
	"github.com/atlas-travel/places-cli/internal/quota"
	"github.com/atlas-travel/places-cli/internal/registry"
	"github.com/atlas-travel/places-cli/internal/store"
	"github.com/atlas-travel/places-cli/internal/tags"
	"github.com/atlas-travel/places-cli/internal/validate"
)

// PlaceResolver is the map-surface collaborator. Resolve canonicalizes a
// keyword; the builders read details off the page Resolve landed on.
type PlaceResolver interface {
	Resolve(ctx context.Context, keyword string) (*model.PlaceIdentity, error)
	BuildRecord() model.SourceRecord
	BuildReviewData(identity *model.PlaceIdentity, limit int) model.ReviewData
}

// Options wires an Engine.
type Options struct {
	Resolver       PlaceResolver
	Ledger         *quota.Ledger
	Source         SourceFetcher
	Reviews        ReviewFetcher
	Validator      *validate.Validator
	Estimator      *duration.Estimator
	Priors         *registry.Registry
	Geo            *geo.Checker
	Store          store.Store
	Country        string
	ReviewLimit    int
	MapReviewLimit int
}

// Engine processes keywords one at a time, in source-list order. The map
// session is a single stateful resource, so there is no cross-keyword
// parallelism; within a keyword the source and review fetches run
// concurrently.
type Engine struct {
	opts Options
}

// New creates an Engine.
func New(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Run processes the keyword list. A prior checkpoint, when present,
// replaces the list and seeds the found-set; on quota exhaustion a new
// checkpoint is written and the run halts. Only configuration defects
// return an error.
func (e *Engine) Run(ctx context.Context, keywords []model.Keyword) (*RunReport, error) {
	report := newRunReport()
	found := make(map[string]struct{})

	cp, err := e.opts.Store.LoadCheckpoint(ctx)
	if err != nil {
		return nil, err
	}
	if cp != nil {
		keywords = cp.Remaining
		for _, name := range cp.FoundNames {
			found[name] = struct{}{}
		}
		report.Resumed = true
		zap.L().Info("engine: resuming from checkpoint",
			zap.Int("remaining", len(keywords)),
			zap.Int("known", len(found)))
	}

	for i, kw := range keywords {
		identity, err := e.opts.Resolver.Resolve(ctx, kw.Text)
		if errors.Is(err, faults.ErrNotFound) {
			report.skip(SkipNotFound)
			continue
		}
		if err != nil {
			if faults.IsFatal(err) {
				return report, err
			}
			zap.L().Warn("engine: resolve failed", zap.String("keyword", kw.Text), zap.Error(err))
			report.skip(SkipError)
			continue
		}

		if !e.opts.Geo.Contains(e.opts.Country, identity.Coords) {
			zap.L().Debug("engine: resolved outside target country",
				zap.String("keyword", kw.Text), zap.String("name", identity.CanonicalName))
			report.skip(SkipNotFound)
			continue
		}

		if _, known := found[identity.CanonicalName]; known {
			report.skip(SkipAlreadyKnown)
			continue
		}

		allowed, err := e.opts.Ledger.Allowed(ctx, e.opts.Source.Kind())
		if err != nil {
			return report, err
		}
		if !allowed {
			// Fail fast: the in-flight keyword and everything after it
			// go into the checkpoint for the next run.
			report.Blocked = true
			report.BlockedSource = string(e.opts.Source.Kind())
			report.Remaining = len(keywords) - i
			if err := e.writeCheckpoint(ctx, keywords[i:], found); err != nil {
				return report, err
			}
			zap.L().Warn("engine: quota exhausted, checkpoint written; re-run after the quota refreshes",
				zap.String("source", report.BlockedSource),
				zap.Int("remaining", report.Remaining))
			return report, nil
		}

		if err := e.processKeyword(ctx, kw, identity); err != nil {
			if faults.IsFatal(err) {
				return report, err
			}
			zap.L().Warn("engine: keyword failed",
				zap.String("keyword", kw.Text), zap.Error(err))
			report.skip(SkipError)
			continue
		}

		found[identity.CanonicalName] = struct{}{}
		report.Merged++
	}

	// Clean exhaustion: a stale checkpoint must not trigger a bogus
	// resume next run.
	if err := e.opts.Store.DeleteCheckpoint(ctx); err != nil {
		return report, err
	}
	zap.L().Info("engine: run complete",
		zap.Int("merged", report.Merged),
		zap.Int("not_found", report.Skipped[SkipNotFound]),
		zap.Int("already_known", report.Skipped[SkipAlreadyKnown]),
		zap.Int("errors", report.Skipped[SkipError]))
	return report, nil
}

// processKeyword runs Fetching, Validating, and the merge for one
// resolved identity.
func (e *Engine) processKeyword(ctx context.Context, kw model.Keyword, identity *model.PlaceIdentity) error {
	primary := e.opts.Resolver.BuildRecord()
	mapReviews := e.opts.Resolver.BuildReviewData(identity, e.opts.MapReviewLimit)

	// Source and review fetches are independent network calls; each
	// tolerates failure by yielding an empty record.
	var secondary model.SourceRecord
	var reviewData model.ReviewData
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rec, err := e.opts.Source.Fetch(gctx, identity)
		if err != nil {
			zap.L().Warn("engine: source fetch failed",
				zap.String("name", identity.CanonicalName), zap.Error(err))
			rec = model.SourceRecord{}
		}
		secondary = rec
		return nil
	})
	g.Go(func() error {
		data, err := e.opts.Reviews.FetchReviews(gctx, identity.CanonicalName, e.opts.Country, e.opts.ReviewLimit)
		if err != nil {
			zap.L().Warn("engine: review fetch failed",
				zap.String("name", identity.CanonicalName), zap.Error(err))
			data = model.ReviewData{}
		}
		reviewData = data
		return nil
	})
	_ = g.Wait()

	// The API calls were spent whether or not the records validate.
	if err := e.opts.Ledger.Consume(ctx, e.opts.Source.Kind()); err != nil {
		return err
	}

	expectedAddress := primary.StringAt("address")
	secondary, err := e.opts.Validator.Validate(e.opts.Source.Kind(), identity.CanonicalName, expectedAddress, secondary)
	if err != nil {
		return err
	}
	reviewData, err = e.validateReviews(identity.CanonicalName, expectedAddress, reviewData)
	if err != nil {
		return err
	}
	if reviewData.Empty() && !mapReviews.Empty() {
		reviewData = mapReviews
	}

	result := e.merge(ctx, kw, identity, primary, secondary, reviewData)
	return e.opts.Store.SaveResult(ctx, result)
}

// validateReviews runs the review payload through the same name/address
// check as the source record; a mismatched page contributes nothing. A
// payload with no reviews has nothing worth merging either, so it is
// rejected outright.
func (e *Engine) validateReviews(expectedName, expectedAddress string, data model.ReviewData) (model.ReviewData, error) {
	if len(data.Reviews) == 0 {
		return model.ReviewData{}, nil
	}
	record := model.SourceRecord{"name": data.Name, "address": data.Address}
	validated, err := e.opts.Validator.Validate(model.KindReviews, expectedName, expectedAddress, record)
	if err != nil {
		return model.ReviewData{}, err
	}
	if validated.Empty() {
		return model.ReviewData{}, nil
	}
	return data, nil
}

// merge assembles the final result: duration inference over every text
// we collected, tag derivation, and the prior lookup by category.
func (e *Engine) merge(ctx context.Context, kw model.Keyword, identity *model.PlaceIdentity, primary, secondary model.SourceRecord, reviewData model.ReviewData) *model.ReconciliationResult {
	texts := []string{kw.Paragraph}
	for _, r := range reviewData.Reviews {
		texts = append(texts, r.Text)
	}

	derived := tags.Derive(texts)

	category := primary.StringAt("category")
	if category == "" {
		category = secondary.StringAt("categories", "name")
	}

	var prior *float64
	highPriority := false
	if p, ok := e.opts.Priors.Lookup(category, derived); ok {
		prior = &p.Hours
		highPriority = p.HighPriority
	}

	hours := e.opts.Estimator.Estimate(ctx, texts, prior, highPriority)
	if hours == nil && reviewData.Hours != "" {
		// Fall back to the review site's published visit duration.
		if h, ok := duration.PhraseHours(reviewData.Hours); ok {
			hours = &h
		}
	}

	return &model.ReconciliationResult{
		Name:          identity.CanonicalName,
		Identity:      *identity,
		Keyword:       kw,
		SourceKind:    string(e.opts.Source.Kind()),
		Primary:       primary,
		Secondary:     secondary,
		ReviewData:    reviewData,
		DurationHours: hours,
		Tags:          derived,
	}
}

func (e *Engine) writeCheckpoint(ctx context.Context, remaining []model.Keyword, found map[string]struct{}) error {
	names := make([]string, 0, len(found))
	for name := range found {
		names = append(names, name)
	}
	return e.opts.Store.SaveCheckpoint(ctx, &model.Checkpoint{
		Remaining:  remaining,
		FoundNames: names,
	})
}
