// Package quota tracks per-source daily usage against configured budgets.
package quota

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/atlas-travel/places-cli/internal/faults"
	"github.com/atlas-travel/places-cli/internal/model"
)

// Store is the slice of persistence the ledger needs.
type Store interface {
	GetQuotaState(ctx context.Context, source string) (*model.QuotaState, error)
	SaveQuotaState(ctx context.Context, state *model.QuotaState) error
}

// Ledger answers "may I spend one call against this source today?".
// Checking and consuming are separate steps: callers check before a
// fetch and consume only after the fetch succeeds.
type Ledger struct {
	store  Store
	limits map[string]model.QuotaLimit
	now    func() time.Time // injectable for testing
}

// NewLedger creates a Ledger over the given store and per-source limits.
func NewLedger(store Store, limits map[string]model.QuotaLimit) *Ledger {
	return &Ledger{
		store:  store,
		limits: limits,
		now:    time.Now,
	}
}

// WithNow sets a fixed clock for testing.
func (l *Ledger) WithNow(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// utcMidnight returns the most recent UTC midnight before t.
func utcMidnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CheckAndConsume reports whether one more call against source is within
// budget. When the refresh period has elapsed it resets the usage row
// (the only side effect); it never increments — that is Consume's job.
func (l *Ledger) CheckAndConsume(ctx context.Context, source string) (bool, error) {
	limit, ok := l.limits[source]
	if !ok {
		return false, faults.Configf("no quota limit configured for source %q", source)
	}

	state, err := l.store.GetQuotaState(ctx, source)
	if err != nil {
		return false, err
	}
	now := l.now().UTC()

	// First sighting of this source: seed a fresh row at today's midnight.
	if state == nil {
		state = &model.QuotaState{Source: source, LastReset: utcMidnight(now)}
		if err := l.store.SaveQuotaState(ctx, state); err != nil {
			return false, err
		}
		return true, nil
	}

	elapsedDays := now.Sub(state.LastReset).Hours() / 24

	switch {
	case elapsedDays <= limit.RefreshDays && state.UsageCount < limit.DailyLimit:
		return true, nil
	case elapsedDays > limit.RefreshDays:
		state.UsageCount = 0
		state.LastReset = utcMidnight(now)
		if err := l.store.SaveQuotaState(ctx, state); err != nil {
			return false, err
		}
		return true, nil
	default:
		zap.L().Error("quota: limit reached", zap.String("source", source),
			zap.Int("limit", limit.DailyLimit))
		return false, nil
	}
}

// Allowed checks every quota pool the kind draws from. All pools must
// individually allow; a composite kind with any exhausted pool is
// blocked outright so no partial consumption can occur.
func (l *Ledger) Allowed(ctx context.Context, kind model.SourceKind) (bool, error) {
	for _, source := range kind.QuotaSources() {
		ok, err := l.CheckAndConsume(ctx, source)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// Consume records one successful call against every pool of the kind.
// Incrementing past the daily limit is a defect; the ledger refuses and
// leaves the row at the limit.
func (l *Ledger) Consume(ctx context.Context, kind model.SourceKind) error {
	for _, source := range kind.QuotaSources() {
		limit, ok := l.limits[source]
		if !ok {
			return faults.Configf("no quota limit configured for source %q", source)
		}

		state, err := l.store.GetQuotaState(ctx, source)
		if err != nil {
			return err
		}
		if state == nil {
			return eris.Errorf("quota: consume before check for source %s", source)
		}
		if state.UsageCount >= limit.DailyLimit {
			zap.L().Warn("quota: refusing to increment past limit",
				zap.String("source", source), zap.Int("limit", limit.DailyLimit))
			continue
		}

		state.UsageCount++
		if err := l.store.SaveQuotaState(ctx, state); err != nil {
			return err
		}
	}
	return nil
}
