// Package store persists reconciliation results, quota state, and
// checkpoint blobs behind a single interface with SQLite and Postgres
// backends.
package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/atlas-travel/places-cli/internal/model"
)

// Blob names for the two checkpoint records. Both must be present for a
// run to resume; the engine deletes both on clean exhaustion.
const (
	BlobRemaining = "remaining_keywords"
	BlobFound     = "found_identities"
)

// ResultFilter specifies criteria for listing results.
type ResultFilter struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// Store defines the persistence interface for the reconciliation engine.
type Store interface {
	// Results (write-once, keyed by canonical name)
	SaveResult(ctx context.Context, result *model.ReconciliationResult) error
	GetResult(ctx context.Context, name string) (*model.ReconciliationResult, error)
	ListResults(ctx context.Context, filter ResultFilter) ([]model.ReconciliationResult, error)
	CountResults(ctx context.Context) (int, error)

	// Quota state ({source, last_reset, usage_count} rows)
	GetQuotaState(ctx context.Context, source string) (*model.QuotaState, error)
	SaveQuotaState(ctx context.Context, state *model.QuotaState) error

	// Checkpoint blobs
	LoadCheckpoint(ctx context.Context) (*model.Checkpoint, error)
	SaveCheckpoint(ctx context.Context, cp *model.Checkpoint) error
	DeleteCheckpoint(ctx context.Context) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Pool is the subset of pgxpool.Pool the Postgres store uses; pgxmock
// satisfies it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}
