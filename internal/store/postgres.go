package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/atlas-travel/places-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool; used by tests with pgxmock.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS results (
	id         TEXT NOT NULL,
	name       TEXT PRIMARY KEY,
	data       JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS quota_state (
	source      TEXT PRIMARY KEY,
	last_reset  TIMESTAMPTZ NOT NULL,
	usage_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS checkpoint_blobs (
	name       TEXT PRIMARY KEY,
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_results_created_at ON results(created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveResult(ctx context.Context, result *model.ReconciliationResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal result")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO results (id, name, data, created_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (name) DO NOTHING`,
		uuid.New().String(), result.Name, data, time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: insert result %s", result.Name)
}

func (s *PostgresStore) GetResult(ctx context.Context, name string) (*model.ReconciliationResult, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM results WHERE name = $1`, name,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get result %s", name)
	}

	var result model.ReconciliationResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal result")
	}
	return &result, nil
}

func (s *PostgresStore) ListResults(ctx context.Context, filter ResultFilter) ([]model.ReconciliationResult, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.pool.Query(ctx,
		`SELECT data FROM results ORDER BY created_at LIMIT $1 OFFSET $2`,
		limit, filter.Offset,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list results")
	}
	defer rows.Close()

	var results []model.ReconciliationResult
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan result")
		}
		var r model.ReconciliationResult
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal result")
		}
		results = append(results, r)
	}
	return results, eris.Wrap(rows.Err(), "postgres: list results iterate")
}

func (s *PostgresStore) CountResults(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM results`).Scan(&n)
	return n, eris.Wrap(err, "postgres: count results")
}

func (s *PostgresStore) GetQuotaState(ctx context.Context, source string) (*model.QuotaState, error) {
	var state model.QuotaState
	err := s.pool.QueryRow(ctx,
		`SELECT source, last_reset, usage_count FROM quota_state WHERE source = $1`,
		source,
	).Scan(&state.Source, &state.LastReset, &state.UsageCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get quota state %s", source)
	}
	return &state, nil
}

func (s *PostgresStore) SaveQuotaState(ctx context.Context, state *model.QuotaState) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO quota_state (source, last_reset, usage_count) VALUES ($1, $2, $3)
		 ON CONFLICT (source) DO UPDATE SET last_reset = EXCLUDED.last_reset, usage_count = EXCLUDED.usage_count`,
		state.Source, state.LastReset.UTC(), state.UsageCount,
	)
	return eris.Wrapf(err, "postgres: save quota state %s", state.Source)
}

func (s *PostgresStore) LoadCheckpoint(ctx context.Context) (*model.Checkpoint, error) {
	remaining, err := s.getBlob(ctx, BlobRemaining)
	if err != nil {
		return nil, err
	}
	found, err := s.getBlob(ctx, BlobFound)
	if err != nil {
		return nil, err
	}
	if remaining == nil || found == nil {
		return nil, nil
	}

	var cp model.Checkpoint
	if err := json.Unmarshal(remaining, &cp.Remaining); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal remaining keywords")
	}
	if err := json.Unmarshal(found, &cp.FoundNames); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal found identities")
	}
	return &cp, nil
}

func (s *PostgresStore) SaveCheckpoint(ctx context.Context, cp *model.Checkpoint) error {
	remaining, err := json.Marshal(cp.Remaining)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal remaining keywords")
	}
	found, err := json.Marshal(cp.FoundNames)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal found identities")
	}

	if err := s.putBlob(ctx, BlobRemaining, remaining); err != nil {
		return err
	}
	return s.putBlob(ctx, BlobFound, found)
}

func (s *PostgresStore) DeleteCheckpoint(ctx context.Context) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM checkpoint_blobs WHERE name IN ($1, $2)`,
		BlobRemaining, BlobFound,
	)
	return eris.Wrap(err, "postgres: delete checkpoint")
}

func (s *PostgresStore) getBlob(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM checkpoint_blobs WHERE name = $1`, name,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get blob %s", name)
	}
	return data, nil
}

func (s *PostgresStore) putBlob(ctx context.Context, name string, data []byte) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO checkpoint_blobs (name, data, updated_at) VALUES ($1, $2, $3)
		 ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		name, data, time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: put blob %s", name)
}
