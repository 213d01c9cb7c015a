package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/atlas-travel/places-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS results (
	id         TEXT NOT NULL,
	name       TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS quota_state (
	source      TEXT PRIMARY KEY,
	last_reset  DATETIME NOT NULL,
	usage_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS checkpoint_blobs (
	name       TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_results_created_at ON results(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveResult inserts a result keyed by canonical name. A second write for
// the same name is a no-op: results are immutable once persisted.
func (s *SQLiteStore) SaveResult(ctx context.Context, result *model.ReconciliationResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal result")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO results (id, name, data, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO NOTHING`,
		uuid.New().String(), result.Name, string(data), time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: insert result %s", result.Name)
}

func (s *SQLiteStore) GetResult(ctx context.Context, name string) (*model.ReconciliationResult, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM results WHERE name = ?`, name,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get result %s", name)
	}

	var result model.ReconciliationResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal result")
	}
	return &result, nil
}

func (s *SQLiteStore) ListResults(ctx context.Context, filter ResultFilter) ([]model.ReconciliationResult, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT data FROM results ORDER BY created_at LIMIT ?`
	args := []any{limit}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list results")
	}
	defer rows.Close()

	var results []model.ReconciliationResult
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan result")
		}
		var r model.ReconciliationResult
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal result")
		}
		results = append(results, r)
	}
	return results, eris.Wrap(rows.Err(), "sqlite: list results iterate")
}

func (s *SQLiteStore) CountResults(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM results`).Scan(&n)
	return n, eris.Wrap(err, "sqlite: count results")
}

func (s *SQLiteStore) GetQuotaState(ctx context.Context, source string) (*model.QuotaState, error) {
	var state model.QuotaState
	err := s.db.QueryRowContext(ctx,
		`SELECT source, last_reset, usage_count FROM quota_state WHERE source = ?`,
		source,
	).Scan(&state.Source, &state.LastReset, &state.UsageCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get quota state %s", source)
	}
	return &state, nil
}

func (s *SQLiteStore) SaveQuotaState(ctx context.Context, state *model.QuotaState) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO quota_state (source, last_reset, usage_count) VALUES (?, ?, ?)
		 ON CONFLICT(source) DO UPDATE SET last_reset = excluded.last_reset, usage_count = excluded.usage_count`,
		state.Source, state.LastReset.UTC(), state.UsageCount,
	)
	return eris.Wrapf(err, "sqlite: save quota state %s", state.Source)
}

// LoadCheckpoint returns the stored checkpoint, or nil unless both blobs
// are present — a half-written checkpoint never signals resume mode.
func (s *SQLiteStore) LoadCheckpoint(ctx context.Context) (*model.Checkpoint, error) {
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
		return nil, eris.Wrap(err, "sqlite: unmarshal remaining keywords")
	}
	if err := json.Unmarshal(found, &cp.FoundNames); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal found identities")
	}
	return &cp, nil
}

func (s *SQLiteStore) SaveCheckpoint(ctx context.Context, cp *model.Checkpoint) error {
	remaining, err := json.Marshal(cp.Remaining)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal remaining keywords")
	}
	found, err := json.Marshal(cp.FoundNames)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal found identities")
	}

	if err := s.putBlob(ctx, BlobRemaining, remaining); err != nil {
		return err
	}
	return s.putBlob(ctx, BlobFound, found)
}

func (s *SQLiteStore) DeleteCheckpoint(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM checkpoint_blobs WHERE name IN (?, ?)`,
		BlobRemaining, BlobFound,
	)
	return eris.Wrap(err, "sqlite: delete checkpoint")
}

func (s *SQLiteStore) getBlob(ctx context.Context, name string) ([]byte, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM checkpoint_blobs WHERE name = ?`, name,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get blob %s", name)
	}
	return []byte(data), nil
}

func (s *SQLiteStore) putBlob(ctx context.Context, name string, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO checkpoint_blobs (name, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		name, string(data), time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: put blob %s", name)
}
