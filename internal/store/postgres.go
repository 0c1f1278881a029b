package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/seller-insights/internal/dataset"
	"github.com/sells-group/seller-insights/internal/db"
	"github.com/sells-group/seller-insights/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
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
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool wraps an existing pool. Tests use it with pgxmock.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS snapshots (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	label      TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS snapshot_tables (
	snapshot_id TEXT NOT NULL REFERENCES snapshots(id),
	name        TEXT NOT NULL,
	payload     JSONB NOT NULL,
	PRIMARY KEY (snapshot_id, name)
);

CREATE INDEX IF NOT EXISTS idx_snapshots_created_at ON snapshots(created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) SaveSnapshot(ctx context.Context, label string, snap *dataset.Snapshot) (string, error) {
	blobs, err := encodeSnapshot(snap)
	if err != nil {
		return "", err
	}

	id := uuid.New().String()
	now := time.Now().UTC()

	if _, err := s.pool.Exec(ctx,
		`INSERT INTO snapshots (id, label, created_at) VALUES ($1, $2, $3)`,
		id, label, now,
	); err != nil {
		return "", eris.Wrap(err, "postgres: insert snapshot")
	}

	rows := make([][]any, len(blobs))
	for i, b := range blobs {
		rows[i] = []any{id, b.name, b.payload}
	}
	if _, err := db.CopyFrom(ctx, s.pool, "snapshot_tables",
		[]string{"snapshot_id", "name", "payload"}, rows,
	); err != nil {
		return "", err
	}
	return id, nil
}

func (s *PostgresStore) LoadSnapshot(ctx context.Context, id string) (*dataset.Snapshot, error) {
	var exists int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(1) FROM snapshots WHERE id = $1`, id,
	).Scan(&exists)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get snapshot %s", id)
	}
	if exists == 0 {
		return nil, model.ErrNotFound
	}

	rows, err := s.pool.Query(ctx,
		`SELECT name, payload FROM snapshot_tables WHERE snapshot_id = $1`, id,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: load snapshot %s", id)
	}
	defer rows.Close()

	payloads := map[string][]byte{}
	for rows.Next() {
		var name string
		var payload []byte
		if err := rows.Scan(&name, &payload); err != nil {
			return nil, eris.Wrap(err, "postgres: scan snapshot table")
		}
		payloads[name] = payload
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: load snapshot iterate")
	}
	return decodeSnapshot(payloads)
}

func (s *PostgresStore) LatestSnapshot(ctx context.Context) (*dataset.Snapshot, error) {
	var id string
	err := s.pool.QueryRow(ctx,
		`SELECT id FROM snapshots ORDER BY created_at DESC, id DESC LIMIT 1`,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: latest snapshot")
	}
	return s.LoadSnapshot(ctx, id)
}

func (s *PostgresStore) ListSnapshots(ctx context.Context) ([]SnapshotInfo, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, label, created_at FROM snapshots ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list snapshots")
	}
	defer rows.Close()

	var infos []SnapshotInfo
	for rows.Next() {
		var info SnapshotInfo
		if err := rows.Scan(&info.ID, &info.Label, &info.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan snapshot")
		}
		infos = append(infos, info)
	}
	return infos, eris.Wrap(rows.Err(), "postgres: list snapshots iterate")
}
