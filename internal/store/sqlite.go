package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/seller-insights/internal/dataset"
	"github.com/sells-group/seller-insights/internal/model"
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
CREATE TABLE IF NOT EXISTS snapshots (
	id         TEXT PRIMARY KEY,
	label      TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS snapshot_tables (
	snapshot_id TEXT NOT NULL REFERENCES snapshots(id),
	name        TEXT NOT NULL,
	payload     TEXT NOT NULL,
	PRIMARY KEY (snapshot_id, name)
);

CREATE INDEX IF NOT EXISTS idx_snapshots_created_at ON snapshots(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveSnapshot(ctx context.Context, label string, snap *dataset.Snapshot) (string, error) {
	blobs, err := encodeSnapshot(snap)
	if err != nil {
		return "", err
	}

	id := uuid.New().String()
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, label, created_at) VALUES (?, ?, ?)`,
		id, label, now,
	); err != nil {
		return "", eris.Wrap(err, "sqlite: insert snapshot")
	}
	for _, b := range blobs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshot_tables (snapshot_id, name, payload) VALUES (?, ?, ?)`,
			id, b.name, string(b.payload),
		); err != nil {
			return "", eris.Wrapf(err, "sqlite: insert table %s", b.name)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", eris.Wrap(err, "sqlite: commit")
	}
	return id, nil
}

func (s *SQLiteStore) LoadSnapshot(ctx context.Context, id string) (*dataset.Snapshot, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM snapshots WHERE id = ?`, id,
	).Scan(&exists)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get snapshot %s", id)
	}
	if exists == 0 {
		return nil, model.ErrNotFound
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, payload FROM snapshot_tables WHERE snapshot_id = ?`, id,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: load snapshot %s", id)
	}
	defer rows.Close()

	payloads := map[string][]byte{}
	for rows.Next() {
		var name, payload string
		if err := rows.Scan(&name, &payload); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan snapshot table")
		}
		payloads[name] = []byte(payload)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: load snapshot iterate")
	}
	return decodeSnapshot(payloads)
}

func (s *SQLiteStore) LatestSnapshot(ctx context.Context) (*dataset.Snapshot, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM snapshots ORDER BY created_at DESC, id DESC LIMIT 1`,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: latest snapshot")
	}
	return s.LoadSnapshot(ctx, id)
}

func (s *SQLiteStore) ListSnapshots(ctx context.Context) ([]SnapshotInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, label, created_at FROM snapshots ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list snapshots")
	}
	defer rows.Close()

	var infos []SnapshotInfo
	for rows.Next() {
		var info SnapshotInfo
		if err := rows.Scan(&info.ID, &info.Label, &info.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan snapshot")
		}
		infos = append(infos, info)
	}
	return infos, eris.Wrap(rows.Err(), "sqlite: list snapshots iterate")
}
