// Package sqlite provides a file-backed LineageStore over modernc.org/sqlite.
// Suitable for single-node deployments; the postgres backend is the
// clustered option.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/s123600g/tokenforge/internal/model"
)

var _ model.LineageStore = (*LineageRepository)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS lineage_records (
    token_id TEXT PRIMARY KEY,
    refresh_locked INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    expires_at TEXT NOT NULL
);
`

type LineageRepository struct {
	db *sql.DB
}

// Open opens (or creates) the database file and ensures the schema.
// SQLite allows a single writer, so the pool is capped at one connection to
// serialize writes instead of surfacing busy errors.
func Open(file string) (*LineageRepository, error) {
	db, err := sql.Open("sqlite", file)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return &LineageRepository{db: db}, nil
}

func (r *LineageRepository) Close() error {
	return r.db.Close()
}

func (r *LineageRepository) Insert(ctx context.Context, rec model.LineageRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO lineage_records (token_id, refresh_locked, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		rec.TokenID, boolToInt(rec.RefreshLocked), formatTime(rec.CreatedAt), formatTime(rec.ExpiresAt))
	if err != nil {
		if isUniqueConstraintErr(err) {
			return model.ErrDuplicateTokenID
		}
		return fmt.Errorf("failed to insert lineage record: %w", err)
	}
	return nil
}

func (r *LineageRepository) Get(ctx context.Context, tokenID string) (model.LineageRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT token_id, refresh_locked, created_at, expires_at FROM lineage_records WHERE token_id = ?`, tokenID)
	return scanRecord(row)
}

func (r *LineageRepository) Lock(ctx context.Context, tokenID string) error {
	return lockTx(ctx, r.db, tokenID)
}

func (r *LineageRepository) Rotate(ctx context.Context, successor model.LineageRecord, oldTokenID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin rotation: %w", err)
	}
	defer tx.Rollback()

	if err := lockTx(ctx, tx, oldTokenID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO lineage_records (token_id, refresh_locked, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		successor.TokenID, boolToInt(successor.RefreshLocked), formatTime(successor.CreatedAt), formatTime(successor.ExpiresAt))
	if err != nil {
		if isUniqueConstraintErr(err) {
			return model.ErrDuplicateTokenID
		}
		return fmt.Errorf("failed to insert successor record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rotation: %w", err)
	}
	return nil
}

// execer covers both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func lockTx(ctx context.Context, db execer, tokenID string) error {
	res, err := db.ExecContext(ctx,
		`UPDATE lineage_records SET refresh_locked = 1 WHERE token_id = ? AND refresh_locked = 0`, tokenID)
	if err != nil {
		return fmt.Errorf("failed to lock lineage record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read lock result: %w", err)
	}
	if affected > 0 {
		return nil
	}

	var exists int
	err = db.QueryRowContext(ctx, `SELECT COUNT(1) FROM lineage_records WHERE token_id = ?`, tokenID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check lineage record: %w", err)
	}
	if exists == 0 {
		return model.ErrNotFound
	}
	return model.ErrLineageLocked
}

func scanRecord(row *sql.Row) (model.LineageRecord, error) {
	var rec model.LineageRecord
	var locked int
	var createdAt, expiresAt string

	if err := row.Scan(&rec.TokenID, &locked, &createdAt, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.LineageRecord{}, model.ErrNotFound
		}
		return model.LineageRecord{}, fmt.Errorf("failed to get lineage record: %w", err)
	}

	rec.RefreshLocked = locked != 0
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		rec.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339Nano, expiresAt); err == nil {
		rec.ExpiresAt = t
	}
	return rec, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isUniqueConstraintErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
