package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/s123600g/tokenforge/internal/model"
)

var _ model.LineageStore = (*LineageRepository)(nil)

const uniqueViolationCode = "23505"

type LineageRepository struct {
	db *Connection
}

func NewLineageRepository(db *Connection) *LineageRepository {
	return &LineageRepository{db: db}
}

func (r *LineageRepository) Insert(ctx context.Context, rec model.LineageRecord) error {
	const query = `
        INSERT INTO lineage_records (token_id, refresh_locked, created_at, expires_at)
        VALUES ($1, $2, $3, $4)
    `

	_, err := r.db.Exec(ctx, query, rec.TokenID, rec.RefreshLocked, rec.CreatedAt, rec.ExpiresAt)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrDuplicateTokenID
		}
		return fmt.Errorf("failed to insert lineage record: %w", err)
	}
	return nil
}

func (r *LineageRepository) Get(ctx context.Context, tokenID string) (model.LineageRecord, error) {
	const query = `
        SELECT token_id, refresh_locked, created_at, expires_at
        FROM lineage_records WHERE token_id = $1
    `

	var rec model.LineageRecord
	err := r.db.QueryRow(ctx, query, tokenID).Scan(
		&rec.TokenID, &rec.RefreshLocked, &rec.CreatedAt, &rec.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.LineageRecord{}, model.ErrNotFound
		}
		return model.LineageRecord{}, fmt.Errorf("failed to get lineage record: %w", err)
	}
	return rec, nil
}

// Lock applies the refresh lock with a conditional update. Of N concurrent
// callers for the same token ID the database lets exactly one match the
// unlocked row; the rest see zero rows affected and get ErrLineageLocked.
func (r *LineageRepository) Lock(ctx context.Context, tokenID string) error {
	return lockTx(ctx, r.db, tokenID)
}

// Rotate locks the predecessor and inserts the successor inside a single
// transaction, so a failure in either step leaves no partial state.
func (r *LineageRepository) Rotate(ctx context.Context, successor model.LineageRecord, oldTokenID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin rotation: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockTx(ctx, tx, oldTokenID); err != nil {
		return err
	}

	const insert = `
        INSERT INTO lineage_records (token_id, refresh_locked, created_at, expires_at)
        VALUES ($1, $2, $3, $4)
    `
	if _, err := tx.Exec(ctx, insert, successor.TokenID, successor.RefreshLocked, successor.CreatedAt, successor.ExpiresAt); err != nil {
		if isUniqueViolation(err) {
			return model.ErrDuplicateTokenID
		}
		return fmt.Errorf("failed to insert successor record: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit rotation: %w", err)
	}
	return nil
}

// execer covers both the pool and a transaction.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func lockTx(ctx context.Context, db execer, tokenID string) error {
	const update = `
        UPDATE lineage_records SET refresh_locked = TRUE
        WHERE token_id = $1 AND refresh_locked = FALSE
    `

	tag, err := db.Exec(ctx, update, tokenID)
	if err != nil {
		return fmt.Errorf("failed to lock lineage record: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM lineage_records WHERE token_id = $1)`, tokenID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check lineage record: %w", err)
	}
	if !exists {
		return model.ErrNotFound
	}
	return model.ErrLineageLocked
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
