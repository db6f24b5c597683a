package model

import (
	"context"
	"time"
)

// LineageStore defines persistence operations for token lineage records.
// It is the sole synchronization point for refresh-lock state: every
// implementation must make Lock and Rotate conditional on the record still
// being unlocked, so that concurrent refreshes of the same token produce
// exactly one winner.
type LineageStore interface {
	// Insert durably persists a new record. Returns ErrDuplicateTokenID
	// if a record with the same token ID already exists.
	Insert(ctx context.Context, rec LineageRecord) error
	// Get returns the record for the given token ID, or ErrNotFound.
	Get(ctx context.Context, tokenID string) (LineageRecord, error)
	// Lock transitions RefreshLocked false->true. Returns ErrNotFound if
	// the record is absent and ErrLineageLocked if it was already locked.
	// The transition is never undone.
	Lock(ctx context.Context, tokenID string) error
	// Rotate applies the lock of oldTokenID and the insert of successor as
	// a single durable unit. On a lost race it returns ErrLineageLocked
	// and leaves no partial state behind.
	Rotate(ctx context.Context, successor LineageRecord, oldTokenID string) error
}

// LineageRecord tracks one issued token, keyed by its JTI claim. The token
// string itself is never stored; only the lineage state needed to decide
// refresh eligibility.
type LineageRecord struct {
	TokenID       string
	RefreshLocked bool
	CreatedAt     time.Time
	ExpiresAt     time.Time
}
