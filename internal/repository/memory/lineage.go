// Package memory provides an in-process LineageStore for development and
// tests. It enforces the same conditional-lock semantics as the SQL
// backends under a single mutex.
package memory

import (
	"context"
	"sync"

	"github.com/s123600g/tokenforge/internal/model"
)

var _ model.LineageStore = (*LineageRepository)(nil)

type LineageRepository struct {
	mu      sync.Mutex
	records map[string]model.LineageRecord
}

func NewLineageRepository() *LineageRepository {
	return &LineageRepository{records: make(map[string]model.LineageRecord)}
}

func (r *LineageRepository) Insert(_ context.Context, rec model.LineageRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.insertLocked(rec)
}

func (r *LineageRepository) Get(_ context.Context, tokenID string) (model.LineageRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[tokenID]
	if !ok {
		return model.LineageRecord{}, model.ErrNotFound
	}
	return rec, nil
}

func (r *LineageRepository) Lock(_ context.Context, tokenID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.lockLocked(tokenID)
}

func (r *LineageRepository) Rotate(_ context.Context, successor model.LineageRecord, oldTokenID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Lock first so a duplicate successor ID cannot leave the predecessor
	// locked with no successor recorded.
	if err := r.lockLocked(oldTokenID); err != nil {
		return err
	}
	if err := r.insertLocked(successor); err != nil {
		old := r.records[oldTokenID]
		old.RefreshLocked = false
		r.records[oldTokenID] = old
		return err
	}
	return nil
}

func (r *LineageRepository) insertLocked(rec model.LineageRecord) error {
	if _, exists := r.records[rec.TokenID]; exists {
		return model.ErrDuplicateTokenID
	}
	r.records[rec.TokenID] = rec
	return nil
}

func (r *LineageRepository) lockLocked(tokenID string) error {
	rec, ok := r.records[tokenID]
	if !ok {
		return model.ErrNotFound
	}
	if rec.RefreshLocked {
		return model.ErrLineageLocked
	}
	rec.RefreshLocked = true
	r.records[tokenID] = rec
	return nil
}
