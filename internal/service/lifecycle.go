package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/s123600g/tokenforge/internal/logger"
	"github.com/s123600g/tokenforge/internal/model"
	"github.com/s123600g/tokenforge/internal/token"
)

// TokenSigner serializes a claim set into a signed token string.
type TokenSigner interface {
	Sign(claims token.Claims, signKey string) (string, error)
}

// IssueParams are the per-call inputs for issuing a token. Issuer, key and
// lifetime come from configuration outside this core; no key management
// happens here.
type IssueParams struct {
	Issuer        string
	Subject       string
	Audience      string
	SignKey       string
	ExpireMinutes int
}

// TokenLifecycle orchestrates claim construction, signing and lineage
// persistence, and enforces the single-refresh policy: each issued token
// may be exchanged for exactly one successor. It holds no mutable state of
// its own; all shared state lives in the LineageStore.
type TokenLifecycle struct {
	store  model.LineageStore
	signer TokenSigner
	logger *logger.Logger
}

// NewTokenLifecycle creates a TokenLifecycle with its dependencies.
func NewTokenLifecycle(store model.LineageStore, signer TokenSigner, logger *logger.Logger) *TokenLifecycle {
	return &TokenLifecycle{store: store, signer: signer, logger: logger}
}

// Generated token IDs are 128-bit random, so a collision is practically
// impossible; a duplicate insert is still retried with a fresh ID a bounded
// number of times rather than surfaced to the caller.
const maxIssueAttempts = 3

// Issue builds, signs and records a new token. The signed string is
// returned only after the lineage record is durably persisted: a token
// without a record could never be locked and would be refreshable forever.
func (s *TokenLifecycle) Issue(ctx context.Context, params IssueParams) (string, error) {
	for attempt := 0; attempt < maxIssueAttempts; attempt++ {
		signed, rec, err := s.buildAndSign(params)
		if err != nil {
			return "", err
		}

		if err := s.store.Insert(ctx, rec); err != nil {
			if errors.Is(err, model.ErrDuplicateTokenID) {
				s.logger.Warn("token id collision, regenerating", "token_id", rec.TokenID)
				continue
			}
			s.logger.Error("failed to persist lineage record", "token_id", rec.TokenID, "error", err)
			return "", fmt.Errorf("%w: %v", model.ErrIssueFailed, err)
		}

		return signed, nil
	}

	return "", fmt.Errorf("%w: token id collisions exhausted retries", model.ErrIssueFailed)
}

// CanRefresh reports whether the given token ID is still eligible for
// refresh. An unknown ID answers false with no error: an identifier with no
// lineage record must never be refreshable.
func (s *TokenLifecycle) CanRefresh(ctx context.Context, tokenID string) (bool, error) {
	rec, err := s.store.Get(ctx, tokenID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read lineage record: %w", err)
	}

	return !rec.RefreshLocked, nil
}

// Refresh exchanges an unlocked token for a successor with a brand-new ID,
// locking the predecessor's lineage permanently. The successor insert and
// the predecessor lock are applied as one durable unit; when two callers
// race on the same ID, exactly one wins and the other observes
// ErrRefreshDenied.
func (s *TokenLifecycle) Refresh(ctx context.Context, oldTokenID string, params IssueParams) (string, error) {
	eligible, err := s.CanRefresh(ctx, oldTokenID)
	if err != nil {
		s.logger.Error("failed to check refresh eligibility", "token_id", oldTokenID, "error", err)
		return "", fmt.Errorf("%w: %v", model.ErrRefreshFailed, err)
	}
	if !eligible {
		return "", model.ErrRefreshDenied
	}

	for attempt := 0; attempt < maxIssueAttempts; attempt++ {
		signed, rec, err := s.buildAndSign(params)
		if err != nil {
			return "", err
		}

		err = s.store.Rotate(ctx, rec, oldTokenID)
		switch {
		case err == nil:
			return signed, nil
		case errors.Is(err, model.ErrDuplicateTokenID):
			s.logger.Warn("token id collision, regenerating", "token_id", rec.TokenID)
			continue
		case errors.Is(err, model.ErrLineageLocked), errors.Is(err, model.ErrNotFound):
			// Lost the race between the eligibility check and the lock.
			return "", model.ErrRefreshDenied
		default:
			s.logger.Error("failed to rotate lineage", "old_token_id", oldTokenID, "new_token_id", rec.TokenID, "error", err)
			return "", fmt.Errorf("%w: %v", model.ErrRefreshFailed, err)
		}
	}

	return "", fmt.Errorf("%w: token id collisions exhausted retries", model.ErrRefreshFailed)
}

func (s *TokenLifecycle) buildAndSign(params IssueParams) (string, model.LineageRecord, error) {
	claims, err := token.NewClaims(params.Issuer, params.Subject, params.Audience, params.ExpireMinutes)
	if err != nil {
		return "", model.LineageRecord{}, err
	}

	signed, err := s.signer.Sign(claims, params.SignKey)
	if err != nil {
		s.logger.Error("failed to sign token", "token_id", claims.ID, "error", err)
		return "", model.LineageRecord{}, err
	}

	rec := model.LineageRecord{
		TokenID:       claims.ID,
		RefreshLocked: false,
		CreatedAt:     claims.IssuedAt.Time,
		ExpiresAt:     claims.ExpiresAt.Time,
	}

	return signed, rec, nil
}
