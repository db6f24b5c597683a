package model

import "errors"

var (
	// ErrInvalidExpiry rejects non-positive token lifetimes before any
	// claim is built or state is touched.
	ErrInvalidExpiry = errors.New("token lifetime must be a positive number of minutes")
	// ErrEmptySignKey rejects signing with empty key material.
	ErrEmptySignKey = errors.New("signing key is empty")
	// ErrDuplicateTokenID reports a lineage insert that collided with an
	// existing token ID.
	ErrDuplicateTokenID = errors.New("token id already recorded")
	// ErrNotFound reports a lookup against an unknown token ID.
	ErrNotFound = errors.New("lineage record not found")
	// ErrLineageLocked reports a lock attempt on a record whose refresh
	// lock was already applied.
	ErrLineageLocked = errors.New("lineage record already locked")
	// ErrRefreshDenied is the user-visible refusal: the presented token is
	// locked, unknown, or lost the rotation race.
	ErrRefreshDenied = errors.New("token is not eligible for refresh")
	// ErrIssueFailed wraps persistence failures during issuance; no token
	// is surfaced when it is returned.
	ErrIssueFailed = errors.New("token issuance failed")
	// ErrRefreshFailed wraps persistence failures during rotation; no
	// successor token is surfaced when it is returned.
	ErrRefreshFailed = errors.New("token refresh failed")
)
