package model

import "context"

// TokenInfo carries the verified claims the transport layer extracts from a
// presented bearer token. The lifecycle core only ever consumes TokenID.
type TokenInfo struct {
	TokenID string
	Issuer  string
	Subject string
}

// ContextManager moves verified token info in and out of request contexts.
type ContextManager interface {
	SetTokenInfoToContext(ctx context.Context, info TokenInfo) context.Context
	GetTokenInfoFromContext(ctx context.Context) (TokenInfo, bool)
}
