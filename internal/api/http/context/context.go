package context

import (
	"context"

	"github.com/s123600g/tokenforge/internal/model"
)

type tokenInfoKey struct{}

// Manager moves verified token info in and out of request contexts.
type Manager struct{}

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetTokenInfoToContext returns a child context carrying the token info.
func (m *Manager) SetTokenInfoToContext(ctx context.Context, info model.TokenInfo) context.Context {
	return context.WithValue(ctx, tokenInfoKey{}, info)
}

// GetTokenInfoFromContext retrieves the token info set by the authentication
// middleware. The boolean reports whether any info was present.
func (m *Manager) GetTokenInfoFromContext(ctx context.Context) (model.TokenInfo, bool) {
	info, ok := ctx.Value(tokenInfoKey{}).(model.TokenInfo)
	return info, ok
}
