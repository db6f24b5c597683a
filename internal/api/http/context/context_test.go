package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s123600g/tokenforge/internal/model"
)

func TestManager_SetAndGetTokenInfo(t *testing.T) {
	m := NewManager()
	info := model.TokenInfo{
		TokenID: "b7a2c1d0-0000-4000-8000-000000000001",
		Issuer:  "tokenforge",
		Subject: "user-1",
	}

	ctx := m.SetTokenInfoToContext(context.Background(), info)

	got, ok := m.GetTokenInfoFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, info, got)
}

func TestManager_GetTokenInfo_Missing(t *testing.T) {
	m := NewManager()

	_, ok := m.GetTokenInfoFromContext(context.Background())
	assert.False(t, ok)
}

func TestManager_SetTokenInfo_Overwrites(t *testing.T) {
	m := NewManager()

	ctx := m.SetTokenInfoToContext(context.Background(), model.TokenInfo{TokenID: "first"})
	ctx = m.SetTokenInfoToContext(ctx, model.TokenInfo{TokenID: "second"})

	got, ok := m.GetTokenInfoFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "second", got.TokenID)
}
