package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apicontext "github.com/s123600g/tokenforge/internal/api/http/context"
	"github.com/s123600g/tokenforge/internal/model"
	"github.com/s123600g/tokenforge/internal/testutil"
	"github.com/s123600g/tokenforge/internal/token"
)

const testSignKey = "test-secret"

func signTestToken(t *testing.T, issuer, subject string) (string, token.Claims) {
	t.Helper()

	claims, err := token.NewClaims(issuer, subject, "", 30)
	require.NoError(t, err)

	signed, err := token.NewSigner().Sign(claims, testSignKey)
	require.NoError(t, err)
	return signed, claims
}

func newAuthProbe(t *testing.T) (http.Handler, *model.TokenInfo) {
	t.Helper()

	cm := apicontext.NewManager()
	middleware := NewAuthenticate(token.NewSigner(), testSignKey, "test-issuer", cm, testutil.MakeNoopLogger())

	var seen model.TokenInfo
	probe := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, ok := cm.GetTokenInfoFromContext(r.Context())
		require.True(t, ok)
		seen = info
		w.WriteHeader(http.StatusOK)
	})

	return middleware.Handle(probe), &seen
}

func TestAuthenticate_ValidToken(t *testing.T) {
	handler, seen := newAuthProbe(t)

	signed, claims := signTestToken(t, "test-issuer", "user-1")
	req := httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+signed)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, claims.ID, seen.TokenID)
	assert.Equal(t, "test-issuer", seen.Issuer)
	assert.Equal(t, "user-1", seen.Subject)
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	handler, _ := newAuthProbe(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/refresh", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_WrongKey(t *testing.T) {
	handler, _ := newAuthProbe(t)

	claims, err := token.NewClaims("test-issuer", "user-1", "", 30)
	require.NoError(t, err)
	signed, err := token.NewSigner().Sign(claims, "other-secret")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+signed)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_IssuerMismatch(t *testing.T) {
	handler, _ := newAuthProbe(t)

	signed, _ := signTestToken(t, "someone-else", "user-1")
	req := httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+signed)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_MissingBearerScheme(t *testing.T) {
	handler, _ := newAuthProbe(t)

	// A valid token without the Bearer scheme must not be accepted.
	signed, _ := signTestToken(t, "test-issuer", "user-1")
	req := httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
	req.Header.Set("Authorization", signed)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_GarbageToken(t *testing.T) {
	handler, _ := newAuthProbe(t)

	req := httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
