package router_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apicontext "github.com/s123600g/tokenforge/internal/api/http/context"
	"github.com/s123600g/tokenforge/internal/api/http/handler"
	"github.com/s123600g/tokenforge/internal/api/http/router"
	"github.com/s123600g/tokenforge/internal/config"
	"github.com/s123600g/tokenforge/internal/repository/memory"
	"github.com/s123600g/tokenforge/internal/service"
	"github.com/s123600g/tokenforge/internal/testutil"
	"github.com/s123600g/tokenforge/internal/token"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		JWT: config.JWT{
			Issuer:        "test-issuer",
			SignKey:       "test-secret",
			ExpireMinutes: 30,
		},
	}

	signer := token.NewSigner()
	lifecycle := service.NewTokenLifecycle(memory.NewLineageRepository(), signer, testutil.MakeNoopLogger())
	r := router.New(lifecycle, signer, apicontext.NewManager(), cfg, testutil.MakeNoopLogger())

	srv := httptest.NewServer(r.Register())
	t.Cleanup(srv.Close)
	return srv
}

func doRequest(t *testing.T, srv *httptest.Server, method, path, bearer string) (int, handler.Response) {
	t.Helper()

	req, err := http.NewRequest(method, srv.URL+path, nil)
	require.NoError(t, err)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	res, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	var resp handler.Response
	require.NoError(t, json.NewDecoder(res.Body).Decode(&resp))
	return res.StatusCode, resp
}

func TestRouter_SignInRefreshFlow(t *testing.T) {
	srv := newTestServer(t)

	code, resp := doRequest(t, srv, http.MethodPost, "/api/signin", "")
	require.Equal(t, http.StatusOK, code)
	require.True(t, resp.Status)
	first := resp.JwtToken
	require.NotEmpty(t, first)

	code, resp = doRequest(t, srv, http.MethodPost, "/api/refresh", first)
	require.Equal(t, http.StatusOK, code)
	require.True(t, resp.Status)
	second := resp.JwtToken
	require.NotEmpty(t, second)
	require.NotEqual(t, first, second)

	// The predecessor is locked for good once exchanged.
	code, resp = doRequest(t, srv, http.MethodPost, "/api/refresh", first)
	require.Equal(t, http.StatusForbidden, code)
	require.False(t, resp.Status)
	require.Empty(t, resp.JwtToken)

	// The successor starts its own lineage and refreshes normally.
	code, resp = doRequest(t, srv, http.MethodPost, "/api/refresh", second)
	require.Equal(t, http.StatusOK, code)
	require.True(t, resp.Status)
}

func TestRouter_RefreshRequiresToken(t *testing.T) {
	srv := newTestServer(t)

	code, resp := doRequest(t, srv, http.MethodPost, "/api/refresh", "")
	require.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, resp.Status)
}

func TestRouter_GetInfo(t *testing.T) {
	srv := newTestServer(t)

	code, resp := doRequest(t, srv, http.MethodPost, "/api/signin", "")
	require.Equal(t, http.StatusOK, code)

	code, info := doRequest(t, srv, http.MethodGet, "/api/get/info", resp.JwtToken)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, info.Status)
	assert.Contains(t, info.Msg, "issuer=test-issuer")
}

func TestRouter_HomeAndHealth(t *testing.T) {
	srv := newTestServer(t)

	code, resp := doRequest(t, srv, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Status)

	res, err := srv.Client().Get(srv.URL + "/health")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestRouter_ConcurrentRefresh_SingleWinner(t *testing.T) {
	srv := newTestServer(t)

	code, resp := doRequest(t, srv, http.MethodPost, "/api/signin", "")
	require.Equal(t, http.StatusOK, code)
	first := resp.JwtToken

	const n = 16
	var wg sync.WaitGroup
	wg.Add(n)
	codes := make(chan int, n)

	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()

			req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/refresh", nil)
			if err != nil {
				codes <- 0
				return
			}
			req.Header.Set("Authorization", "Bearer "+first)

			res, err := srv.Client().Do(req)
			if err != nil {
				codes <- 0
				return
			}
			res.Body.Close()
			codes <- res.StatusCode
		}()
	}
	wg.Wait()
	close(codes)

	success := 0
	for code := range codes {
		switch code {
		case http.StatusOK:
			success++
		case http.StatusForbidden:
		default:
			t.Fatalf("unexpected status code %d", code)
		}
	}
	require.Equal(t, 1, success)
}
