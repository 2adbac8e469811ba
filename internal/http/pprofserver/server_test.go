package pprofserver

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"service-bidding/internal/logx"
)

func serve(t *testing.T, cfg Config, remote, user, pass string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "http://example/debug/pprof/cmdline", nil)
	req.RemoteAddr = remote
	if user != "" {
		req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(user+":"+pass)))
	}
	rr := httptest.NewRecorder()
	Handler(cfg, logx.Nop()).ServeHTTP(rr, req)
	return rr
}

func TestHandler_LoopbackWithoutAuth(t *testing.T) {
	t.Parallel()
	rr := serve(t, Config{}, "127.0.0.1:12345", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestHandler_RemoteWithoutConfiguredCreds(t *testing.T) {
	t.Parallel()
	rr := serve(t, Config{}, "8.8.8.8:54444", "u", "p")
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.NotEmpty(t, rr.Header().Get("WWW-Authenticate"))
}

func TestHandler_RemoteWrongCreds(t *testing.T) {
	t.Parallel()
	rr := serve(t, Config{User: "u", Pass: "p"}, "8.8.8.8:54444", "u", "WRONG")
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.NotEmpty(t, rr.Header().Get("WWW-Authenticate"))
}

func TestHandler_RemoteCorrectCreds(t *testing.T) {
	t.Parallel()
	rr := serve(t, Config{User: "u", Pass: "p"}, "8.8.8.8:54444", "u", "p")
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestNewServer(t *testing.T) {
	t.Parallel()
	srv := NewServer(Config{Addr: "127.0.0.1:6060"}, logx.Nop())
	require.Equal(t, "127.0.0.1:6060", srv.Addr)
	require.NotNil(t, srv.Handler)
}

func TestIsLoopback(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want bool
	}{
		{"127.0.0.1:123", true},
		{"127.0.0.1", true},
		{" 127.0.0.1 ", true},
		{"[::1]:123", true},
		{"8.8.8.8:1", false},
		{"not-an-ip:1", false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, isLoopback(tc.in), tc.in)
	}
}
