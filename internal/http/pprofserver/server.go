// Package pprofserver exposes runtime profiles on a separate listener.
package pprofserver

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"service-bidding/internal/logx"
)

// Config stores pprof listener settings.
type Config struct {
	Addr string
	User string
	Pass string
}

// Handler serves /debug/pprof. Loopback callers pass freely, remote callers
// need basic auth, and without credentials configured they are refused.
func Handler(cfg Config, logger logx.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(localOrAuth(cfg, logger))
	r.Mount("/debug", chimw.Profiler())
	return r
}

// NewServer returns the pprof listener.
func NewServer(cfg Config, logger logx.Logger) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           Handler(cfg, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func localOrAuth(cfg Config, logger logx.Logger) func(http.Handler) http.Handler {
	var basic func(http.Handler) http.Handler
	if cfg.User != "" && cfg.Pass != "" {
		basic = chimw.BasicAuth("pprof", map[string]string{cfg.User: cfg.Pass})
	}
	return func(next http.Handler) http.Handler {
		guarded := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Warn("pprof access refused", logx.String("remote", r.RemoteAddr))
			w.Header().Set("WWW-Authenticate", `Basic realm="pprof"`)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		})
		var remote http.Handler = guarded
		if basic != nil {
			remote = basic(next)
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isLoopback(r.RemoteAddr) {
				next.ServeHTTP(w, r)
				return
			}
			remote.ServeHTTP(w, r)
		})
	}
}

func isLoopback(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	ip := net.ParseIP(strings.TrimSpace(host))
	return ip != nil && ip.IsLoopback()
}
