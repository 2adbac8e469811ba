package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"service-bidding/internal/config"
	"service-bidding/internal/http/handlers"
	obs "service-bidding/internal/http/middleware"
	"service-bidding/internal/http/middleware/auth"
	"service-bidding/internal/http/middleware/ratelimit"
	"service-bidding/internal/http/pprofserver"
	"service-bidding/internal/http/router"
	"service-bidding/internal/logx"
	"service-bidding/internal/service/assignment"
	"service-bidding/internal/service/bids"
	"service-bidding/internal/service/jobs"
)

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 15 * time.Second
	writeTimeout      = 15 * time.Second
	idleTimeout       = 60 * time.Second
)

type routerIn struct {
	dig.In

	Base      *handlers.Handlers
	Jobs      *handlers.JobHandler
	Bids      *handlers.BidHandler
	Logger    logx.Logger
	Metrics   obs.HTTPMetrics
	Gatherer  prometheus.Gatherer
	Verifier  *auth.Verifier
	RateLimit *ratelimit.Middleware
	Timeout   time.Duration
}

func newRouter(in routerIn) http.Handler {
	return router.New(router.Deps{
		Base:      in.Base,
		Jobs:      in.Jobs,
		Bids:      in.Bids,
		Logger:    in.Logger,
		Metrics:   in.Metrics,
		Gatherer:  in.Gatherer,
		Verifier:  in.Verifier,
		RateLimit: in.RateLimit,
		Timeout:   in.Timeout,
	})
}

func newHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           h,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
}

type pprofOut struct {
	dig.Out

	Server *http.Server `name:"pprof_server"`
}

// newPprofServer yields a nil server when profiling is disabled.
func newPprofServer(cfg *config.Config, logger logx.Logger) pprofOut {
	if !cfg.Pprof.Enabled {
		return pprofOut{}
	}
	return pprofOut{Server: pprofserver.NewServer(pprofserver.Config{
		Addr: cfg.Pprof.Addr,
		User: cfg.Pprof.User,
		Pass: cfg.Pprof.Pass,
	}, logger)}
}

func registerHTTP(container *dig.Container) error {
	return provideAll(container,
		handlers.New,
		func(logger logx.Logger, reg *jobs.Registry, coord *assignment.Coordinator) *handlers.JobHandler {
			return handlers.NewJobHandler(logger, reg, coord)
		},
		func(logger logx.Logger, ledger *bids.Ledger, coord *assignment.Coordinator) *handlers.BidHandler {
			return handlers.NewBidHandler(logger, ledger, coord)
		},
		func(cfg *config.Config) *auth.Verifier {
			return auth.NewVerifier(cfg.Auth.Secret, cfg.Auth.Issuer)
		},
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
		newRouter,
		newHTTPServer,
		newPprofServer,
	)
}
