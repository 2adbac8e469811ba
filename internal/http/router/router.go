package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"service-bidding/internal/http/handlers"
	obs "service-bidding/internal/http/middleware"
	"service-bidding/internal/http/middleware/auth"
	"service-bidding/internal/http/middleware/ratelimit"
	"service-bidding/internal/logx"
)

// Deps are the handlers and middleware the router mounts.
type Deps struct {
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

// New constructs a chi-based http.Handler with base middleware and routes.
func New(d Deps) http.Handler {
	if d.Timeout <= 0 {
		d.Timeout = 5 * time.Second
	}
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(obs.Observability(d.Logger, d.Metrics))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(d.Timeout))

	r.Get("/ping", d.Base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(d.Base.HealthcheckHead))
	if d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(d.Logger, d.Verifier))
		if d.RateLimit != nil {
			r.Use(d.RateLimit.Handler())
		}

		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", d.Jobs.List)
			r.Post("/", d.Jobs.Create)

			r.Route("/{jobId}", func(r chi.Router) {
				r.Get("/", d.Jobs.Get)
				r.Get("/tracking", d.Jobs.Tracking)
				r.Post("/cancel", d.Jobs.Cancel)
				r.Post("/start", d.Jobs.Start)
				r.Post("/deliver", d.Jobs.Deliver)

				r.Get("/bids", d.Bids.List)
				r.Post("/bids", d.Bids.Submit)
				r.Put("/bids/{bidId}", d.Bids.Update)
				r.Delete("/bids/{bidId}", d.Bids.Withdraw)
			})
		})
	})

	r.NotFound(d.Base.NotFound)
	r.MethodNotAllowed(d.Base.MethodNotAllowed)

	return r
}
