package app

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	obs "service-bidding/internal/http/middleware"
	"service-bidding/internal/metrics"
)

type metricsOut struct {
	dig.Out

	RateLimitExceededTotal   prometheus.Counter     `name:"rate_limit_exceeded_total"`
	NotificationRetriesTotal prometheus.Counter     `name:"notification_retries_total"`
	NotificationsFailedTotal prometheus.Counter     `name:"notifications_failed_total"`
	AcceptConflictsTotal     prometheus.Counter     `name:"accept_conflicts_total"`
	BidsSubmittedTotal       *prometheus.CounterVec `name:"bids_submitted_total"`
	JobTransitionsTotal      *prometheus.CounterVec `name:"job_transitions_total"`
	HTTP                     obs.HTTPMetrics
}

func provideMetrics(reg prometheus.Registerer) (metricsOut, error) {
	var (
		out metricsOut
		err error
	)
	counters := []struct {
		name string
		dst  *prometheus.Counter
		c    prometheus.Counter
	}{
		{"rate_limit_exceeded_total", &out.RateLimitExceededTotal, metrics.NewRateLimitExceededTotal()},
		{"notification_retries_total", &out.NotificationRetriesTotal, metrics.NewNotificationRetriesTotal()},
		{"notifications_failed_total", &out.NotificationsFailedTotal, metrics.NewNotificationsFailedTotal()},
		{"accept_conflicts_total", &out.AcceptConflictsTotal, metrics.NewAcceptConflictsTotal()},
	}
	for _, c := range counters {
		if *c.dst, err = metrics.Register(reg, c.c); err != nil {
			return metricsOut{}, fmt.Errorf("register %s: %w", c.name, err)
		}
	}

	if out.BidsSubmittedTotal, err = metrics.Register(reg, metrics.NewBidsSubmittedTotal()); err != nil {
		return metricsOut{}, fmt.Errorf("register bids_submitted_total: %w", err)
	}
	if out.JobTransitionsTotal, err = metrics.Register(reg, metrics.NewJobTransitionsTotal()); err != nil {
		return metricsOut{}, fmt.Errorf("register job_transitions_total: %w", err)
	}

	out.HTTP = obs.NewHTTPMetrics()
	if out.HTTP.Requests, err = metrics.Register(reg, out.HTTP.Requests); err != nil {
		return metricsOut{}, fmt.Errorf("register http_requests_total: %w", err)
	}
	if out.HTTP.Duration, err = metrics.Register(reg, out.HTTP.Duration); err != nil {
		return metricsOut{}, fmt.Errorf("register http_request_duration_seconds: %w", err)
	}
	return out, nil
}

func registerMetrics(container *dig.Container) error {
	return provideAll(container, provideMetrics)
}
