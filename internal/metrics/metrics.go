package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}

// NewNotificationRetriesTotal returns a counter of notification publish retries.
func NewNotificationRetriesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notification_retries_total",
		Help: "Total number of retry attempts performed when publishing courier notifications",
	})
}

// NewNotificationsFailedTotal returns a counter of notifications given up on.
func NewNotificationsFailedTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notifications_failed_total",
		Help: "Total number of courier notifications that could not be delivered",
	})
}

// NewBidsSubmittedTotal returns a counter of accepted bid submissions by job kind.
func NewBidsSubmittedTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bids_submitted_total",
		Help: "Total number of bids stored, by job kind",
	}, []string{"kind"})
}

// NewAcceptConflictsTotal returns a counter of acceptances that lost to a concurrent one.
func NewAcceptConflictsTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "accept_conflicts_total",
		Help: "Total number of bid acceptances rejected because the job was no longer open",
	})
}

// NewJobTransitionsTotal returns a counter of job status transitions by target status.
func NewJobTransitionsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "job_transitions_total",
		Help: "Total number of job status transitions, by target status",
	}, []string{"status"})
}

// Register registers c, or returns the collector of the same type that is
// already registered under its descriptor.
func Register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}
