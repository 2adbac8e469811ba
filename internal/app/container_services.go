package app

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"service-bidding/internal/config"
	"service-bidding/internal/domain"
	"service-bidding/internal/fee"
	"service-bidding/internal/logx"
	"service-bidding/internal/notify"
	"service-bidding/internal/ports/bidtx"
	"service-bidding/internal/service/assignment"
	"service-bidding/internal/service/bids"
	"service-bidding/internal/service/jobs"
	"service-bidding/internal/tracking"
)

// closeNotifier releases the notification producer.
type closeNotifier func() error

func newFeeEstimator(cfg *config.Config) *fee.Estimator {
	f := cfg.Fee
	return fee.NewEstimator(fee.RateTable{
		Version:     f.Version,
		BaseFee:     f.BaseFee,
		PerKm:       f.PerKm,
		FallbackFee: f.FallbackFee,
		Multipliers: map[domain.Priority]float64{
			domain.PriorityNormal:  1,
			domain.PriorityUrgent:  f.UrgentMultiplier,
			domain.PriorityExpress: f.ExpressMultiplier,
		},
	})
}

func newBidPolicy(cfg *config.Config) bids.Policy {
	b := cfg.Bids
	return bids.Policy{
		domain.KindOrder: {Min: b.OrderMin, Max: b.OrderMax},
		domain.KindP2P:   {Min: b.P2PMin, Max: b.P2PMax},
	}
}

type notifierIn struct {
	dig.In

	Config  *config.Config
	Logger  logx.Logger
	Retries prometheus.Counter `name:"notification_retries_total"`
}

var newKafkaNotifier = notify.NewKafkaNotifier

// newNotifier publishes to Kafka with retries when configured, and only logs
// notifications otherwise.
func newNotifier(in notifierIn) (assignment.Notifier, closeNotifier, error) {
	k := in.Config.Kafka
	producer, err := newKafkaNotifier(k.Brokers, k.NotificationsTopic)
	if err != nil {
		return nil, nil, err
	}
	if producer == nil {
		in.Logger.Info("kafka notifications disabled, logging only")
		return notify.NewLogOnly(in.Logger), func() error { return nil }, nil
	}

	r := in.Config.Notify
	retrying := notify.NewRetrying(producer, in.Logger, in.Retries, notify.RetryConfig{
		MaxAttempts: r.MaxAttempts,
		BaseDelay:   r.BaseDelay,
		MaxDelay:    r.MaxDelay,
	})
	return retrying, producer.Close, nil
}

type coordinatorIn struct {
	dig.In

	Store               bidtx.Store
	Tracking            *tracking.Log
	Notifier            assignment.Notifier
	Timeout             time.Duration
	Logger              logx.Logger
	AcceptConflicts     prometheus.Counter     `name:"accept_conflicts_total"`
	NotificationsFailed prometheus.Counter     `name:"notifications_failed_total"`
	Transitions         *prometheus.CounterVec `name:"job_transitions_total"`
}

func newCoordinator(in coordinatorIn) *assignment.Coordinator {
	return assignment.NewCoordinator(in.Store, in.Tracking, in.Notifier, assignment.Metrics{
		AcceptConflicts:     in.AcceptConflicts,
		NotificationsFailed: in.NotificationsFailed,
		Transitions:         in.Transitions,
	}, in.Timeout, in.Logger)
}

type ledgerIn struct {
	dig.In

	Store     bidtx.Store
	Policy    bids.Policy
	Submitted *prometheus.CounterVec `name:"bids_submitted_total"`
	Timeout   time.Duration
	Logger    logx.Logger
}

func newLedger(in ledgerIn) *bids.Ledger {
	return bids.NewLedger(in.Store, in.Policy, in.Submitted, in.Timeout, in.Logger)
}

func registerDomainServices(container *dig.Container) error {
	return provideAll(container,
		newFeeEstimator,
		newBidPolicy,
		func() *tracking.Log { return tracking.NewLog(nil) },
		func(store bidtx.Store, est *fee.Estimator, tl *tracking.Log, timeout time.Duration, logger logx.Logger) *jobs.Registry {
			return jobs.NewRegistry(store, est, tl, timeout, logger)
		},
		newLedger,
		newNotifier,
		newCoordinator,
	)
}
