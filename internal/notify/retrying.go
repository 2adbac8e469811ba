package notify

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/IBM/sarama"

	"service-bidding/internal/domain"
	"service-bidding/internal/logx"
)

// Sender is anything that can deliver one notification.
type Sender interface {
	Notify(ctx context.Context, n domain.Notification) error
}

type counter interface {
	Inc()
}

// RetryConfig describes the retry policy of Retrying.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Retrying retries transient publish failures with exponential backoff.
type Retrying struct {
	next    Sender
	logger  logx.Logger
	retries counter
	cfg     RetryConfig
	wait    func(ctx context.Context, d time.Duration) bool
}

// NewRetrying wraps next. It returns nil when next is nil.
func NewRetrying(next Sender, logger logx.Logger, retries counter, cfg RetryConfig) *Retrying {
	if next == nil {
		return nil
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Retrying{next: next, logger: logger, retries: retries, cfg: cfg, wait: sleepWithContext}
}

// Notify delivers n, retrying while the error looks transient.
func (r *Retrying) Notify(ctx context.Context, n domain.Notification) error {
	var lastErr error
	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		err := r.next.Notify(ctx, n)
		if err == nil {
			return nil
		}
		lastErr = err
		if ctx.Err() != nil || attempt == r.cfg.MaxAttempts || !isRetryable(err) {
			break
		}

		delay := backoff(r.cfg.BaseDelay, r.cfg.MaxDelay, attempt)
		if r.retries != nil {
			r.retries.Inc()
		}
		r.logger.Warn("notification retry",
			logx.String("kind", string(n.Kind)),
			logx.String("recipient_id", n.RecipientID),
			logx.Int("attempt", attempt),
			logx.Duration("delay", delay),
			logx.Err(err),
		)
		if !r.wait(ctx, delay) {
			break
		}
	}
	return lastErr
}

var retryableKafka = []error{
	sarama.ErrOutOfBrokers,
	sarama.ErrNotConnected,
	sarama.ErrLeaderNotAvailable,
	sarama.ErrNotLeaderForPartition,
	sarama.ErrRequestTimedOut,
	sarama.ErrBrokerNotAvailable,
	sarama.ErrNotEnoughReplicas,
	sarama.ErrNotEnoughReplicasAfterAppend,
}

func isRetryable(err error) bool {
	for _, target := range retryableKafka {
		if errors.Is(err, target) {
			return true
		}
	}
	var ne net.Error
	return errors.As(err, &ne)
}

func backoff(base, max time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	if d > max {
		return max
	}
	return d
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
