// Package bids is the bid ledger: couriers submit and withdraw bids here and
// customers list them. Accepting and rejecting bids belongs to the
// assignment coordinator.
package bids

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"service-bidding/internal/apperr"
	"service-bidding/internal/domain"
	"service-bidding/internal/logx"
	"service-bidding/internal/ports/bidtx"
)

// Ledger - service for courier bids.
type Ledger struct {
	store            bidtx.Store
	policy           Policy
	submitted        *prometheus.CounterVec
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
	newID            func() uuid.UUID
}

// NewLedger - creates a new Ledger. submitted may be nil.
func NewLedger(store bidtx.Store, policy Policy, submitted *prometheus.CounterVec, timeout time.Duration, logger logx.Logger) *Ledger {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Ledger{
		store:            store,
		policy:           policy,
		submitted:        submitted,
		operationTimeout: timeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
		newID:            uuid.New,
	}
}

func (l *Ledger) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, l.operationTimeout)
}

// SubmitBid stores a PENDING bid from a courier on an open job.
func (l *Ledger) SubmitBid(ctx context.Context, req domain.Requester, jobID uuid.UUID, amount float64, etaMinutes int) (domain.Bid, error) {
	if req.Role != domain.RoleCourier || req.ID == "" {
		return domain.Bid{}, apperr.ErrNotRole
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return domain.Bid{}, apperr.ErrInvalidAmount
	}
	amount = round2(amount)
	if amount <= 0 {
		return domain.Bid{}, apperr.ErrInvalidAmount
	}
	if etaMinutes <= 0 {
		return domain.Bid{}, apperr.ErrInvalidEta
	}

	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	var (
		bid  domain.Bid
		kind domain.JobKind
	)
	err := l.store.WithTx(ctx, func(tx bidtx.Repository) error {
		job, err := tx.LockJob(ctx, jobID)
		if err != nil {
			return err
		}
		if job == nil || job.Status != domain.JobOpen {
			return apperr.ErrJobNotBiddable
		}
		if !l.policy.Allows(*job, amount) {
			return apperr.ErrInvalidAmount
		}

		now := l.now()
		bid = domain.Bid{
			ID:         l.newID(),
			JobID:      jobID,
			CourierID:  req.ID,
			Amount:     amount,
			EtaMinutes: etaMinutes,
			Status:     domain.BidPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		kind = job.Kind
		return tx.InsertBid(ctx, &bid)
	})
	if err != nil {
		return domain.Bid{}, err
	}

	if l.submitted != nil {
		l.submitted.WithLabelValues(string(kind)).Inc()
	}
	l.logger.Info("bid submitted",
		logx.String("event", "bid_submitted"),
		logx.String("job_id", jobID.String()),
		logx.String("bid_id", bid.ID.String()),
		logx.String("courier_id", bid.CourierID),
		logx.Float64("amount", bid.Amount),
	)
	return bid, nil
}

// ListBids returns every bid on the job, lowest amount first.
func (l *Ledger) ListBids(ctx context.Context, jobID uuid.UUID) ([]domain.Bid, error) {
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	job, err := l.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, apperr.ErrJobNotFound
	}
	return l.store.ListBids(ctx, jobID)
}

// WithdrawBid lets the submitting courier retract a bid that is still pending.
func (l *Ledger) WithdrawBid(ctx context.Context, req domain.Requester, jobID, bidID uuid.UUID) (domain.Bid, error) {
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	var bid domain.Bid
	err := l.store.WithTx(ctx, func(tx bidtx.Repository) error {
		// the job lock orders this against a concurrent accept
		job, err := tx.LockJob(ctx, jobID)
		if err != nil {
			return err
		}
		if job == nil {
			return apperr.ErrJobNotFound
		}
		b, err := tx.GetBid(ctx, bidID)
		if err != nil {
			return err
		}
		if b == nil || b.JobID != jobID {
			return apperr.ErrBidNotFound
		}
		if b.CourierID != req.ID {
			return apperr.ErrNotOwner
		}
		if b.Status != domain.BidPending {
			return apperr.ErrBidNotPending
		}

		now := l.now()
		ok, err := tx.UpdateBidStatus(ctx, bidID, domain.BidPending, domain.BidWithdrawn, now)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.ErrBidNotPending
		}
		bid = *b
		bid.Status = domain.BidWithdrawn
		bid.UpdatedAt = now
		return nil
	})
	if err != nil {
		return domain.Bid{}, err
	}

	l.logger.Info("bid withdrawn",
		logx.String("event", "bid_withdrawn"),
		logx.String("job_id", jobID.String()),
		logx.String("bid_id", bidID.String()),
	)
	return bid, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
