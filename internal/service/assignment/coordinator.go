// Package assignment is the only writer of job and bid status besides bid
// withdrawal. Every state change takes the job row lock and uses
// compare-and-set updates, so of any number of concurrent acceptances on one
// job exactly one can win.
package assignment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"service-bidding/internal/apperr"
	"service-bidding/internal/domain"
	"service-bidding/internal/logx"
	"service-bidding/internal/ports/bidtx"
	"service-bidding/internal/tracking"
)

// Metrics are the counters the coordinator updates. Nil fields are skipped.
type Metrics struct {
	AcceptConflicts     prometheus.Counter
	NotificationsFailed prometheus.Counter
	Transitions         *prometheus.CounterVec
}

// Coordinator - service moving jobs and bids through their state machines.
type Coordinator struct {
	store            bidtx.Store
	tracking         *tracking.Log
	notifier         Notifier
	metrics          Metrics
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
}

// NewCoordinator - creates a new Coordinator.
func NewCoordinator(store bidtx.Store, tl *tracking.Log, n Notifier, m Metrics, timeout time.Duration, logger logx.Logger) *Coordinator {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Coordinator{
		store:            store,
		tracking:         tl,
		notifier:         n,
		metrics:          m,
		operationTimeout: timeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

func (c *Coordinator) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.operationTimeout)
}

// AcceptBid assigns the job to the bid's courier and rejects every other
// pending bid, all in one transaction. Notifications go out after commit.
func (c *Coordinator) AcceptBid(ctx context.Context, req domain.Requester, jobID, bidID uuid.UUID) (domain.AcceptResult, error) {
	txCtx, cancel := c.withTimeout(ctx)
	defer cancel()

	var res domain.AcceptResult
	err := c.store.WithTx(txCtx, func(tx bidtx.Repository) error {
		job, err := c.lockOwned(txCtx, tx, req, jobID, false)
		if err != nil {
			return err
		}
		if job.Status != domain.JobOpen {
			return apperr.ErrJobNotOpen
		}
		bid, err := pendingBid(txCtx, tx, jobID, bidID)
		if err != nil {
			return err
		}

		now := c.now()
		courierID := bid.CourierID
		ok, err := tx.UpdateJobStatus(txCtx, jobID, domain.JobOpen, domain.JobAssigned, &courierID, now)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.ErrJobNotOpen
		}
		ok, err = tx.UpdateBidStatus(txCtx, bidID, domain.BidPending, domain.BidAccepted, now)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.ErrBidNotPending
		}
		rejected, err := tx.RejectPendingBids(txCtx, jobID, &bidID, now)
		if err != nil {
			return err
		}
		if _, err := c.tracking.Append(txCtx, tx, jobID, domain.JobAssigned, fmt.Sprintf("courier %s assigned", courierID)); err != nil {
			return err
		}

		job.Status = domain.JobAssigned
		job.AssignedCourierID = &courierID
		job.UpdatedAt = now
		bid.Status = domain.BidAccepted
		bid.UpdatedAt = now
		res = domain.AcceptResult{Bid: *bid, Job: *job, Rejected: rejected}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperr.ErrJobNotOpen) && c.metrics.AcceptConflicts != nil {
			c.metrics.AcceptConflicts.Inc()
		}
		return domain.AcceptResult{}, err
	}
	c.countTransition(domain.JobAssigned)

	c.logger.Info("bid accepted",
		logx.String("event", "bid_accepted"),
		logx.String("job_id", jobID.String()),
		logx.String("bid_id", bidID.String()),
		logx.String("courier_id", res.Bid.CourierID),
		logx.Int("rejected", len(res.Rejected)),
	)

	notes := make([]domain.Notification, 0, len(res.Rejected)+1)
	notes = append(notes, c.note(domain.NotifyBidAccepted, res.Bid.CourierID, jobID, &res.Bid.ID, "your bid was accepted"))
	for i := range res.Rejected {
		b := res.Rejected[i]
		notes = append(notes, c.note(domain.NotifyBidRejected, b.CourierID, jobID, &b.ID, "another bid was accepted"))
	}
	res.NotificationFailures = c.notify(ctx, notes)
	return res, nil
}

// RejectBid rejects a single pending bid on an open job. Other bids are untouched.
func (c *Coordinator) RejectBid(ctx context.Context, req domain.Requester, jobID, bidID uuid.UUID) (domain.Bid, error) {
	txCtx, cancel := c.withTimeout(ctx)
	defer cancel()

	var bid domain.Bid
	err := c.store.WithTx(txCtx, func(tx bidtx.Repository) error {
		job, err := c.lockOwned(txCtx, tx, req, jobID, false)
		if err != nil {
			return err
		}
		if job.Status != domain.JobOpen {
			return apperr.ErrJobNotOpen
		}
		b, err := pendingBid(txCtx, tx, jobID, bidID)
		if err != nil {
			return err
		}
		now := c.now()
		ok, err := tx.UpdateBidStatus(txCtx, bidID, domain.BidPending, domain.BidRejected, now)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.ErrBidNotPending
		}
		bid = *b
		bid.Status = domain.BidRejected
		bid.UpdatedAt = now
		return nil
	})
	if err != nil {
		return domain.Bid{}, err
	}

	c.logger.Info("bid rejected",
		logx.String("event", "bid_rejected"),
		logx.String("job_id", jobID.String()),
		logx.String("bid_id", bidID.String()),
	)
	c.notify(ctx, []domain.Notification{
		c.note(domain.NotifyBidRejected, bid.CourierID, jobID, &bid.ID, "your bid was rejected"),
	})
	return bid, nil
}

// CancelJob cancels an OPEN or ASSIGNED job and rejects its pending bids.
// Admins may cancel any job, customers only their own.
func (c *Coordinator) CancelJob(ctx context.Context, req domain.Requester, jobID uuid.UUID) (domain.CancelResult, error) {
	txCtx, cancel := c.withTimeout(ctx)
	defer cancel()

	var (
		res         domain.CancelResult
		wasAssigned bool
	)
	err := c.store.WithTx(txCtx, func(tx bidtx.Repository) error {
		job, err := c.lockOwned(txCtx, tx, req, jobID, true)
		if err != nil {
			return err
		}
		if !job.Status.CanTransitionTo(domain.JobCancelled) {
			return apperr.ErrInvalidTransition
		}

		now := c.now()
		ok, err := tx.UpdateJobStatus(txCtx, jobID, job.Status, domain.JobCancelled, nil, now)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.ErrInvalidTransition
		}
		rejected, err := tx.RejectPendingBids(txCtx, jobID, nil, now)
		if err != nil {
			return err
		}
		desc := "job cancelled by owner"
		if req.Role == domain.RoleAdmin && req.ID != job.OwnerID {
			desc = "job cancelled by admin"
		}
		if _, err := c.tracking.Append(txCtx, tx, jobID, domain.JobCancelled, desc); err != nil {
			return err
		}

		wasAssigned = job.Status == domain.JobAssigned
		job.Status = domain.JobCancelled
		job.UpdatedAt = now
		res = domain.CancelResult{Job: *job, Rejected: rejected}
		return nil
	})
	if err != nil {
		return domain.CancelResult{}, err
	}
	c.countTransition(domain.JobCancelled)

	c.logger.Info("job cancelled",
		logx.String("event", "job_cancelled"),
		logx.String("job_id", jobID.String()),
		logx.String("by", req.ID),
		logx.Int("rejected", len(res.Rejected)),
	)

	notes := make([]domain.Notification, 0, len(res.Rejected)+1)
	if wasAssigned && res.Job.AssignedCourierID != nil {
		notes = append(notes, c.note(domain.NotifyJobCancelled, *res.Job.AssignedCourierID, jobID, nil, "the job you were assigned was cancelled"))
	}
	for i := range res.Rejected {
		b := res.Rejected[i]
		notes = append(notes, c.note(domain.NotifyBidRejected, b.CourierID, jobID, &b.ID, "the job was cancelled"))
	}
	res.NotificationFailures = c.notify(ctx, notes)
	return res, nil
}

// StartDelivery marks an assigned job as picked up by its courier.
func (c *Coordinator) StartDelivery(ctx context.Context, req domain.Requester, jobID uuid.UUID) (domain.Job, error) {
	return c.advance(ctx, req, jobID, domain.JobAssigned, domain.JobInProgress, "courier picked up the delivery")
}

// CompleteDelivery marks an in-progress job as delivered by its courier.
func (c *Coordinator) CompleteDelivery(ctx context.Context, req domain.Requester, jobID uuid.UUID) (domain.Job, error) {
	return c.advance(ctx, req, jobID, domain.JobInProgress, domain.JobDelivered, "delivered")
}

func (c *Coordinator) advance(ctx context.Context, req domain.Requester, jobID uuid.UUID, from, to domain.JobStatus, desc string) (domain.Job, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var job domain.Job
	err := c.store.WithTx(ctx, func(tx bidtx.Repository) error {
		j, err := tx.LockJob(ctx, jobID)
		if err != nil {
			return err
		}
		if j == nil {
			return apperr.ErrJobNotFound
		}
		if j.AssignedCourierID == nil || *j.AssignedCourierID != req.ID {
			return apperr.ErrNotOwner
		}
		if j.Status != from {
			return apperr.ErrInvalidTransition
		}
		now := c.now()
		ok, err := tx.UpdateJobStatus(ctx, jobID, from, to, nil, now)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.ErrInvalidTransition
		}
		if _, err := c.tracking.Append(ctx, tx, jobID, to, desc); err != nil {
			return err
		}
		j.Status = to
		j.UpdatedAt = now
		job = *j
		return nil
	})
	if err != nil {
		return domain.Job{}, err
	}
	c.countTransition(to)

	c.logger.Info("job status changed",
		logx.String("event", "job_transition"),
		logx.String("job_id", jobID.String()),
		logx.String("from", string(from)),
		logx.String("to", string(to)),
	)
	return job, nil
}

// lockOwned locks the job and checks that req may act on it as its owner.
func (c *Coordinator) lockOwned(ctx context.Context, tx bidtx.Repository, req domain.Requester, jobID uuid.UUID, adminOK bool) (*domain.Job, error) {
	job, err := tx.LockJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, apperr.ErrJobNotFound
	}
	if job.OwnerID == req.ID || (adminOK && req.Role == domain.RoleAdmin) {
		return job, nil
	}
	return nil, apperr.ErrNotOwner
}

func pendingBid(ctx context.Context, tx bidtx.Repository, jobID, bidID uuid.UUID) (*domain.Bid, error) {
	bid, err := tx.GetBid(ctx, bidID)
	if err != nil {
		return nil, err
	}
	if bid == nil || bid.JobID != jobID {
		return nil, apperr.ErrBidNotFound
	}
	if bid.Status != domain.BidPending {
		return nil, apperr.ErrBidNotPending
	}
	return bid, nil
}

func (c *Coordinator) note(kind domain.NotificationKind, to string, jobID uuid.UUID, bidID *uuid.UUID, msg string) domain.Notification {
	return domain.Notification{
		Kind:        kind,
		RecipientID: to,
		JobID:       jobID,
		BidID:       bidID,
		Message:     msg,
		CreatedAt:   c.now(),
	}
}

// notify sends notes one by one and returns how many failed.
// notify sends notes concurrently on a context detached from the request,
// bounded by the operation timeout. The state change is already committed,
// so a cancelled request does not cut delivery short.
func (c *Coordinator) notify(ctx context.Context, notes []domain.Notification) int {
	if c.notifier == nil || len(notes) == 0 {
		return 0
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.operationTimeout)
	defer cancel()

	var (
		wg     sync.WaitGroup
		failed atomic.Int64
	)
	for _, n := range notes {
		wg.Add(1)
		go func(n domain.Notification) {
			defer wg.Done()
			if err := c.notifier.Notify(ctx, n); err != nil {
				failed.Add(1)
				if c.metrics.NotificationsFailed != nil {
					c.metrics.NotificationsFailed.Inc()
				}
				c.logger.Warn("notification failed",
					logx.String("event", "notification_failed"),
					logx.String("kind", string(n.Kind)),
					logx.String("recipient_id", n.RecipientID),
					logx.String("job_id", n.JobID.String()),
					logx.Err(err),
				)
			}
		}(n)
	}
	wg.Wait()
	return int(failed.Load())
}

func (c *Coordinator) countTransition(to domain.JobStatus) {
	if c.metrics.Transitions != nil {
		c.metrics.Transitions.WithLabelValues(string(to)).Inc()
	}
}
