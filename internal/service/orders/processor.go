package orders

import (
	"context"
	"errors"

	"service-bidding/internal/apperr"
	"service-bidding/internal/domain"
	"service-bidding/internal/logx"
)

// Processor turns restaurant order events into bidding jobs
type Processor struct {
	jobs    JobPort
	cancels CancelPort
	logger  logx.Logger
	factory *actionFactory
}

// NewProcessor creates a new orders.Processor
func NewProcessor(jobs JobPort, cancels CancelPort, logger logx.Logger) *Processor {
	p := &Processor{
		jobs:    jobs,
		cancels: cancels,
		logger:  logger,
	}
	p.factory = newActionFactory(p.onCreated, p.onCanceled)
	return p
}

// Handle processes a single orders.Event. Statuses without an action are ignored.
func (p *Processor) Handle(ctx context.Context, e Event) error {
	fn, ok := p.factory.get(e.Status)
	if !ok {
		return nil
	}
	return fn(ctx, e)
}

func (p *Processor) onCreated(ctx context.Context, e Event) error {
	req := domain.Requester{ID: e.CustomerID, Role: domain.RoleCustomer}
	job, err := p.jobs.CreateJob(ctx, req, domain.JobSpec{
		Kind:        domain.KindOrder,
		ExternalRef: e.OrderID,
		Description: e.Description,
		Pickup:      e.Pickup,
		Dropoff:     e.Dropoff,
	})
	switch {
	case errors.Is(err, apperr.ErrConflict):
		return p.checkExisting(ctx, e)
	case errors.Is(err, apperr.ErrInvalid):
		p.logger.Warn("order event dropped",
			logx.String("event", "order_invalid"),
			logx.String("order_id", e.OrderID),
			logx.Err(err),
		)
		return nil
	case err != nil:
		return err
	}

	p.logger.Info("order job created",
		logx.String("order_id", e.OrderID),
		logx.String("job_id", job.ID.String()),
	)
	return nil
}

// checkExisting accepts a redelivered created event only when the job that
// holds the order reference belongs to the same customer.
func (p *Processor) checkExisting(ctx context.Context, e Event) error {
	job, err := p.jobs.GetJobByExternalRef(ctx, e.OrderID)
	if err != nil {
		return err
	}
	if job.OwnerID != e.CustomerID {
		p.logger.Warn("order reference held by another owner",
			logx.String("event", "order_ref_conflict"),
			logx.String("order_id", e.OrderID),
			logx.String("job_id", job.ID.String()),
			logx.String("customer_id", e.CustomerID),
			logx.String("owner_id", job.OwnerID),
		)
		return apperr.ErrForeignExternalRef
	}
	return nil
}

func (p *Processor) onCanceled(ctx context.Context, e Event) error {
	job, err := p.jobs.GetJobByExternalRef(ctx, e.OrderID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if e.CustomerID != "" && job.OwnerID != e.CustomerID {
		p.logger.Warn("order cancel for another owner's job",
			logx.String("event", "order_ref_conflict"),
			logx.String("order_id", e.OrderID),
			logx.String("job_id", job.ID.String()),
			logx.String("customer_id", e.CustomerID),
		)
		return apperr.ErrForeignExternalRef
	}

	owner := domain.Requester{ID: job.OwnerID, Role: domain.RoleCustomer}
	_, err = p.cancels.CancelJob(ctx, owner, job.ID)
	if errors.Is(err, apperr.ErrConflict) || errors.Is(err, apperr.ErrNotFound) {
		// already terminal
		return nil
	}
	return err
}
