package bidtx

import (
	"context"
	"time"

	"github.com/google/uuid"

	"service-bidding/internal/domain"
)

// Repository is the set of operations available inside one storage transaction.
//
// LockJob takes an exclusive row lock on the job for the rest of the
// transaction; every mutation of a job or of its bids happens under it.
type Repository interface {
	InsertJob(ctx context.Context, j *domain.Job) error
	LockJob(ctx context.Context, id uuid.UUID) (*domain.Job, error)
	// UpdateJobStatus moves the job from `from` to `to` only if it is still in `from`.
	UpdateJobStatus(ctx context.Context, id uuid.UUID, from, to domain.JobStatus, courierID *string, at time.Time) (bool, error)

	InsertBid(ctx context.Context, b *domain.Bid) error
	GetBid(ctx context.Context, id uuid.UUID) (*domain.Bid, error)
	// UpdateBidStatus moves the bid from `from` to `to` only if it is still in `from`.
	UpdateBidStatus(ctx context.Context, id uuid.UUID, from, to domain.BidStatus, at time.Time) (bool, error)
	// RejectPendingBids rejects every pending bid on the job except `keep` and returns them.
	RejectPendingBids(ctx context.Context, jobID uuid.UUID, keep *uuid.UUID, at time.Time) ([]domain.Bid, error)

	LastEventAt(ctx context.Context, jobID uuid.UUID) (time.Time, error)
	AppendEvent(ctx context.Context, e *domain.TrackingEvent) error
}

// Store is the storage entry point shared by the services.
type Store interface {
	WithTx(ctx context.Context, fn func(tx Repository) error) error

	GetJob(ctx context.Context, id uuid.UUID) (*domain.Job, error)
	GetJobByExternalRef(ctx context.Context, ref string) (*domain.Job, error)
	ListOpenJobs(ctx context.Context, f domain.JobFilter) ([]domain.Job, error)
	ListBids(ctx context.Context, jobID uuid.UUID) ([]domain.Bid, error)
	History(ctx context.Context, jobID uuid.UUID) ([]domain.TrackingEvent, error)
}
