package handlers

import (
	"context"

	"github.com/google/uuid"

	"service-bidding/internal/domain"
)

type jobsUsecase interface {
	CreateJob(ctx context.Context, req domain.Requester, spec domain.JobSpec) (domain.Job, error)
	GetJob(ctx context.Context, id uuid.UUID) (domain.Job, error)
	ListOpenJobs(ctx context.Context, f domain.JobFilter) ([]domain.Job, error)
	History(ctx context.Context, jobID uuid.UUID) ([]domain.TrackingEvent, error)
}

type bidsUsecase interface {
	SubmitBid(ctx context.Context, req domain.Requester, jobID uuid.UUID, amount float64, etaMinutes int) (domain.Bid, error)
	ListBids(ctx context.Context, jobID uuid.UUID) ([]domain.Bid, error)
	WithdrawBid(ctx context.Context, req domain.Requester, jobID, bidID uuid.UUID) (domain.Bid, error)
}

type assignmentUsecase interface {
	AcceptBid(ctx context.Context, req domain.Requester, jobID, bidID uuid.UUID) (domain.AcceptResult, error)
	RejectBid(ctx context.Context, req domain.Requester, jobID, bidID uuid.UUID) (domain.Bid, error)
	CancelJob(ctx context.Context, req domain.Requester, jobID uuid.UUID) (domain.CancelResult, error)
	StartDelivery(ctx context.Context, req domain.Requester, jobID uuid.UUID) (domain.Job, error)
	CompleteDelivery(ctx context.Context, req domain.Requester, jobID uuid.UUID) (domain.Job, error)
}
