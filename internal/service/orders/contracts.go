//go:generate mockgen -source=contracts.go -destination=orders_mocks_test.go -package=orders_test

package orders

import (
	"context"

	"github.com/google/uuid"

	"service-bidding/internal/domain"
)

// JobPort is the part of the job registry the processor needs.
type JobPort interface {
	CreateJob(ctx context.Context, req domain.Requester, spec domain.JobSpec) (domain.Job, error)
	GetJobByExternalRef(ctx context.Context, ref string) (domain.Job, error)
}

// CancelPort cancels jobs on the owner's behalf.
type CancelPort interface {
	CancelJob(ctx context.Context, req domain.Requester, jobID uuid.UUID) (domain.CancelResult, error)
}
