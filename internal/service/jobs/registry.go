// Package jobs is the job registry: it creates jobs open for bidding and
// serves job and tracking reads.
package jobs

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"service-bidding/internal/apperr"
	"service-bidding/internal/domain"
	"service-bidding/internal/logx"
	"service-bidding/internal/ports/bidtx"
	"service-bidding/internal/tracking"
)

// Registry - service owning job creation and job reads.
type Registry struct {
	store            bidtx.Store
	estimator        FeeEstimator
	tracking         *tracking.Log
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
	newID            func() uuid.UUID
}

// NewRegistry - creates a new Registry.
func NewRegistry(store bidtx.Store, est FeeEstimator, tl *tracking.Log, timeout time.Duration, logger logx.Logger) *Registry {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Registry{
		store:            store,
		estimator:        est,
		tracking:         tl,
		operationTimeout: timeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
		newID:            uuid.New,
	}
}

func (r *Registry) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.operationTimeout)
}

// CreateJob validates spec, prices it and stores it as OPEN together with
// its first tracking event.
func (r *Registry) CreateJob(ctx context.Context, req domain.Requester, spec domain.JobSpec) (domain.Job, error) {
	if req.Role != domain.RoleCustomer && req.Role != domain.RoleAdmin {
		return domain.Job{}, apperr.ErrNotRole
	}
	spec.OwnerID = req.ID
	spec, err := normalizeSpec(spec)
	if err != nil {
		return domain.Job{}, err
	}

	est := r.estimator.Estimate(spec.Pickup, spec.Dropoff, spec.Priority)
	now := r.now()
	job := domain.Job{
		ID:              r.newID(),
		Kind:            spec.Kind,
		Status:          domain.JobOpen,
		OwnerID:         spec.OwnerID,
		ExternalRef:     spec.ExternalRef,
		Description:     spec.Description,
		Pickup:          spec.Pickup,
		Dropoff:         spec.Dropoff,
		Priority:        spec.Priority,
		VehicleType:     spec.VehicleType,
		BaseFeeEstimate: est.Amount,
		FeeRateVersion:  est.RateVersion,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	err = r.store.WithTx(ctx, func(tx bidtx.Repository) error {
		if err := tx.InsertJob(ctx, &job); err != nil {
			return err
		}
		_, err := r.tracking.Append(ctx, tx, job.ID, domain.JobOpen, "job opened for bidding")
		return err
	})
	if err != nil {
		return domain.Job{}, err
	}

	r.logger.Info("job created",
		logx.String("event", "job_created"),
		logx.String("job_id", job.ID.String()),
		logx.String("kind", string(job.Kind)),
		logx.Float64("base_fee", job.BaseFeeEstimate),
		logx.Bool("fee_fallback", est.Fallback),
	)
	return job, nil
}

func normalizeSpec(spec domain.JobSpec) (domain.JobSpec, error) {
	spec.Description = strings.TrimSpace(spec.Description)
	spec.ExternalRef = strings.TrimSpace(spec.ExternalRef)
	spec.OwnerID = strings.TrimSpace(spec.OwnerID)

	if !spec.Kind.Valid() || spec.OwnerID == "" || spec.Description == "" {
		return spec, apperr.ErrInvalidSpec
	}
	if !spec.Pickup.Present() || !spec.Dropoff.Present() {
		return spec, apperr.ErrInvalidSpec
	}
	// coordinates that cannot be used are dropped, the address still locates the point
	spec.Pickup = sanitize(spec.Pickup)
	spec.Dropoff = sanitize(spec.Dropoff)

	if spec.Priority == "" {
		spec.Priority = domain.PriorityNormal
	}
	if !spec.Priority.Valid() {
		return spec, apperr.ErrInvalidSpec
	}
	if spec.Kind == domain.KindOrder && spec.Priority != domain.PriorityNormal {
		return spec, apperr.ErrInvalidSpec
	}

	if spec.VehicleType == "" {
		spec.VehicleType = domain.VehicleScooter
	}
	if !spec.VehicleType.Valid() {
		return spec, apperr.ErrInvalidSpec
	}
	return spec, nil
}

func sanitize(l domain.Location) domain.Location {
	l.Address = strings.TrimSpace(l.Address)
	if !l.HasCoordinates() {
		l.Lat, l.Lng = nil, nil
	}
	return l
}

// GetJob returns the job or apperr.ErrJobNotFound.
func (r *Registry) GetJob(ctx context.Context, id uuid.UUID) (domain.Job, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	j, err := r.store.GetJob(ctx, id)
	if err != nil {
		return domain.Job{}, err
	}
	if j == nil {
		return domain.Job{}, apperr.ErrJobNotFound
	}
	return *j, nil
}

// GetJobByExternalRef returns the job created for an upstream order.
func (r *Registry) GetJobByExternalRef(ctx context.Context, ref string) (domain.Job, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	j, err := r.store.GetJobByExternalRef(ctx, ref)
	if err != nil {
		return domain.Job{}, err
	}
	if j == nil {
		return domain.Job{}, apperr.ErrJobNotFound
	}
	return *j, nil
}

// ListOpenJobs returns jobs still open for bidding, oldest first.
func (r *Registry) ListOpenJobs(ctx context.Context, f domain.JobFilter) ([]domain.Job, error) {
	if f.Kind != "" && !f.Kind.Valid() {
		return nil, apperr.ErrInvalid
	}
	if f.Vehicle != "" && !f.Vehicle.Valid() {
		return nil, apperr.ErrInvalid
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.store.ListOpenJobs(ctx, f)
}

// History returns the job's tracking events, oldest first.
func (r *Registry) History(ctx context.Context, jobID uuid.UUID) ([]domain.TrackingEvent, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	j, err := r.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if j == nil {
		return nil, apperr.ErrJobNotFound
	}
	return r.store.History(ctx, jobID)
}
