package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"service-bidding/internal/apperr"
	"service-bidding/internal/domain"
	"service-bidding/internal/ports/bidtx"
)

// TxRepo represents transaction repository.
type TxRepo struct {
	tx pgx.Tx
}

var _ bidtx.Repository = (*TxRepo)(nil)

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// InsertJob - insert a new job.
func (r *TxRepo) InsertJob(ctx context.Context, j *domain.Job) error {
	_, err := r.tx.Exec(ctx, `
        INSERT INTO jobs (`+jobColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
    `,
		j.ID, string(j.Kind), string(j.Status), j.OwnerID, nullable(j.ExternalRef), j.Description,
		j.Pickup.Address, j.Pickup.Lat, j.Pickup.Lng,
		j.Dropoff.Address, j.Dropoff.Lat, j.Dropoff.Lng,
		string(j.Priority), string(j.VehicleType), j.BaseFeeEstimate, j.FeeRateVersion,
		j.AssignedCourierID, j.CreatedAt, j.UpdatedAt,
	)
	if err != nil {
		if IsDuplicate(err) {
			return fmt.Errorf("insert job: %w", apperr.ErrConflict)
		}
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// LockJob - select the job FOR UPDATE.
func (r *TxRepo) LockJob(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	j, err := scanJob(r.tx.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock job %s: %w", id, err)
	}
	return j, nil
}

// UpdateJobStatus - compare-and-set the job status.
func (r *TxRepo) UpdateJobStatus(ctx context.Context, id uuid.UUID, from, to domain.JobStatus, courierID *string, at time.Time) (bool, error) {
	ct, err := r.tx.Exec(ctx, `
        UPDATE jobs
        SET status = $3,
            assigned_courier_id = COALESCE($4, assigned_courier_id),
            updated_at = $5
        WHERE id = $1 AND status = $2
    `, id, string(from), string(to), courierID, at)
	if err != nil {
		return false, fmt.Errorf("update job %s status: %w", id, err)
	}
	return ct.RowsAffected() == 1, nil
}

// InsertBid - insert a new bid.
func (r *TxRepo) InsertBid(ctx context.Context, b *domain.Bid) error {
	_, err := r.tx.Exec(ctx, `
        INSERT INTO bids (`+bidColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `, b.ID, b.JobID, b.CourierID, b.Amount, b.EtaMinutes, string(b.Status), b.CreatedAt, b.UpdatedAt)
	if err != nil {
		switch {
		case isDuplicateOn(err, pendingBidIndex):
			return apperr.ErrDuplicateBid
		case IsForeignKey(err):
			return apperr.ErrJobNotFound
		}
		return fmt.Errorf("insert bid: %w", err)
	}
	return nil
}

// GetBid - get bid by ID.
func (r *TxRepo) GetBid(ctx context.Context, id uuid.UUID) (*domain.Bid, error) {
	b, err := scanBid(r.tx.QueryRow(ctx, `SELECT `+bidColumns+` FROM bids WHERE id = $1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bid %s: %w", id, err)
	}
	return b, nil
}

// UpdateBidStatus - compare-and-set the bid status.
func (r *TxRepo) UpdateBidStatus(ctx context.Context, id uuid.UUID, from, to domain.BidStatus, at time.Time) (bool, error) {
	ct, err := r.tx.Exec(ctx, `
        UPDATE bids
        SET status = $3, updated_at = $4
        WHERE id = $1 AND status = $2
    `, id, string(from), string(to), at)
	if err != nil {
		return false, fmt.Errorf("update bid %s status: %w", id, err)
	}
	return ct.RowsAffected() == 1, nil
}

// RejectPendingBids - reject every pending bid on the job except keep.
func (r *TxRepo) RejectPendingBids(ctx context.Context, jobID uuid.UUID, keep *uuid.UUID, at time.Time) ([]domain.Bid, error) {
	rows, err := r.tx.Query(ctx, `
        UPDATE bids
        SET status = 'REJECTED', updated_at = $3
        WHERE job_id = $1
          AND status = 'PENDING'
          AND ($2::uuid IS NULL OR id <> $2::uuid)
        RETURNING `+bidColumns,
		jobID, keep, at)
	if err != nil {
		return nil, fmt.Errorf("reject pending bids %s: %w", jobID, err)
	}
	out, err := collectBids(rows)
	if err != nil {
		return nil, err
	}
	// RETURNING has no ORDER BY
	sortBids(out)
	return out, nil
}

// LastEventAt - timestamp of the newest tracking event, zero if none.
func (r *TxRepo) LastEventAt(ctx context.Context, jobID uuid.UUID) (time.Time, error) {
	var last *time.Time
	if err := r.tx.QueryRow(ctx, `SELECT MAX(ts) FROM tracking_events WHERE job_id = $1`, jobID).Scan(&last); err != nil {
		return time.Time{}, fmt.Errorf("last event %s: %w", jobID, err)
	}
	if last == nil {
		return time.Time{}, nil
	}
	return *last, nil
}

// AppendEvent - insert a tracking event.
func (r *TxRepo) AppendEvent(ctx context.Context, e *domain.TrackingEvent) error {
	err := r.tx.QueryRow(ctx, `
        INSERT INTO tracking_events (job_id, status, description, ts)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `, e.JobID, string(e.Status), e.Description, e.Timestamp).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("append event %s: %w", e.JobID, err)
	}
	return nil
}
