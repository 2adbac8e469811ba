package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"service-bidding/internal/domain"
	"service-bidding/internal/ports/bidtx"
)

const jobColumns = `id, kind, status, owner_id, external_ref, description,
	pickup_address, pickup_lat, pickup_lng,
	dropoff_address, dropoff_lat, dropoff_lng,
	priority, vehicle_type, base_fee_estimate, fee_rate_version,
	assigned_courier_id, created_at, updated_at`

const bidColumns = `id, job_id, courier_id, amount, eta_minutes, status, created_at, updated_at`

// Store is the Postgres-backed bidding store.
type Store struct {
	db *pgxpool.Pool
}

// NewStore creates a new Store.
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

var _ bidtx.Store = (*Store)(nil)

// WithTx opens a transaction and executes fn within it.
func (s *Store) WithTx(ctx context.Context, fn func(tx bidtx.Repository) error) (err error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				panic(fmt.Sprintf("%v (rollback: %v)", p, rbErr))
			}
			panic(p)
		}
	}()

	if err := fn(&TxRepo{tx: tx}); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback tx: %w (original error: %s)", rbErr, err.Error())
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetJob returns the job or nil if it does not exist.
func (s *Store) GetJob(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	j, err := scanJob(s.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}
	return j, nil
}

// GetJobByExternalRef returns the job created for an upstream order, or nil.
func (s *Store) GetJobByExternalRef(ctx context.Context, ref string) (*domain.Job, error) {
	j, err := scanJob(s.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE external_ref = $1`, ref))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get job by ref %q: %w", ref, err)
	}
	return j, nil
}

// ListOpenJobs returns open jobs, oldest first.
func (s *Store) ListOpenJobs(ctx context.Context, f domain.JobFilter) ([]domain.Job, error) {
	rows, err := s.db.Query(ctx, `
        SELECT `+jobColumns+`
        FROM jobs
        WHERE status = 'OPEN'
          AND ($1 = '' OR kind = $1)
        ORDER BY created_at, id
    `, string(f.Kind))
	if err != nil {
		return nil, fmt.Errorf("list open jobs: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		// vehicle rank is compared in Go, the column holds plain names
		if f.Matches(*j) {
			out = append(out, *j)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list open jobs: %w", err)
	}
	return out, nil
}

// ListBids returns all bids on the job, cheapest first.
func (s *Store) ListBids(ctx context.Context, jobID uuid.UUID) ([]domain.Bid, error) {
	rows, err := s.db.Query(ctx, `
        SELECT `+bidColumns+`
        FROM bids
        WHERE job_id = $1
        ORDER BY amount, created_at, id
    `, jobID)
	if err != nil {
		return nil, fmt.Errorf("list bids %s: %w", jobID, err)
	}
	return collectBids(rows)
}

// History returns the job's tracking events in timestamp order.
func (s *Store) History(ctx context.Context, jobID uuid.UUID) ([]domain.TrackingEvent, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, job_id, status, description, ts
        FROM tracking_events
        WHERE job_id = $1
        ORDER BY ts, id
    `, jobID)
	if err != nil {
		return nil, fmt.Errorf("history %s: %w", jobID, err)
	}
	defer rows.Close()

	out := make([]domain.TrackingEvent, 0)
	for rows.Next() {
		var e domain.TrackingEvent
		var status string
		if err := rows.Scan(&e.ID, &e.JobID, &status, &e.Description, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Status = domain.JobStatus(status)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history %s: %w", jobID, err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*domain.Job, error) {
	var (
		j                               domain.Job
		kind, status, priority, vehicle string
		ref                             *string
	)
	err := row.Scan(
		&j.ID, &kind, &status, &j.OwnerID, &ref, &j.Description,
		&j.Pickup.Address, &j.Pickup.Lat, &j.Pickup.Lng,
		&j.Dropoff.Address, &j.Dropoff.Lat, &j.Dropoff.Lng,
		&priority, &vehicle, &j.BaseFeeEstimate, &j.FeeRateVersion,
		&j.AssignedCourierID, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	j.Kind = domain.JobKind(kind)
	j.Status = domain.JobStatus(status)
	j.Priority = domain.Priority(priority)
	j.VehicleType = domain.VehicleType(vehicle)
	if ref != nil {
		j.ExternalRef = *ref
	}
	return &j, nil
}

func scanBid(row rowScanner) (*domain.Bid, error) {
	var (
		b      domain.Bid
		status string
	)
	if err := row.Scan(&b.ID, &b.JobID, &b.CourierID, &b.Amount, &b.EtaMinutes, &status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.Status = domain.BidStatus(status)
	return &b, nil
}

func collectBids(rows pgx.Rows) ([]domain.Bid, error) {
	defer rows.Close()

	out := make([]domain.Bid, 0)
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bid: %w", err)
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read bids: %w", err)
	}
	return out, nil
}

func sortBids(bids []domain.Bid) {
	sort.SliceStable(bids, func(i, k int) bool {
		if bids[i].Amount != bids[k].Amount {
			return bids[i].Amount < bids[k].Amount
		}
		if !bids[i].CreatedAt.Equal(bids[k].CreatedAt) {
			return bids[i].CreatedAt.Before(bids[k].CreatedAt)
		}
		return bids[i].ID.String() < bids[k].ID.String()
	})
}
