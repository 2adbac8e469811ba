// Package memory is an in-process implementation of the bidding store.
//
// Each transaction stages its writes and applies them on commit. LockJob
// holds a per-job mutex until the transaction ends, which gives the same
// serialisation as SELECT ... FOR UPDATE in the Postgres store: work on one
// job is serialised while different jobs never contend.
package memory

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"service-bidding/internal/apperr"
	"service-bidding/internal/domain"
	"service-bidding/internal/ports/bidtx"
)

// Store keeps jobs, bids and tracking events in memory.
type Store struct {
	mu     sync.RWMutex
	jobs   map[uuid.UUID]domain.Job
	refs   map[string]uuid.UUID
	bids   map[uuid.UUID]domain.Bid
	byJob  map[uuid.UUID][]uuid.UUID
	events map[uuid.UUID][]domain.TrackingEvent

	locksMu sync.Mutex
	locks   map[uuid.UUID]*jobMutex

	eventSeq atomic.Int64
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		jobs:   make(map[uuid.UUID]domain.Job),
		refs:   make(map[string]uuid.UUID),
		bids:   make(map[uuid.UUID]domain.Bid),
		byJob:  make(map[uuid.UUID][]uuid.UUID),
		events: make(map[uuid.UUID][]domain.TrackingEvent),
		locks:  make(map[uuid.UUID]*jobMutex),
	}
}

var _ bidtx.Store = (*Store)(nil)

// jobMutex is dropped from Store.locks once no transaction holds or waits on it.
type jobMutex struct {
	sync.Mutex
	refs int
}

func (s *Store) lockJob(id uuid.UUID) *jobMutex {
	s.locksMu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &jobMutex{}
		s.locks[id] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.Lock()
	return l
}

func (s *Store) unlockJob(id uuid.UUID, l *jobMutex) {
	l.Unlock()

	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(s.locks, id)
	}
}

// WithTx runs fn in a transaction. Writes become visible only if fn returns nil.
func (s *Store) WithTx(ctx context.Context, fn func(tx bidtx.Repository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t := newTx(s)
	defer t.release()

	if err := fn(t); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.commit()
}

// GetJob returns the job or nil when it does not exist.
func (s *Store) GetJob(_ context.Context, id uuid.UUID) (*domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	if !ok {
		return nil, nil
	}
	return &j, nil
}

// GetJobByExternalRef returns the job created for an upstream reference, or nil.
func (s *Store) GetJobByExternalRef(_ context.Context, ref string) (*domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.refs[ref]
	if !ok {
		return nil, nil
	}
	j := s.jobs[id]
	return &j, nil
}

// ListOpenJobs returns open jobs matching f, oldest first.
func (s *Store) ListOpenJobs(ctx context.Context, f domain.JobFilter) ([]domain.Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]domain.Job, 0)
	for _, j := range s.jobs {
		if j.Status == domain.JobOpen && f.Matches(j) {
			out = append(out, j)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(a, b int) bool {
		if !out[a].CreatedAt.Equal(out[b].CreatedAt) {
			return out[a].CreatedAt.Before(out[b].CreatedAt)
		}
		return out[a].ID.String() < out[b].ID.String()
	})
	return out, nil
}

// ListBids returns every bid on the job, lowest amount first.
func (s *Store) ListBids(ctx context.Context, jobID uuid.UUID) ([]domain.Bid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	ids := s.byJob[jobID]
	out := make([]domain.Bid, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.bids[id])
	}
	s.mu.RUnlock()

	sortBids(out)
	return out, nil
}

// History returns the job's tracking events, oldest first.
func (s *Store) History(ctx context.Context, jobID uuid.UUID) ([]domain.TrackingEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := append([]domain.TrackingEvent(nil), s.events[jobID]...)
	s.mu.RUnlock()

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Timestamp.Before(out[b].Timestamp)
	})
	if out == nil {
		out = []domain.TrackingEvent{}
	}
	return out, nil
}

func sortBids(bids []domain.Bid) {
	sort.Slice(bids, func(a, b int) bool {
		if bids[a].Amount != bids[b].Amount {
			return bids[a].Amount < bids[b].Amount
		}
		if !bids[a].CreatedAt.Equal(bids[b].CreatedAt) {
			return bids[a].CreatedAt.Before(bids[b].CreatedAt)
		}
		return bids[a].ID.String() < bids[b].ID.String()
	})
}

// pendingBidExists reports a committed pending bid by courier on job. Caller holds s.mu.
func (s *Store) pendingBidExists(jobID uuid.UUID, courierID string, skip map[uuid.UUID]domain.Bid) bool {
	for _, id := range s.byJob[jobID] {
		b := s.bids[id]
		if staged, ok := skip[id]; ok {
			b = staged
		}
		if b.CourierID == courierID && b.Status == domain.BidPending {
			return true
		}
	}
	return false
}

var errDuplicateRef = apperr.ErrConflict
