package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"service-bidding/internal/apperr"
	"service-bidding/internal/domain"
	"service-bidding/internal/ports/bidtx"
)

type tx struct {
	s *Store

	held    map[uuid.UUID]*jobMutex
	jobs    map[uuid.UUID]domain.Job
	newJobs map[uuid.UUID]bool
	bids    map[uuid.UUID]domain.Bid
	newBids []uuid.UUID
	events  []domain.TrackingEvent
}

var _ bidtx.Repository = (*tx)(nil)

func newTx(s *Store) *tx {
	return &tx{
		s:       s,
		held:    make(map[uuid.UUID]*jobMutex),
		jobs:    make(map[uuid.UUID]domain.Job),
		newJobs: make(map[uuid.UUID]bool),
		bids:    make(map[uuid.UUID]domain.Bid),
	}
}

func (t *tx) lock(id uuid.UUID) {
	if _, ok := t.held[id]; ok {
		return
	}
	t.held[id] = t.s.lockJob(id)
}

func (t *tx) release() {
	for id, l := range t.held {
		t.s.unlockJob(id, l)
		delete(t.held, id)
	}
}

func (t *tx) job(id uuid.UUID) (domain.Job, bool) {
	if j, ok := t.jobs[id]; ok {
		return j, true
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	j, ok := t.s.jobs[id]
	return j, ok
}

func (t *tx) bid(id uuid.UUID) (domain.Bid, bool) {
	if b, ok := t.bids[id]; ok {
		return b, true
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	b, ok := t.s.bids[id]
	return b, ok
}

func (t *tx) InsertJob(ctx context.Context, j *domain.Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if j.ExternalRef != "" {
		t.s.mu.RLock()
		_, taken := t.s.refs[j.ExternalRef]
		t.s.mu.RUnlock()
		if taken {
			return errDuplicateRef
		}
	}
	t.lock(j.ID)
	t.jobs[j.ID] = *j
	t.newJobs[j.ID] = true
	return nil
}

func (t *tx) LockJob(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.lock(id)
	j, ok := t.job(id)
	if !ok {
		return nil, nil
	}
	return &j, nil
}

func (t *tx) UpdateJobStatus(ctx context.Context, id uuid.UUID, from, to domain.JobStatus, courierID *string, at time.Time) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	t.lock(id)
	j, ok := t.job(id)
	if !ok || j.Status != from {
		return false, nil
	}
	j.Status = to
	j.UpdatedAt = at
	if courierID != nil {
		c := *courierID
		j.AssignedCourierID = &c
	}
	t.jobs[id] = j
	return true, nil
}

func (t *tx) InsertBid(ctx context.Context, b *domain.Bid) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.lock(b.JobID)
	if _, ok := t.job(b.JobID); !ok {
		return apperr.ErrJobNotFound
	}
	for _, id := range t.newBids {
		nb := t.bids[id]
		if nb.JobID == b.JobID && nb.CourierID == b.CourierID && nb.Status == domain.BidPending {
			return apperr.ErrDuplicateBid
		}
	}
	t.s.mu.RLock()
	dup := t.s.pendingBidExists(b.JobID, b.CourierID, t.bids)
	t.s.mu.RUnlock()
	if dup {
		return apperr.ErrDuplicateBid
	}
	t.bids[b.ID] = *b
	t.newBids = append(t.newBids, b.ID)
	return nil
}

func (t *tx) GetBid(ctx context.Context, id uuid.UUID) (*domain.Bid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, ok := t.bid(id)
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (t *tx) UpdateBidStatus(ctx context.Context, id uuid.UUID, from, to domain.BidStatus, at time.Time) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	b, ok := t.bid(id)
	if !ok {
		return false, nil
	}
	t.lock(b.JobID)
	// re-read under the job lock
	b, _ = t.bid(id)
	if b.Status != from {
		return false, nil
	}
	b.Status = to
	b.UpdatedAt = at
	t.bids[id] = b
	return true, nil
}

func (t *tx) RejectPendingBids(ctx context.Context, jobID uuid.UUID, keep *uuid.UUID, at time.Time) ([]domain.Bid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.lock(jobID)

	t.s.mu.RLock()
	ids := append([]uuid.UUID(nil), t.s.byJob[jobID]...)
	t.s.mu.RUnlock()
	for _, id := range t.newBids {
		if t.bids[id].JobID == jobID {
			ids = append(ids, id)
		}
	}

	rejected := make([]domain.Bid, 0)
	for _, id := range ids {
		if keep != nil && id == *keep {
			continue
		}
		b, _ := t.bid(id)
		if b.Status != domain.BidPending {
			continue
		}
		b.Status = domain.BidRejected
		b.UpdatedAt = at
		t.bids[id] = b
		rejected = append(rejected, b)
	}
	sortBids(rejected)
	return rejected, nil
}

func (t *tx) LastEventAt(ctx context.Context, jobID uuid.UUID) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	var last time.Time
	t.s.mu.RLock()
	if evs := t.s.events[jobID]; len(evs) > 0 {
		last = evs[len(evs)-1].Timestamp
	}
	t.s.mu.RUnlock()
	for _, e := range t.events {
		if e.JobID == jobID && e.Timestamp.After(last) {
			last = e.Timestamp
		}
	}
	return last, nil
}

func (t *tx) AppendEvent(ctx context.Context, e *domain.TrackingEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, ok := t.job(e.JobID); !ok {
		return apperr.ErrJobNotFound
	}
	e.ID = t.s.eventSeq.Add(1)
	t.events = append(t.events, *e)
	return nil
}

func (t *tx) commit() error {
	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range t.newJobs {
		if ref := t.jobs[id].ExternalRef; ref != "" {
			if _, taken := s.refs[ref]; taken {
				return errDuplicateRef
			}
		}
	}

	for id, j := range t.jobs {
		s.jobs[id] = j
		if t.newJobs[id] && j.ExternalRef != "" {
			s.refs[j.ExternalRef] = id
		}
	}
	for id, b := range t.bids {
		s.bids[id] = b
	}
	for _, id := range t.newBids {
		jobID := t.bids[id].JobID
		s.byJob[jobID] = append(s.byJob[jobID], id)
	}
	for _, e := range t.events {
		s.events[e.JobID] = append(s.events[e.JobID], e)
	}
	return nil
}
