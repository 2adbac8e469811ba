package tracking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"service-bidding/internal/domain"
	"service-bidding/internal/ports/bidtx"
)

// Appender is the slice of a transaction the log writes through.
type Appender interface {
	LastEventAt(ctx context.Context, jobID uuid.UUID) (time.Time, error)
	AppendEvent(ctx context.Context, e *domain.TrackingEvent) error
}

var _ Appender = (bidtx.Repository)(nil)

// Log appends tracking events. Timestamps are strictly increasing per job
// at microsecond resolution, the precision of the backing store.
type Log struct {
	now func() time.Time
}

// NewLog returns a Log reading the wall clock from now.
func NewLog(now func() time.Time) *Log {
	if now == nil {
		now = time.Now
	}
	return &Log{now: now}
}

// Append records status for the job inside the caller's transaction.
func (l *Log) Append(ctx context.Context, tx Appender, jobID uuid.UUID, status domain.JobStatus, description string) (domain.TrackingEvent, error) {
	ts := l.now().UTC().Truncate(time.Microsecond)
	last, err := tx.LastEventAt(ctx, jobID)
	if err != nil {
		return domain.TrackingEvent{}, fmt.Errorf("last tracking event: %w", err)
	}
	if !last.IsZero() && !ts.After(last) {
		ts = last.UTC().Add(time.Microsecond)
	}
	ev := &domain.TrackingEvent{
		JobID:       jobID,
		Status:      status,
		Description: description,
		Timestamp:   ts,
	}
	if err := tx.AppendEvent(ctx, ev); err != nil {
		return domain.TrackingEvent{}, fmt.Errorf("append tracking event: %w", err)
	}
	return *ev, nil
}
