package tracking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"service-bidding/internal/domain"
)

type fakeAppender struct {
	last   time.Time
	events []domain.TrackingEvent
	err    error
}

func (f *fakeAppender) LastEventAt(context.Context, uuid.UUID) (time.Time, error) {
	return f.last, f.err
}

func (f *fakeAppender) AppendEvent(_ context.Context, e *domain.TrackingEvent) error {
	f.events = append(f.events, *e)
	f.last = e.Timestamp
	return nil
}

func TestAppend_MonotonicWithFrozenClock(t *testing.T) {
	t.Parallel()

	frozen := time.Date(2025, 3, 1, 12, 0, 0, 123456789, time.UTC)
	l := NewLog(func() time.Time { return frozen })
	app := &fakeAppender{}
	jobID := uuid.New()

	for _, st := range []domain.JobStatus{domain.JobOpen, domain.JobAssigned, domain.JobCancelled} {
		_, err := l.Append(context.Background(), app, jobID, st, string(st))
		require.NoError(t, err)
	}

	require.Len(t, app.events, 3)
	require.Equal(t, frozen.Truncate(time.Microsecond), app.events[0].Timestamp)
	for i := 1; i < len(app.events); i++ {
		require.True(t, app.events[i].Timestamp.After(app.events[i-1].Timestamp))
	}
}

func TestAppend_ClockBehindLastEvent(t *testing.T) {
	t.Parallel()

	last := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	l := NewLog(func() time.Time { return last.Add(-time.Hour) })
	app := &fakeAppender{last: last}

	ev, err := l.Append(context.Background(), app, uuid.New(), domain.JobAssigned, "courier c1 assigned")
	require.NoError(t, err)
	require.Equal(t, last.Add(time.Microsecond), ev.Timestamp)
	require.Equal(t, "courier c1 assigned", ev.Description)
}

func TestAppend_LastEventError(t *testing.T) {
	t.Parallel()

	app := &fakeAppender{err: errors.New("boom")}
	_, err := NewLog(nil).Append(context.Background(), app, uuid.New(), domain.JobOpen, "x")
	require.Error(t, err)
	require.Empty(t, app.events)
}
