package orders_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"service-bidding/internal/apperr"
	"service-bidding/internal/domain"
	"service-bidding/internal/service/orders"
	testlog "service-bidding/internal/testutil"
)

func newProcessor(t *testing.T) (*orders.Processor, *MockJobPort, *MockCancelPort, *testlog.Recorder) {
	t.Helper()
	ctrl := gomock.NewController(t)
	jobs := NewMockJobPort(ctrl)
	cancels := NewMockCancelPort(ctrl)
	rec := testlog.New()
	return orders.NewProcessor(jobs, cancels, rec.Logger()), jobs, cancels, rec
}

func createdEvent() orders.Event {
	return orders.Event{
		OrderID:     "order-1",
		Status:      "  CREATED ",
		CustomerID:  "customer-9",
		Description: "2x ramen",
		Pickup:      domain.Location{Address: "Noodle Bar"},
		Dropoff:     domain.Location{Address: "Lenina 5"},
	}
}

func TestProcessor_Created_CreatesOrderJob(t *testing.T) {
	t.Parallel()
	p, jobs, _, _ := newProcessor(t)

	jobs.EXPECT().
		CreateJob(gomock.Any(), domain.Requester{ID: "customer-9", Role: domain.RoleCustomer}, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ domain.Requester, spec domain.JobSpec) (domain.Job, error) {
			require.Equal(t, domain.KindOrder, spec.Kind)
			require.Equal(t, "order-1", spec.ExternalRef)
			require.Equal(t, "2x ramen", spec.Description)
			return domain.Job{ID: uuid.New()}, nil
		})

	require.NoError(t, p.Handle(context.Background(), createdEvent()))
}

func TestProcessor_Created_DuplicateIsIgnored(t *testing.T) {
	t.Parallel()
	p, jobs, _, _ := newProcessor(t)

	jobs.EXPECT().CreateJob(gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.Job{}, apperr.ErrConflict)
	jobs.EXPECT().GetJobByExternalRef(gomock.Any(), "order-1").
		Return(domain.Job{ID: uuid.New(), OwnerID: "customer-9"}, nil)

	require.NoError(t, p.Handle(context.Background(), createdEvent()))
}

func TestProcessor_Created_ReferenceHeldByAnotherOwner(t *testing.T) {
	t.Parallel()
	p, jobs, _, rec := newProcessor(t)

	jobs.EXPECT().CreateJob(gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.Job{}, apperr.ErrConflict)
	jobs.EXPECT().GetJobByExternalRef(gomock.Any(), "order-1").
		Return(domain.Job{ID: uuid.New(), OwnerID: "mallory"}, nil)

	err := p.Handle(context.Background(), createdEvent())
	require.ErrorIs(t, err, apperr.ErrForeignExternalRef)
	require.ErrorIs(t, err, apperr.ErrForbidden)
	require.True(t, rec.Has("warn", "order reference held by another owner"))
}

func TestProcessor_Created_ConflictLookupErrorReturned(t *testing.T) {
	t.Parallel()
	p, jobs, _, _ := newProcessor(t)

	boom := errors.New("db down")
	jobs.EXPECT().CreateJob(gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.Job{}, apperr.ErrConflict)
	jobs.EXPECT().GetJobByExternalRef(gomock.Any(), "order-1").Return(domain.Job{}, boom)

	require.ErrorIs(t, p.Handle(context.Background(), createdEvent()), boom)
}

func TestProcessor_Canceled_OtherOwnersJobUntouched(t *testing.T) {
	t.Parallel()
	p, jobs, _, _ := newProcessor(t)

	jobs.EXPECT().GetJobByExternalRef(gomock.Any(), "order-1").
		Return(domain.Job{ID: uuid.New(), OwnerID: "mallory"}, nil)

	err := p.Handle(context.Background(), orders.Event{OrderID: "order-1", Status: "canceled", CustomerID: "customer-9"})
	require.ErrorIs(t, err, apperr.ErrForeignExternalRef)
}

func TestProcessor_Created_InvalidIsDroppedAndLogged(t *testing.T) {
	t.Parallel()
	p, jobs, _, rec := newProcessor(t)

	jobs.EXPECT().CreateJob(gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.Job{}, apperr.ErrInvalidSpec)

	require.NoError(t, p.Handle(context.Background(), createdEvent()))
	require.True(t, rec.Has("warn", "order event dropped"))
}

func TestProcessor_Created_OtherErrorReturned(t *testing.T) {
	t.Parallel()
	p, jobs, _, _ := newProcessor(t)

	boom := errors.New("db down")
	jobs.EXPECT().CreateJob(gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.Job{}, boom)

	require.ErrorIs(t, p.Handle(context.Background(), createdEvent()), boom)
}

func TestProcessor_Canceled_CancelsOnOwnersBehalf(t *testing.T) {
	t.Parallel()

	for _, status := range []string{"canceled", "DELETED"} {
		t.Run(status, func(t *testing.T) {
			p, jobs, cancels, _ := newProcessor(t)
			job := domain.Job{ID: uuid.New(), OwnerID: "customer-9"}

			jobs.EXPECT().GetJobByExternalRef(gomock.Any(), "order-1").Return(job, nil)
			cancels.EXPECT().
				CancelJob(gomock.Any(), domain.Requester{ID: "customer-9", Role: domain.RoleCustomer}, job.ID).
				Return(domain.CancelResult{}, nil)

			require.NoError(t, p.Handle(context.Background(), orders.Event{OrderID: "order-1", Status: status}))
		})
	}
}

func TestProcessor_Canceled_IgnoresUnknownAndTerminal(t *testing.T) {
	t.Parallel()
	p, jobs, cancels, _ := newProcessor(t)
	job := domain.Job{ID: uuid.New(), OwnerID: "customer-9"}

	jobs.EXPECT().GetJobByExternalRef(gomock.Any(), "missing").Return(domain.Job{}, apperr.ErrJobNotFound)
	require.NoError(t, p.Handle(context.Background(), orders.Event{OrderID: "missing", Status: "canceled"}))

	jobs.EXPECT().GetJobByExternalRef(gomock.Any(), "order-1").Return(job, nil)
	cancels.EXPECT().CancelJob(gomock.Any(), gomock.Any(), job.ID).Return(domain.CancelResult{}, apperr.ErrInvalidTransition)
	require.NoError(t, p.Handle(context.Background(), orders.Event{OrderID: "order-1", Status: "canceled"}))
}

func TestProcessor_Canceled_LookupErrorReturned(t *testing.T) {
	t.Parallel()
	p, jobs, _, _ := newProcessor(t)

	boom := errors.New("timeout")
	jobs.EXPECT().GetJobByExternalRef(gomock.Any(), "order-1").Return(domain.Job{}, boom)

	require.ErrorIs(t, p.Handle(context.Background(), orders.Event{OrderID: "order-1", Status: "canceled"}), boom)
}

func TestProcessor_UnknownStatusIgnored(t *testing.T) {
	t.Parallel()
	p, _, _, _ := newProcessor(t)

	require.NoError(t, p.Handle(context.Background(), orders.Event{OrderID: "order-1", Status: "cooking"}))
}
