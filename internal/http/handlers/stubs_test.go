package handlers_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"service-bidding/internal/domain"
	"service-bidding/internal/http/middleware/auth"
	"service-bidding/internal/logx"
)

func testLogger() logx.Logger { return logx.Nop() }

type stubJobs struct {
	createFn  func(ctx context.Context, req domain.Requester, spec domain.JobSpec) (domain.Job, error)
	getFn     func(ctx context.Context, id uuid.UUID) (domain.Job, error)
	listFn    func(ctx context.Context, f domain.JobFilter) ([]domain.Job, error)
	historyFn func(ctx context.Context, jobID uuid.UUID) ([]domain.TrackingEvent, error)
}

func (s *stubJobs) CreateJob(ctx context.Context, req domain.Requester, spec domain.JobSpec) (domain.Job, error) {
	return s.createFn(ctx, req, spec)
}

func (s *stubJobs) GetJob(ctx context.Context, id uuid.UUID) (domain.Job, error) {
	return s.getFn(ctx, id)
}

func (s *stubJobs) ListOpenJobs(ctx context.Context, f domain.JobFilter) ([]domain.Job, error) {
	return s.listFn(ctx, f)
}

func (s *stubJobs) History(ctx context.Context, jobID uuid.UUID) ([]domain.TrackingEvent, error) {
	return s.historyFn(ctx, jobID)
}

type stubBids struct {
	submitFn   func(ctx context.Context, req domain.Requester, jobID uuid.UUID, amount float64, eta int) (domain.Bid, error)
	listFn     func(ctx context.Context, jobID uuid.UUID) ([]domain.Bid, error)
	withdrawFn func(ctx context.Context, req domain.Requester, jobID, bidID uuid.UUID) (domain.Bid, error)
}

func (s *stubBids) SubmitBid(ctx context.Context, req domain.Requester, jobID uuid.UUID, amount float64, eta int) (domain.Bid, error) {
	return s.submitFn(ctx, req, jobID, amount, eta)
}

func (s *stubBids) ListBids(ctx context.Context, jobID uuid.UUID) ([]domain.Bid, error) {
	return s.listFn(ctx, jobID)
}

func (s *stubBids) WithdrawBid(ctx context.Context, req domain.Requester, jobID, bidID uuid.UUID) (domain.Bid, error) {
	return s.withdrawFn(ctx, req, jobID, bidID)
}

type stubAssignment struct {
	acceptFn   func(ctx context.Context, req domain.Requester, jobID, bidID uuid.UUID) (domain.AcceptResult, error)
	rejectFn   func(ctx context.Context, req domain.Requester, jobID, bidID uuid.UUID) (domain.Bid, error)
	cancelFn   func(ctx context.Context, req domain.Requester, jobID uuid.UUID) (domain.CancelResult, error)
	startFn    func(ctx context.Context, req domain.Requester, jobID uuid.UUID) (domain.Job, error)
	completeFn func(ctx context.Context, req domain.Requester, jobID uuid.UUID) (domain.Job, error)
}

func (s *stubAssignment) AcceptBid(ctx context.Context, req domain.Requester, jobID, bidID uuid.UUID) (domain.AcceptResult, error) {
	return s.acceptFn(ctx, req, jobID, bidID)
}

func (s *stubAssignment) RejectBid(ctx context.Context, req domain.Requester, jobID, bidID uuid.UUID) (domain.Bid, error) {
	return s.rejectFn(ctx, req, jobID, bidID)
}

func (s *stubAssignment) CancelJob(ctx context.Context, req domain.Requester, jobID uuid.UUID) (domain.CancelResult, error) {
	return s.cancelFn(ctx, req, jobID)
}

func (s *stubAssignment) StartDelivery(ctx context.Context, req domain.Requester, jobID uuid.UUID) (domain.Job, error) {
	return s.startFn(ctx, req, jobID)
}

func (s *stubAssignment) CompleteDelivery(ctx context.Context, req domain.Requester, jobID uuid.UUID) (domain.Job, error) {
	return s.completeFn(ctx, req, jobID)
}

var (
	customer = domain.Requester{ID: "customer-1", Role: domain.RoleCustomer}
	courier  = domain.Requester{ID: "courier-1", Role: domain.RoleCourier}
)

// newRequest builds a request with chi URL params and an optional requester.
func newRequest(method, target, body string, req *domain.Requester, params map[string]string) *http.Request {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	r := httptest.NewRequest(method, target, rd)

	routeCtx := chi.NewRouteContext()
	for k, v := range params {
		routeCtx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, routeCtx)
	if req != nil {
		ctx = auth.WithRequester(ctx, *req)
	}
	return r.WithContext(ctx)
}
