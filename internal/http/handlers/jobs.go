package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"service-bidding/internal/domain"
	"service-bidding/internal/logx"
)

// JobHandler serves HTTP endpoints for job resources.
type JobHandler struct {
	jobs   jobsUsecase
	assign assignmentUsecase
	logger logx.Logger
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(logger logx.Logger, jobs jobsUsecase, assign assignmentUsecase) *JobHandler {
	return &JobHandler{jobs: jobs, assign: assign, logger: logger}
}

// List handles GET /jobs?status=open&kind=&vehicle=.
// Only open jobs are listed; any other status filter is rejected.
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if s := q.Get("status"); s != "" && !strings.EqualFold(s, string(domain.JobOpen)) {
		writeError(h.logger, w, r, http.StatusBadRequest, "only status=open is supported")
		return
	}
	f := domain.JobFilter{
		Kind:    domain.JobKind(strings.ToUpper(q.Get("kind"))),
		Vehicle: domain.VehicleType(q.Get("vehicle")),
	}

	list, err := h.jobs.ListOpenJobs(r.Context(), f)
	if err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, jobsToResponse(list))
}

// Create handles POST /jobs.
// @Summary Create a job open for bidding
// @Tags jobs
// @Accept json
// @Produce json
// @Success 201 {object} jobDTO
// @Failure 400 {object} ErrorResponse "invalid job spec"
// @Failure 403 {object} ErrorResponse "requester role not allowed"
// @Router /jobs [post]
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(h.logger, w, r)
	if !ok {
		return
	}
	var body createJobRequest
	if ok := decodeJSON(h.logger, w, r, &body); !ok {
		return
	}

	job, err := h.jobs.CreateJob(r.Context(), req, body.toModel())
	if err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}
	w.Header().Set("Location", "/jobs/"+job.ID.String())
	writeJSON(h.logger, w, r, http.StatusCreated, jobToResponse(job))
}

// Get handles GET /jobs/{jobId}.
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.jobID(w, r)
	if !ok {
		return
	}
	job, err := h.jobs.GetJob(r.Context(), id)
	if err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, jobToResponse(job))
}

// Tracking handles GET /jobs/{jobId}/tracking.
func (h *JobHandler) Tracking(w http.ResponseWriter, r *http.Request) {
	id, ok := h.jobID(w, r)
	if !ok {
		return
	}
	events, err := h.jobs.History(r.Context(), id)
	if err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, eventsToResponse(events))
}

// Cancel handles POST /jobs/{jobId}/cancel.
// @Summary Cancel a job
// @Tags jobs
// @Produce json
// @Success 200 {object} cancelJobResponse
// @Failure 403 {object} ErrorResponse "requester does not own the resource"
// @Failure 409 {object} ErrorResponse "job status transition not allowed"
// @Router /jobs/{jobId}/cancel [post]
func (h *JobHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(h.logger, w, r)
	if !ok {
		return
	}
	id, ok := h.jobID(w, r)
	if !ok {
		return
	}
	res, err := h.assign.CancelJob(r.Context(), req, id)
	if err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, cancelResultToResponse(res))
}

// Start handles POST /jobs/{jobId}/start.
func (h *JobHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.progress(w, r, h.assign.StartDelivery)
}

// Deliver handles POST /jobs/{jobId}/deliver.
func (h *JobHandler) Deliver(w http.ResponseWriter, r *http.Request) {
	h.progress(w, r, h.assign.CompleteDelivery)
}

func (h *JobHandler) progress(w http.ResponseWriter, r *http.Request, step func(context.Context, domain.Requester, uuid.UUID) (domain.Job, error)) {
	req, ok := requester(h.logger, w, r)
	if !ok {
		return
	}
	id, ok := h.jobID(w, r)
	if !ok {
		return
	}
	job, err := step(r.Context(), req, id)
	if err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, jobToResponse(job))
}

func (h *JobHandler) jobID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuidFromURL(r, "jobId")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid job id")
		return uuid.Nil, false
	}
	return id, true
}
