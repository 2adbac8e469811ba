package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"service-bidding/internal/logx"
)

// Bid update actions.
const (
	actionAccept = "ACCEPT"
	actionReject = "REJECT"
)

// BidHandler serves HTTP endpoints for the bids of a job.
type BidHandler struct {
	bids   bidsUsecase
	assign assignmentUsecase
	logger logx.Logger
}

// NewBidHandler creates a new BidHandler.
func NewBidHandler(logger logx.Logger, bids bidsUsecase, assign assignmentUsecase) *BidHandler {
	return &BidHandler{bids: bids, assign: assign, logger: logger}
}

// List handles GET /jobs/{jobId}/bids. Bids come back by ascending amount.
func (h *BidHandler) List(w http.ResponseWriter, r *http.Request) {
	jobID, ok := h.param(w, r, "jobId")
	if !ok {
		return
	}
	list, err := h.bids.ListBids(r.Context(), jobID)
	if err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, bidsToResponse(list))
}

// Submit handles POST /jobs/{jobId}/bids.
// @Summary Submit a bid on an open job
// @Tags bids
// @Accept json
// @Produce json
// @Success 201 {object} bidDTO
// @Failure 400 {object} ErrorResponse "invalid bid amount"
// @Failure 403 {object} ErrorResponse "requester role not allowed"
// @Failure 409 {object} ErrorResponse "job is not open for bidding"
// @Router /jobs/{jobId}/bids [post]
func (h *BidHandler) Submit(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(h.logger, w, r)
	if !ok {
		return
	}
	jobID, ok := h.param(w, r, "jobId")
	if !ok {
		return
	}
	var body submitBidRequest
	if ok := decodeJSON(h.logger, w, r, &body); !ok {
		return
	}

	bid, err := h.bids.SubmitBid(r.Context(), req, jobID, body.Amount, body.EtaMinutes)
	if err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}
	w.Header().Set("Location", "/jobs/"+jobID.String()+"/bids/"+bid.ID.String())
	writeJSON(h.logger, w, r, http.StatusCreated, bidToResponse(bid))
}

// Update handles PUT /jobs/{jobId}/bids/{bidId} with {"action":"ACCEPT"|"REJECT"}.
func (h *BidHandler) Update(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(h.logger, w, r)
	if !ok {
		return
	}
	jobID, ok := h.param(w, r, "jobId")
	if !ok {
		return
	}
	bidID, ok := h.param(w, r, "bidId")
	if !ok {
		return
	}
	var body updateBidRequest
	if ok := decodeJSON(h.logger, w, r, &body); !ok {
		return
	}

	switch strings.ToUpper(strings.TrimSpace(body.Action)) {
	case actionAccept:
		res, err := h.assign.AcceptBid(r.Context(), req, jobID, bidID)
		if err != nil {
			writeFailure(h.logger, w, r, err)
			return
		}
		writeJSON(h.logger, w, r, http.StatusOK, acceptResultToResponse(res))
	case actionReject:
		bid, err := h.assign.RejectBid(r.Context(), req, jobID, bidID)
		if err != nil {
			writeFailure(h.logger, w, r, err)
			return
		}
		writeJSON(h.logger, w, r, http.StatusOK, bidToResponse(bid))
	default:
		writeError(h.logger, w, r, http.StatusBadRequest, "action must be ACCEPT or REJECT")
	}
}

// Withdraw handles DELETE /jobs/{jobId}/bids/{bidId}.
func (h *BidHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	req, ok := requester(h.logger, w, r)
	if !ok {
		return
	}
	jobID, ok := h.param(w, r, "jobId")
	if !ok {
		return
	}
	bidID, ok := h.param(w, r, "bidId")
	if !ok {
		return
	}

	bid, err := h.bids.WithdrawBid(r.Context(), req, jobID, bidID)
	if err != nil {
		writeFailure(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, bidToResponse(bid))
}

func (h *BidHandler) param(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuidFromURL(r, name)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid "+strings.TrimSuffix(name, "Id")+" id")
		return uuid.Nil, false
	}
	return id, true
}
