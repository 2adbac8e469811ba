package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"service-bidding/internal/apperr"
	"service-bidding/internal/domain"
	"service-bidding/internal/http/middleware/auth"
	"service-bidding/internal/logx"
)

func reqID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return "-"
}

func writeJSON(logger logx.Logger, w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil && logger != nil {
		logger.Error("json encode error",
			logx.String("req_id", reqID(r.Context())),
			logx.Err(err),
		)
	}
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(logger logx.Logger, w http.ResponseWriter, r *http.Request, status int, msg string) {
	if logger != nil {
		logger.Info("http error",
			logx.String("req_id", reqID(r.Context())),
			logx.Int("status", status),
			logx.String("msg", msg),
		)
	}
	writeJSON(logger, w, r, status, ErrorResponse{Error: msg})
}

// writeFailure maps a service error onto its HTTP status by category.
func writeFailure(logger logx.Logger, w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		if logger != nil {
			logger.Error("request failed",
				logx.String("req_id", reqID(r.Context())),
				logx.String("path", r.URL.Path),
				logx.Err(err),
			)
		}
		writeError(logger, w, r, status, "internal error")
		return
	}
	writeError(logger, w, r, status, publicMessage(err))
}

func statusFor(err error) int {
	switch apperr.Kind(err) {
	case apperr.ErrInvalid:
		return http.StatusBadRequest
	case apperr.ErrUnauthorized:
		return http.StatusUnauthorized
	case apperr.ErrForbidden:
		return http.StatusForbidden
	case apperr.ErrNotFound:
		return http.StatusNotFound
	case apperr.ErrConflict:
		return http.StatusConflict
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func publicMessage(err error) string {
	var named *apperr.Error
	if errors.As(err, &named) {
		return named.Error()
	}
	if k := apperr.Kind(err); k != nil {
		return k.Error()
	}
	return http.StatusText(statusFor(err))
}

const (
	bodyLimit = 1 << 20
)

func decodeJSON[T any](logger logx.Logger, w http.ResponseWriter, r *http.Request, dst *T) bool {
	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(logger, w, r, http.StatusBadRequest, "invalid json")
		return false
	}
	if err := dec.Decode(new(struct{})); err != io.EOF {
		writeError(logger, w, r, http.StatusBadRequest, "invalid json: trailing data")
		return false
	}
	return true
}

var errInvalidID = errors.New("invalid id")

func uuidFromURL(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, errInvalidID
	}
	return id, nil
}

// requester returns the authenticated caller or writes 401.
func requester(logger logx.Logger, w http.ResponseWriter, r *http.Request) (domain.Requester, bool) {
	req, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(logger, w, r, http.StatusUnauthorized, "unauthorized")
		return domain.Requester{}, false
	}
	return req, true
}
