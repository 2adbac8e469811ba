package apperr

import "errors"

// Category errors. Every domain error unwraps to exactly one of them,
// so transport layers can map on the category alone.
var (
	// ErrInvalid is returned when the input fails domain validation.
	ErrInvalid = errors.New("invalid input")
	// ErrConflict indicates a uniqueness or state conflict (HTTP 409).
	ErrConflict = errors.New("conflict")
	// ErrNotFound indicates that the requested resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden indicates the requester may not act on the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthorized indicates the request carries no usable identity.
	ErrUnauthorized = errors.New("unauthorized")
)

// Domain errors.
var (
	ErrInvalidSpec   = newError(ErrInvalid, "invalid job spec")
	ErrInvalidAmount = newError(ErrInvalid, "invalid bid amount")
	ErrInvalidEta    = newError(ErrInvalid, "invalid bid eta")

	ErrJobNotFound = newError(ErrNotFound, "job not found")
	ErrBidNotFound = newError(ErrNotFound, "bid not found")

	ErrJobNotBiddable    = newError(ErrConflict, "job is not open for bidding")
	ErrDuplicateBid      = newError(ErrConflict, "courier already has a pending bid on this job")
	ErrBidNotPending     = newError(ErrConflict, "bid is not pending")
	ErrJobNotOpen        = newError(ErrConflict, "job is not open")
	ErrInvalidTransition = newError(ErrConflict, "job status transition not allowed")

	ErrNotOwner = newError(ErrForbidden, "requester does not own the resource")
	ErrNotRole  = newError(ErrForbidden, "requester role not allowed")

	ErrForeignExternalRef = newError(ErrForbidden, "external reference belongs to another owner")
)

// Error is a named domain error bound to a category.
type Error struct {
	kind error
	msg  string
}

func newError(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string { return e.msg }

// Unwrap exposes the category.
func (e *Error) Unwrap() error { return e.kind }

// Kind returns the category of err, or nil when err carries none.
func Kind(err error) error {
	for _, k := range []error{ErrInvalid, ErrConflict, ErrNotFound, ErrForbidden, ErrUnauthorized} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
