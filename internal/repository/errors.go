package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"

	pendingBidIndex = "bids_pending_job_courier_uidx"
)

// IsDuplicate - signals that the error is a duplicate key violation.
func IsDuplicate(err error) bool {
	var pgerr *pgconn.PgError
	return errors.As(err, &pgerr) && pgerr.Code == codeUniqueViolation
}

// isDuplicateOn reports a unique violation on the named constraint or index.
func isDuplicateOn(err error, constraint string) bool {
	var pgerr *pgconn.PgError
	return errors.As(err, &pgerr) && pgerr.Code == codeUniqueViolation && pgerr.ConstraintName == constraint
}

// IsForeignKey - signals that the referenced row does not exist.
func IsForeignKey(err error) bool {
	var pgerr *pgconn.PgError
	return errors.As(err, &pgerr) && pgerr.Code == codeForeignKeyViolation
}

// IsNotFound - signals that the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
