// Package sqlxrepos implements the postgres repositories on top of sqlx.
package sqlxrepos

import (
	"database/sql"

	"github.com/lib/pq"
	"github.com/pkg/errors"
)

const (
	uniqueViolation        = "23505"
	numericValueOutOfRange = "22003"
)

func isUniqueViolation(err error) bool {
	pqErr, ok := errors.Cause(err).(*pq.Error)
	return ok && pqErr.Code == uniqueViolation
}

func isOutOfRange(err error) bool {
	pqErr, ok := errors.Cause(err).(*pq.Error)
	return ok && pqErr.Code == numericValueOutOfRange
}

func isNoRows(err error) bool {
	return errors.Cause(err) == sql.ErrNoRows
}
