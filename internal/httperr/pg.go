package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
	pgSerialization      = "40001"
)

// IsExclusionConflict reports an exclusion-constraint violation (overlapping ranges).
func IsExclusionConflict(err error) bool {
	return pgCode(err) == pgExclusionViolation
}

func IsUniqueViolation(err error) bool {
	return pgCode(err) == pgUniqueViolation
}

// IsStoreConflict covers every datastore error that means "someone else won the race".
func IsStoreConflict(err error) bool {
	switch pgCode(err) {
	case pgUniqueViolation, pgExclusionViolation, pgSerialization:
		return true
	}
	return false
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
