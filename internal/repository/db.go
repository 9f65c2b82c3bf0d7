package repository

import (
	"errors"

	"github.com/lib/pq"
)

const uniqueViolation pq.ErrorCode = "23505"

type scanner interface {
	Scan(dest ...any) error
}

// isUniqueViolation reports whether err is a unique constraint failure on the
// named constraint, or on any constraint when name is empty.
func isUniqueViolation(err error, name string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != uniqueViolation {
		return false
	}
	return name == "" || pqErr.Constraint == name
}
