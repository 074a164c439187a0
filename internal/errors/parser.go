package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// FromDB converts a database error into an application error. Constraint
// violations become user-facing kinds; everything else is internal.
func FromDB(err error, context string) *Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(context + " not found!")
	}

	errStr := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errStr, "duplicate key") ||
		strings.Contains(errStr, "unique constraint") ||
		strings.Contains(errStr, "unique failed"):
		return Conflict(context + " already exists!")

	case strings.Contains(errStr, "foreign key constraint"):
		return Validation("Referenced " + strings.ToLower(context) + " does not exist!")

	case strings.Contains(errStr, "violates not-null constraint") ||
		strings.Contains(errStr, "not null constraint failed"):
		return Validation("Required field missing!")

	case strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout"):
		return Internal("Database unavailable!", err)
	}

	return Internal("Internal Server Error!", err)
}
